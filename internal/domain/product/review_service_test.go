package product_test

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/money"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func reviewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&user.User{}, &product.Product{}, &product.Review{},
		&order.Order{}, &order.OrderItem{},
	))
	return db
}

func seedReviewer(t *testing.T, db *gorm.DB, email string) *user.User {
	t.Helper()

	reviewer := &user.User{Name: "Reviewer", Email: email, Password: "hashed"}
	require.NoError(t, db.Create(reviewer).Error)
	return reviewer
}

func seedReviewedProduct(t *testing.T, db *gorm.DB) *product.Product {
	t.Helper()

	price, err := money.FromString("59.99")
	require.NoError(t, err)
	prod := &product.Product{
		Name:     "Polo Shirt",
		Slug:     "polo-shirt",
		Category: "Shirts",
		Price:    price,
		Stock:    5,
	}
	require.NoError(t, db.Create(prod).Error)
	return prod
}

func reviewRequest(productID uint, rating int) *product.ReviewRequest {
	return &product.ReviewRequest{
		ProductID:   productID,
		Rating:      rating,
		Title:       "Nice shirt",
		Description: "Fits well",
	}
}

func TestUpsertReviewNeverDuplicates(t *testing.T) {
	db := reviewTestDB(t)
	svc := product.NewReviewService(db)
	reviewer := seedReviewer(t, db, "reviewer@example.com")
	prod := seedReviewedProduct(t, db)

	first, err := svc.UpsertReview(reviewer.ID, reviewRequest(prod.ID, 4))
	require.NoError(t, err)

	second, err := svc.UpsertReview(reviewer.ID, reviewRequest(prod.ID, 2))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Rating)

	var count int64
	require.NoError(t, db.Model(&product.Review{}).
		Where("user_id = ? AND product_id = ?", reviewer.ID, prod.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var reloaded product.Product
	require.NoError(t, db.First(&reloaded, prod.ID).Error)
	assert.Equal(t, 2.0, reloaded.Rating)
	assert.Equal(t, 1, reloaded.NumReviews)
}

func TestReviewAggregatesFollowEveryWrite(t *testing.T) {
	db := reviewTestDB(t)
	svc := product.NewReviewService(db)
	prod := seedReviewedProduct(t, db)
	first := seedReviewer(t, db, "first@example.com")
	second := seedReviewer(t, db, "second@example.com")

	_, err := svc.UpsertReview(first.ID, reviewRequest(prod.ID, 5))
	require.NoError(t, err)
	_, err = svc.UpsertReview(second.ID, reviewRequest(prod.ID, 3))
	require.NoError(t, err)

	var reloaded product.Product
	require.NoError(t, db.First(&reloaded, prod.ID).Error)
	assert.Equal(t, 4.0, reloaded.Rating)
	assert.Equal(t, 2, reloaded.NumReviews)

	require.NoError(t, svc.DeleteReview(second.ID, prod.ID))

	require.NoError(t, db.First(&reloaded, prod.ID).Error)
	assert.Equal(t, 5.0, reloaded.Rating)
	assert.Equal(t, 1, reloaded.NumReviews)
}

func TestUpsertReviewRejectsOutOfRangeRating(t *testing.T) {
	db := reviewTestDB(t)
	svc := product.NewReviewService(db)
	reviewer := seedReviewer(t, db, "reviewer@example.com")
	prod := seedReviewedProduct(t, db)

	_, err := svc.UpsertReview(reviewer.ID, reviewRequest(prod.ID, 0))
	assert.ErrorIs(t, err, product.ErrInvalidRating)

	_, err = svc.UpsertReview(reviewer.ID, reviewRequest(prod.ID, 6))
	assert.ErrorIs(t, err, product.ErrInvalidRating)
}

func TestUpsertReviewMarksVerifiedPurchase(t *testing.T) {
	db := reviewTestDB(t)
	svc := product.NewReviewService(db)
	buyer := seedReviewer(t, db, "buyer@example.com")
	browser := seedReviewer(t, db, "browser@example.com")
	prod := seedReviewedProduct(t, db)

	now := time.Now().UTC()
	paid := &order.Order{
		OrderNumber:   "ORD-20240315-000001",
		UserID:        buyer.ID,
		PaymentMethod: user.PaymentMethodPayPal,
		IsPaid:        true,
		PaidAt:        &now,
	}
	require.NoError(t, db.Create(paid).Error)
	require.NoError(t, db.Create(&order.OrderItem{
		OrderID:   paid.ID,
		ProductID: prod.ID,
		Name:      prod.Name,
		Slug:      prod.Slug,
		Price:     prod.Price,
		Qty:       1,
	}).Error)

	verified, err := svc.UpsertReview(buyer.ID, reviewRequest(prod.ID, 5))
	require.NoError(t, err)
	assert.True(t, verified.IsVerifiedPurchase)

	unverified, err := svc.UpsertReview(browser.ID, reviewRequest(prod.ID, 3))
	require.NoError(t, err)
	assert.False(t, unverified.IsVerifiedPurchase)
}
