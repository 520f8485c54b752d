package cart

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/pkg/money"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&product.Product{}, &Cart{}))
	return db
}

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{PageSize: 12}}
}

func seedProduct(t *testing.T, db *gorm.DB, price string, stock int) *product.Product {
	t.Helper()

	p, err := money.FromString(price)
	require.NoError(t, err)

	prod := &product.Product{
		Name:     "Polo Shirt",
		Slug:     "polo-shirt",
		Category: "Shirts",
		Price:    p,
		Stock:    stock,
	}
	require.NoError(t, db.Create(prod).Error)
	return prod
}

func TestGetCartReturnsEmptyCartWhenAbsent(t *testing.T) {
	svc := NewService(testDB(t), testConfig())

	c, err := svc.GetCart(Identity{SessionCartID: "sess-new"})
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.ID)
}

func TestAddItemChecksStock(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, testConfig())
	prod := seedProduct(t, db, "20.00", 1)

	id := Identity{SessionCartID: "sess-stock"}
	c, err := svc.AddItem(id, prod.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, c.ItemCount())
	assert.Equal(t, "33.00", c.TotalPrice.String())

	_, err = svc.AddItem(id, prod.ID)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, testConfig())
	prod := seedProduct(t, db, "52.50", 5)

	id := Identity{SessionCartID: "sess-qty"}
	_, err := svc.AddItem(id, prod.ID)
	require.NoError(t, err)

	c, err := svc.AddItem(id, prod.ID)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Qty)
	assert.Equal(t, "105.00", c.ItemsPrice.String())
	assert.Equal(t, "0.00", c.ShippingPrice.String())
	assert.Equal(t, "120.75", c.TotalPrice.String())
}

func TestClearItemsZerosCart(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, testConfig())
	prod := seedProduct(t, db, "20.00", 5)

	id := Identity{SessionCartID: "sess-clear"}
	saved, err := svc.AddItem(id, prod.ID)
	require.NoError(t, err)
	assert.Equal(t, "33.00", saved.TotalPrice.String())

	require.NoError(t, ClearItems(db, saved.ID))

	var reloaded Cart
	require.NoError(t, db.First(&reloaded, saved.ID).Error)
	assert.Empty(t, reloaded.Items)
	assert.Equal(t, "0.00", reloaded.ItemsPrice.String())
	assert.Equal(t, "0.00", reloaded.ShippingPrice.String())
	assert.Equal(t, "0.00", reloaded.TaxPrice.String())
	assert.Equal(t, "0.00", reloaded.TotalPrice.String())
}

func TestReassignSessionCartAdoptsGuestCart(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, testConfig())
	prod := seedProduct(t, db, "9.99", 10)

	userID := uint(7)
	// The user abandoned a cart in an earlier session
	_, err := svc.AddItem(Identity{UserID: &userID, SessionCartID: "old-sess"}, prod.ID)
	require.NoError(t, err)

	_, err = svc.AddItem(Identity{SessionCartID: "guest-sess"}, prod.ID)
	require.NoError(t, err)
	guest, err := svc.AddItem(Identity{SessionCartID: "guest-sess"}, prod.ID)
	require.NoError(t, err)

	require.NoError(t, svc.ReassignSessionCart("guest-sess", userID))

	current, err := svc.GetCart(Identity{UserID: &userID})
	require.NoError(t, err)
	assert.Equal(t, guest.ID, current.ID)
	assert.Equal(t, 2, current.ItemCount())
}

func TestReassignSessionCartMissingCartIsNoOp(t *testing.T) {
	svc := NewService(testDB(t), testConfig())

	assert.NoError(t, svc.ReassignSessionCart("never-seen", 1))
	assert.NoError(t, svc.ReassignSessionCart("", 1))
}
