package order

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/user"
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

	require.NoError(t, db.AutoMigrate(
		&user.User{}, &product.Product{}, &cart.Cart{}, &Order{}, &OrderItem{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{PageSize: 12}}
}

// seedCheckout creates a customer ready to check out: saved address and
// payment method, and a cart holding two units of a 52.50 product
func seedCheckout(t *testing.T, db *gorm.DB) (*Service, *user.User) {
	t.Helper()

	cfg := testConfig()
	cartService := cart.NewService(db, cfg)
	svc := NewService(db, cfg, cartService)

	customer := &user.User{
		Name:          "Jane Doe",
		Email:         "jane@example.com",
		Password:      "hashed",
		PaymentMethod: user.PaymentMethodPayPal,
		Address: user.Address{
			FullName:      "Jane Doe",
			StreetAddress: "1 Main St",
			City:          "Springfield",
			PostalCode:    "12345",
			Country:       "US",
		},
	}
	require.NoError(t, db.Create(customer).Error)

	price, err := money.FromString("52.50")
	require.NoError(t, err)
	prod := &product.Product{
		Name:     "Polo Shirt",
		Slug:     "polo-shirt",
		Category: "Shirts",
		Price:    price,
		Stock:    5,
	}
	require.NoError(t, db.Create(prod).Error)

	identity := cart.Identity{UserID: &customer.ID, SessionCartID: "sess-checkout"}
	for i := 0; i < 2; i++ {
		_, err := cartService.AddItem(identity, prod.ID)
		require.NoError(t, err)
	}

	return svc, customer
}

func TestCreateOrderCopiesCartPricing(t *testing.T) {
	db := testDB(t)
	svc, customer := seedCheckout(t, db)

	ord, err := svc.CreateOrder(customer.ID)
	require.NoError(t, err)

	assert.NotEmpty(t, ord.OrderNumber)
	assert.Equal(t, "105.00", ord.ItemsPrice.String())
	assert.Equal(t, "0.00", ord.ShippingPrice.String())
	assert.Equal(t, "15.75", ord.TaxPrice.String())
	assert.Equal(t, "120.75", ord.TotalPrice.String())
	assert.Equal(t, user.PaymentMethodPayPal, ord.PaymentMethod)
	assert.Equal(t, "1 Main St", ord.ShippingAddress.StreetAddress)
	require.Len(t, ord.Items, 1)
	assert.Equal(t, 2, ord.Items[0].Qty)
	assert.Equal(t, "52.50", ord.Items[0].Price.String())
}

func TestCreateOrderResetsCart(t *testing.T) {
	db := testDB(t)
	svc, customer := seedCheckout(t, db)

	_, err := svc.CreateOrder(customer.ID)
	require.NoError(t, err)

	var reloaded cart.Cart
	require.NoError(t, db.Where("user_id = ?", customer.ID).First(&reloaded).Error)
	assert.Empty(t, reloaded.Items)
	assert.Equal(t, "0.00", reloaded.ItemsPrice.String())
	assert.Equal(t, "0.00", reloaded.ShippingPrice.String())
	assert.Equal(t, "0.00", reloaded.TaxPrice.String())
	assert.Equal(t, "0.00", reloaded.TotalPrice.String())
}

func TestCreateOrderCheckoutPreconditions(t *testing.T) {
	db := testDB(t)
	cfg := testConfig()
	cartService := cart.NewService(db, cfg)
	svc := NewService(db, cfg, cartService)

	customer := &user.User{Name: "New User", Email: "new@example.com", Password: "hashed"}
	require.NoError(t, db.Create(customer).Error)

	// Empty cart comes first
	_, err := svc.CreateOrder(customer.ID)
	assert.ErrorIs(t, err, ErrEmptyCart)

	price, err := money.FromString("20.00")
	require.NoError(t, err)
	prod := &product.Product{Name: "Cap", Slug: "cap", Category: "Hats", Price: price, Stock: 3}
	require.NoError(t, db.Create(prod).Error)
	_, err = cartService.AddItem(cart.Identity{UserID: &customer.ID, SessionCartID: "sess-pre"}, prod.ID)
	require.NoError(t, err)

	// Then the missing address
	_, err = svc.CreateOrder(customer.ID)
	assert.ErrorIs(t, err, ErrNoShippingAddress)

	customer.Address = user.Address{StreetAddress: "1 Main St", City: "Springfield"}
	require.NoError(t, db.Save(customer).Error)

	// Then the missing payment method
	_, err = svc.CreateOrder(customer.ID)
	assert.ErrorIs(t, err, ErrNoPaymentMethod)

	var count int64
	require.NoError(t, db.Model(&Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateOrderRollsBackWhenItemsFailToWrite(t *testing.T) {
	db := testDB(t)
	svc, customer := seedCheckout(t, db)

	require.NoError(t, db.Migrator().DropTable(&OrderItem{}))

	_, err := svc.CreateOrder(customer.ID)
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&Order{}).Count(&count).Error)
	assert.Zero(t, count)

	current, err := cart.NewService(db, testConfig()).GetCart(cart.Identity{UserID: &customer.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, current.ItemCount())
	assert.Equal(t, "120.75", current.TotalPrice.String())
}

func TestMarkPaidDecrementsStock(t *testing.T) {
	db := testDB(t)
	svc, customer := seedCheckout(t, db)

	ord, err := svc.CreateOrder(customer.ID)
	require.NoError(t, err)

	paid, err := svc.MarkPaidCOD(ord.ID)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, "COD", paid.PaymentResult.Status)

	var prod product.Product
	require.NoError(t, db.First(&prod, ord.Items[0].ProductID).Error)
	assert.Equal(t, 3, prod.Stock)
}

func TestMarkPaidRejectsDoublePay(t *testing.T) {
	db := testDB(t)
	svc, customer := seedCheckout(t, db)

	ord, err := svc.CreateOrder(customer.ID)
	require.NoError(t, err)

	_, err = svc.MarkPaidCOD(ord.ID)
	require.NoError(t, err)

	_, err = svc.MarkPaidCOD(ord.ID)
	assert.ErrorIs(t, err, ErrAlreadyPaid)

	// Stock was only decremented once
	var prod product.Product
	require.NoError(t, db.First(&prod, ord.Items[0].ProductID).Error)
	assert.Equal(t, 3, prod.Stock)
}

func TestMarkPaidInsufficientStockRollsBack(t *testing.T) {
	db := testDB(t)
	svc, customer := seedCheckout(t, db)

	ord, err := svc.CreateOrder(customer.ID)
	require.NoError(t, err)

	// Stock sold elsewhere between checkout and settlement
	productID := ord.Items[0].ProductID
	require.NoError(t, db.Model(&product.Product{}).
		Where("id = ?", productID).Update("stock", 1).Error)

	_, err = svc.MarkPaidCOD(ord.ID)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	reloaded, err := svc.GetOrder(ord.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsPaid)

	var prod product.Product
	require.NoError(t, db.First(&prod, productID).Error)
	assert.Equal(t, 1, prod.Stock)
}

func TestMarkDeliveredRequiresPayment(t *testing.T) {
	db := testDB(t)
	svc, customer := seedCheckout(t, db)

	ord, err := svc.CreateOrder(customer.ID)
	require.NoError(t, err)

	_, err = svc.MarkDelivered(ord.ID)
	assert.ErrorIs(t, err, ErrNotPaid)

	_, err = svc.MarkPaidCOD(ord.ID)
	require.NoError(t, err)

	delivered, err := svc.MarkDelivered(ord.ID)
	require.NoError(t, err)
	assert.True(t, delivered.IsDelivered)
	require.NotNil(t, delivered.DeliveredAt)
}
