package payment

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
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
		&user.User{}, &product.Product{}, &cart.Cart{},
		&order.Order{}, &order.OrderItem{},
	))
	return db
}

// seedPayPalOrder places an unpaid 120.75 PayPal order (two units of a
// 52.50 product) and returns the services wired against the test db
func seedPayPalOrder(t *testing.T, db *gorm.DB, baseURL string) (*Service, *order.Service, *order.Order, *user.User) {
	t.Helper()

	cfg := &config.Config{App: config.AppConfig{PageSize: 12}}
	cartService := cart.NewService(db, cfg)
	orderService := order.NewService(db, cfg, cartService)
	svc := NewService(cfg, orderService, testClient(baseURL))

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

	identity := cart.Identity{UserID: &customer.ID, SessionCartID: "sess-paypal"}
	for i := 0; i < 2; i++ {
		_, err := cartService.AddItem(identity, prod.ID)
		require.NoError(t, err)
	}

	ord, err := orderService.CreateOrder(customer.ID)
	require.NoError(t, err)
	return svc, orderService, ord, customer
}

func TestCreatePayPalOrderStoresGatewayIDOnly(t *testing.T) {
	server := paypalStub(t, "COMPLETED")
	defer server.Close()

	db := testDB(t)
	svc, orderService, ord, customer := seedPayPalOrder(t, db, server.URL)

	gatewayID, err := svc.CreatePayPalOrder(context.Background(), ord.ID, customer.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "5O190127TN364715T", gatewayID)

	// The status, payer email and amount stay empty until capture
	reloaded, err := orderService.GetOrder(ord.ID)
	require.NoError(t, err)
	assert.Equal(t, "5O190127TN364715T", reloaded.PaymentResult.ProviderID)
	assert.Empty(t, reloaded.PaymentResult.Status)
	assert.Empty(t, reloaded.PaymentResult.EmailAddress)
	assert.Equal(t, "0.00", reloaded.PaymentResult.AmountPaid.String())
	assert.False(t, reloaded.IsPaid)
}

func TestApprovePayPalOrderSettlesOrder(t *testing.T) {
	server := paypalStub(t, "COMPLETED")
	defer server.Close()

	db := testDB(t)
	svc, _, ord, customer := seedPayPalOrder(t, db, server.URL)

	_, err := svc.CreatePayPalOrder(context.Background(), ord.ID, customer.ID, false)
	require.NoError(t, err)

	paid, err := svc.ApprovePayPalOrder(
		context.Background(), ord.ID, customer.ID, false, "5O190127TN364715T")
	require.NoError(t, err)

	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, "COMPLETED", paid.PaymentResult.Status)
	assert.Equal(t, "buyer@example.com", paid.PaymentResult.EmailAddress)
	assert.Equal(t, "120.75", paid.PaymentResult.AmountPaid.String())

	var prod product.Product
	require.NoError(t, db.First(&prod, paid.Items[0].ProductID).Error)
	assert.Equal(t, 3, prod.Stock)
}

func TestApprovePayPalOrderRejectsUnknownCapture(t *testing.T) {
	server := paypalStub(t, "COMPLETED")
	defer server.Close()

	db := testDB(t)
	svc, orderService, ord, customer := seedPayPalOrder(t, db, server.URL)

	// No gateway order was ever created for this order
	_, err := svc.ApprovePayPalOrder(
		context.Background(), ord.ID, customer.ID, false, "5O190127TN364715T")
	assert.ErrorIs(t, err, ErrPaymentMismatch)

	reloaded, err := orderService.GetOrder(ord.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsPaid)
}

func TestApprovePayPalOrderRejectsIncompleteCapture(t *testing.T) {
	server := paypalStub(t, "PENDING")
	defer server.Close()

	db := testDB(t)
	svc, orderService, ord, customer := seedPayPalOrder(t, db, server.URL)

	_, err := svc.CreatePayPalOrder(context.Background(), ord.ID, customer.ID, false)
	require.NoError(t, err)

	_, err = svc.ApprovePayPalOrder(
		context.Background(), ord.ID, customer.ID, false, "5O190127TN364715T")
	assert.ErrorIs(t, err, ErrPaymentNotCompleted)

	reloaded, err := orderService.GetOrder(ord.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsPaid)

	var prod product.Product
	require.NoError(t, db.First(&prod, reloaded.Items[0].ProductID).Error)
	assert.Equal(t, 5, prod.Stock)
}

func TestCreatePayPalOrderRejectsNonPayPalOrders(t *testing.T) {
	server := paypalStub(t, "COMPLETED")
	defer server.Close()

	db := testDB(t)
	svc, _, ord, customer := seedPayPalOrder(t, db, server.URL)

	require.NoError(t, db.Model(&order.Order{}).
		Where("id = ?", ord.ID).
		Update("payment_method", user.PaymentMethodCashOnDelivery).Error)

	_, err := svc.CreatePayPalOrder(context.Background(), ord.ID, customer.ID, false)
	assert.ErrorIs(t, err, ErrWrongPaymentMethod)
}
