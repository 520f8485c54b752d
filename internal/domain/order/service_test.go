package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumber(t *testing.T) {
	createdAt := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "ORD-20240315-000042", generateOrderNumber(42, createdAt))
}

func TestCheckoutErrorRedirects(t *testing.T) {
	assert.Equal(t, "/cart", ErrEmptyCart.RedirectTo)
	assert.Equal(t, "/shipping-address", ErrNoShippingAddress.RedirectTo)
	assert.Equal(t, "/payment-method", ErrNoPaymentMethod.RedirectTo)
	assert.EqualError(t, ErrEmptyCart, "your cart is empty")
}

func TestCanBeDelivered(t *testing.T) {
	assert.False(t, (&Order{}).CanBeDelivered())
	assert.True(t, (&Order{IsPaid: true}).CanBeDelivered())
	assert.False(t, (&Order{IsPaid: true, IsDelivered: true}).CanBeDelivered())
}

func TestNewPagination(t *testing.T) {
	p := newPagination(1, 12, 25)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.False(t, p.HasPrev)

	p = newPagination(3, 12, 25)
	assert.False(t, p.HasNext)
	assert.True(t, p.HasPrev)

	p = newPagination(1, 12, 0)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNext)

	p = newPagination(1, 12, 12)
	assert.Equal(t, 1, p.TotalPages)
	assert.False(t, p.HasNext)
}
