// internal/domain/order/errors.go
package order

import "errors"

// Sentinel errors for order operations
var (
	ErrNotFound          = errors.New("order not found")
	ErrAlreadyPaid       = errors.New("order is already paid")
	ErrNotPaid           = errors.New("order is not paid")
	ErrInsufficientStock = errors.New("not enough stock")
	ErrForbidden         = errors.New("order belongs to another user")
)

// CheckoutError describes why checkout cannot proceed and where the
// client should send the customer to fix it
type CheckoutError struct {
	Reason     string
	RedirectTo string
}

func (e *CheckoutError) Error() string {
	return e.Reason
}

// Checkout preconditions, checked in this order.
var (
	ErrEmptyCart = &CheckoutError{
		Reason:     "your cart is empty",
		RedirectTo: "/cart",
	}
	ErrNoShippingAddress = &CheckoutError{
		Reason:     "no shipping address on file",
		RedirectTo: "/shipping-address",
	}
	ErrNoPaymentMethod = &CheckoutError{
		Reason:     "no payment method selected",
		RedirectTo: "/payment-method",
	}
)
