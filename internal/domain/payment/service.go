// internal/domain/payment/service.go
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
)

// Sentinel errors for payment operations
var (
	ErrWrongPaymentMethod  = errors.New("order is not a PayPal order")
	ErrPaymentMismatch     = errors.New("payment does not match this order")
	ErrPaymentNotCompleted = errors.New("payment was not completed")
)

// Service coordinates the two phase PayPal flow: create a gateway order
// and persist its id, then capture and settle once the customer approves
type Service struct {
	config       *config.Config
	orderService *order.Service
	paypal       *PayPalClient
}

// NewService creates a new payment service
func NewService(cfg *config.Config, orderService *order.Service, paypal *PayPalClient) *Service {
	return &Service{
		config:       cfg,
		orderService: orderService,
		paypal:       paypal,
	}
}

// CreatePayPalOrder creates a gateway order for an unpaid order and
// records the gateway order id against it
func (s *Service) CreatePayPalOrder(ctx context.Context, orderID, userID uint, isAdmin bool) (string, error) {
	ord, err := s.orderService.GetOrderForUser(orderID, userID, isAdmin)
	if err != nil {
		return "", err
	}

	if ord.IsPaid {
		return "", order.ErrAlreadyPaid
	}
	if ord.PaymentMethod != user.PaymentMethodPayPal {
		return "", ErrWrongPaymentMethod
	}

	gatewayOrder, err := s.paypal.CreateOrder(ctx, ord.TotalPrice)
	if err != nil {
		return "", fmt.Errorf("failed to create gateway order: %w", err)
	}

	// Only the gateway order id is stored until capture fills in the
	// status, payer email and amount
	if err := s.orderService.SavePaymentResult(orderID, order.PaymentResult{
		ProviderID: gatewayOrder.ID,
	}); err != nil {
		return "", err
	}

	return gatewayOrder.ID, nil
}

// ApprovePayPalOrder captures an approved gateway order and marks the
// order paid. The capture must reference the gateway order id stored on
// the order and must have completed
func (s *Service) ApprovePayPalOrder(ctx context.Context, orderID, userID uint, isAdmin bool, gatewayOrderID string) (*order.Order, error) {
	ord, err := s.orderService.GetOrderForUser(orderID, userID, isAdmin)
	if err != nil {
		return nil, err
	}

	if ord.IsPaid {
		return nil, order.ErrAlreadyPaid
	}

	capture, err := s.paypal.CapturePayment(ctx, gatewayOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to capture payment: %w", err)
	}

	if err := ValidateCapture(ord.PaymentResult.ProviderID, capture); err != nil {
		return nil, err
	}

	return s.orderService.MarkPaid(orderID, order.PaymentResult{
		ProviderID:   capture.ID,
		Status:       capture.Status,
		EmailAddress: capture.EmailAddress,
		AmountPaid:   capture.AmountPaid,
	})
}

// ValidateCapture checks a capture against the gateway order id stored
// on the order when payment began
func ValidateCapture(storedProviderID string, capture *CaptureResult) error {
	if storedProviderID == "" || capture.ID != storedProviderID {
		return ErrPaymentMismatch
	}
	if capture.Status != "COMPLETED" {
		return ErrPaymentNotCompleted
	}
	return nil
}
