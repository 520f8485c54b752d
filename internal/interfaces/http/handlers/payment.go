// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/payment"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/email"
	"gorm.io/gorm"
)

// PaymentHandler handles PayPal payment endpoints
type PaymentHandler struct {
	paymentService *payment.Service
	emailService   *email.EmailService
	config         *config.Config
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(db *gorm.DB, cfg *config.Config) *PaymentHandler {
	cartService := cart.NewService(db, cfg)
	orderService := order.NewService(db, cfg, cartService)
	paypalClient := payment.NewPayPalClient(cfg)

	return &PaymentHandler{
		paymentService: payment.NewService(cfg, orderService, paypalClient),
		emailService:   email.NewEmailService(cfg),
		config:         cfg,
	}
}

// CreatePayPalOrder creates a gateway order for an unpaid order
func (h *PaymentHandler) CreatePayPalOrder(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	gatewayOrderID, err := h.paymentService.CreatePayPalOrder(
		c.Request.Context(), uint(orderID), userID, middleware.IsAdminFromContext(c))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, order.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, order.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, order.ErrAlreadyPaid), errors.Is(err, payment.ErrWrongPaymentMethod):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "PayPal order created",
		"data": gin.H{
			"paypal_order_id": gatewayOrderID,
		},
	})
}

// ApprovePayPalOrderRequest carries the approved gateway order id
type ApprovePayPalOrderRequest struct {
	PayPalOrderID string `json:"paypal_order_id" binding:"required"`
}

// ApprovePayPalOrder captures an approved gateway order and settles the
// order
func (h *PaymentHandler) ApprovePayPalOrder(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req ApprovePayPalOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	ord, err := h.paymentService.ApprovePayPalOrder(
		c.Request.Context(), uint(orderID), userID, middleware.IsAdminFromContext(c), req.PayPalOrderID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, order.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, order.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, order.ErrAlreadyPaid),
			errors.Is(err, order.ErrInsufficientStock),
			errors.Is(err, payment.ErrPaymentMismatch),
			errors.Is(err, payment.ErrPaymentNotCompleted):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	// Receipt email failing must not fail the payment
	if err := h.emailService.SendOrderReceiptEmail(c.Request.Context(), ord); err != nil {
		logrus.WithError(err).WithField("order_id", ord.ID).Warn("failed to send order receipt email")
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment completed",
		"data":    ord,
	})
}
