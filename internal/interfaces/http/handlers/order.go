// internal/interfaces/http/handlers/order.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService *order.Service
	config       *config.Config
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(db *gorm.DB, cfg *config.Config) *OrderHandler {
	cartService := cart.NewService(db, cfg)
	return &OrderHandler{
		orderService: order.NewService(db, cfg, cartService),
		config:       cfg,
	}
}

// CreateOrder places an order from the user's cart. Failed checkout
// preconditions return a redirect hint so the client can send the
// customer to the page that fixes the problem
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	ord, err := h.orderService.CreateOrder(userID)
	if err != nil {
		var checkoutErr *order.CheckoutError
		if errors.As(err, &checkoutErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":       checkoutErr.Reason,
				"redirect_to": checkoutErr.RedirectTo,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Order placed successfully",
		"data":        ord,
		"redirect_to": "/order/" + strconv.FormatUint(uint64(ord.ID), 10),
	})
}

// GetOrder returns a single order. Customers can only see their own
func (h *OrderHandler) GetOrder(c *gin.Context) {
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

	ord, err := h.orderService.GetOrderForUser(uint(orderID), userID, middleware.IsAdminFromContext(c))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, order.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, order.ErrForbidden):
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": ord,
	})
}

// GetMyOrders returns the current user's order history
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	response, err := h.orderService.GetMyOrders(userID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": response,
	})
}

// GetAllOrders returns all orders for the admin dashboard
func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	var req order.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.orderService.GetAllOrders(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": response,
	})
}

// DeleteOrder removes an order (admin)
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	if err := h.orderService.DeleteOrder(uint(orderID)); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order deleted successfully",
	})
}

// MarkPaidCOD settles a cash on delivery order (admin)
func (h *OrderHandler) MarkPaidCOD(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	ord, err := h.orderService.MarkPaidCOD(uint(orderID))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, order.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, order.ErrAlreadyPaid):
			status = http.StatusConflict
		case errors.Is(err, order.ErrInsufficientStock):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order marked as paid",
		"data":    ord,
	})
}

// MarkDelivered marks a paid order as delivered (admin)
func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	ord, err := h.orderService.MarkDelivered(uint(orderID))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, order.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, order.ErrNotPaid):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order marked as delivered",
		"data":    ord,
	})
}
