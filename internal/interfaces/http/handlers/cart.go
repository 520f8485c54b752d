// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService: cart.NewService(db, cfg),
		config:      cfg,
	}
}

// cartIdentity builds the cart identity from the authenticated user (if
// any) and the session cart cookie
func cartIdentity(c *gin.Context) cart.Identity {
	id := cart.Identity{
		SessionCartID: middleware.GetSessionCartID(c),
	}
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		id.UserID = &userID
	}
	return id
}

// GetCart returns the visitor's cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userCart, err := h.cartService.GetCart(cartIdentity(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": userCart,
	})
}

// AddItemRequest represents an add-to-cart request
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// AddItem adds one unit of a product to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	userCart, err := h.cartService.AddItem(cartIdentity(c), req.ProductID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, product.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, cart.ErrInsufficientStock):
			status = http.StatusConflict
		case errors.Is(err, cart.ErrSessionRequired):
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart",
		"data":    userCart,
	})
}

// RemoveItem removes one unit of a product from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	userCart, err := h.cartService.RemoveItem(cartIdentity(c), req.ProductID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, cart.ErrCartNotFound), errors.Is(err, cart.ErrItemNotFound):
			status = http.StatusNotFound
		case errors.Is(err, cart.ErrSessionRequired):
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
		"data":    userCart,
	})
}
