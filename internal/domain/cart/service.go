// internal/domain/cart/service.go
package cart

import (
	"errors"
	"fmt"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/pkg/money"
	"gorm.io/gorm"
)

// Sentinel errors for cart operations
var (
	ErrCartNotFound      = errors.New("cart not found")
	ErrItemNotFound      = errors.New("item not found in cart")
	ErrInsufficientStock = errors.New("not enough stock")
	ErrSessionRequired   = errors.New("session cart id is required")
)

// Identity resolves which cart a request operates on. UserID takes
// precedence over the session cart id when set
type Identity struct {
	UserID        *uint
	SessionCartID string
}

// Service handles cart business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// GetCart retrieves the cart for the given identity. Returns an empty,
// unsaved cart if none exists yet
func (s *Service) GetCart(id Identity) (*Cart, error) {
	cart, err := s.findCart(id)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return &Cart{
				UserID:        id.UserID,
				SessionCartID: id.SessionCartID,
				Items:         []CartItem{},
			}, nil
		}
		return nil, err
	}
	return cart, nil
}

// AddItem adds one unit of a product to the cart, creating the cart if
// needed. Stock is checked against the resulting quantity
func (s *Service) AddItem(id Identity, productID uint) (*Cart, error) {
	if id.SessionCartID == "" {
		return nil, ErrSessionRequired
	}

	var prod product.Product
	if err := s.db.First(&prod, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	cart, err := s.findCart(id)
	if err != nil && !errors.Is(err, ErrCartNotFound) {
		return nil, err
	}

	if cart == nil {
		if !prod.InStock(1) {
			return nil, ErrInsufficientStock
		}
		cart = &Cart{
			UserID:        id.UserID,
			SessionCartID: id.SessionCartID,
			Items:         []CartItem{},
		}
	} else if existing := cart.FindItem(productID); existing != nil {
		if !prod.InStock(existing.Qty + 1) {
			return nil, ErrInsufficientStock
		}
	} else if !prod.InStock(1) {
		return nil, ErrInsufficientStock
	}

	cart.Items = addOne(cart.Items, CartItem{
		ProductID: prod.ID,
		Name:      prod.Name,
		Slug:      prod.Slug,
		Image:     prod.PrimaryImage(),
		Price:     prod.Price,
	})

	return s.saveCart(cart)
}

// RemoveItem removes one unit of a product from the cart. A line at
// quantity one is dropped
func (s *Service) RemoveItem(id Identity, productID uint) (*Cart, error) {
	cart, err := s.findCart(id)
	if err != nil {
		return nil, err
	}

	items, found := removeOne(cart.Items, productID)
	if !found {
		return nil, ErrItemNotFound
	}

	cart.Items = items
	return s.saveCart(cart)
}

// ClearItems resets the cart inside the caller's transaction after an
// order is placed. All four price fields go to zero, not through
// CalcPrices, which would charge flat shipping on an empty cart
func ClearItems(tx *gorm.DB, cartID uint) error {
	return tx.Model(&Cart{}).Where("id = ?", cartID).Updates(map[string]interface{}{
		"items":          []CartItem{},
		"items_price":    money.Zero(),
		"shipping_price": money.Zero(),
		"tax_price":      money.Zero(),
		"total_price":    money.Zero(),
	}).Error
}

// ReassignSessionCart hands the guest session cart to a signed-in user.
// Any cart already belonging to the user is discarded in favor of the
// session cart
func (s *Service) ReassignSessionCart(sessionCartID string, userID uint) error {
	if sessionCartID == "" {
		return nil
	}

	var sessionCart Cart
	result := s.db.Where("session_cart_id = ?", sessionCartID).First(&sessionCart)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up session cart: %w", result.Error)
	}

	if sessionCart.UserID != nil && *sessionCart.UserID == userID {
		return nil
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("user_id = ? AND id <> ?", userID, sessionCart.ID).
		Delete(&Cart{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to discard previous cart: %w", err)
	}

	if err := tx.Model(&sessionCart).Update("user_id", userID).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to reassign cart: %w", err)
	}

	return tx.Commit().Error
}

func (s *Service) findCart(id Identity) (*Cart, error) {
	var cart Cart

	query := s.db
	if id.UserID != nil {
		query = query.Where("user_id = ?", *id.UserID)
	} else {
		if id.SessionCartID == "" {
			return nil, ErrSessionRequired
		}
		query = query.Where("session_cart_id = ?", id.SessionCartID)
	}

	result := query.Order("created_at DESC").First(&cart)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to retrieve cart: %w", result.Error)
	}

	return &cart, nil
}

func (s *Service) saveCart(cart *Cart) (*Cart, error) {
	prices := CalcPrices(cart.Items)
	cart.ItemsPrice = prices.ItemsPrice
	cart.ShippingPrice = prices.ShippingPrice
	cart.TaxPrice = prices.TaxPrice
	cart.TotalPrice = prices.TotalPrice

	if err := s.db.Save(cart).Error; err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	return cart, nil
}
