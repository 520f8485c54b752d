// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/your-org/storefront-backend/internal/pkg/money"
	"gorm.io/gorm"
)

// Cart represents a shopping cart. Guest carts are keyed by the session
// cart id cookie; once the visitor signs in the cart is reassigned to
// their user id
type Cart struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        *uint          `gorm:"index" json:"user_id,omitempty"`
	SessionCartID string         `gorm:"uniqueIndex;not null;size:64" json:"session_cart_id"`
	Items         []CartItem     `gorm:"serializer:json" json:"items"`
	ItemsPrice    money.Money    `gorm:"type:decimal(12,2);not null" json:"items_price"`
	ShippingPrice money.Money    `gorm:"type:decimal(12,2);not null" json:"shipping_price"`
	TaxPrice      money.Money    `gorm:"type:decimal(12,2);not null" json:"tax_price"`
	TotalPrice    money.Money    `gorm:"type:decimal(12,2);not null" json:"total_price"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// CartItem represents a product line in the cart, with the catalog
// fields frozen at the time it was added
type CartItem struct {
	ProductID uint        `json:"product_id"`
	Name      string      `json:"name"`
	Slug      string      `json:"slug"`
	Image     string      `json:"image"`
	Price     money.Money `json:"price"`
	Qty       int         `json:"qty"`
}

// TableName overrides the table name
func (Cart) TableName() string {
	return "carts"
}

// IsEmpty reports whether the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the total quantity across all lines
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Qty
	}
	return count
}

// FindItem returns the cart line for a product, or nil
func (c *Cart) FindItem(productID uint) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}
