// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/money"
	"gorm.io/gorm"
)

// Product represents a catalog product
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Category    string         `gorm:"not null;size:100;index" json:"category"`
	Brand       string         `gorm:"size:100" json:"brand"`
	Description string         `gorm:"type:text" json:"description"`
	Images      []string       `gorm:"serializer:json" json:"images"`
	Stock       int            `gorm:"not null;default:0" json:"stock"`
	Price       money.Money    `gorm:"type:decimal(12,2);not null" json:"price"`
	Rating      float64        `gorm:"type:decimal(3,2);default:0" json:"rating"`
	NumReviews  int            `gorm:"default:0" json:"num_reviews"`
	IsFeatured  bool           `gorm:"default:false" json:"is_featured"`
	Banner      string         `gorm:"size:500" json:"banner,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Review represents a customer review of a product. A user may have at
// most one review per product
type Review struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	UserID             uint           `gorm:"not null;uniqueIndex:idx_reviews_user_product" json:"user_id"`
	ProductID          uint           `gorm:"not null;uniqueIndex:idx_reviews_user_product" json:"product_id"`
	Rating             int            `gorm:"not null" json:"rating"`
	Title              string         `gorm:"not null;size:255" json:"title"`
	Description        string         `gorm:"type:text" json:"description"`
	IsVerifiedPurchase bool           `gorm:"default:false" json:"is_verified_purchase"`
	User               *user.User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}

// TableName overrides the table name
func (Review) TableName() string {
	return "reviews"
}

// InStock reports whether at least qty units are available
func (p *Product) InStock(qty int) bool {
	return p.Stock >= qty
}

// PrimaryImage returns the first product image, or empty string
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// CategoryCount represents a category with its product count
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}
