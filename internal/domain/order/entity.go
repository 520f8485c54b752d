// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/money"
	"gorm.io/gorm"
)

// Order represents a placed order with prices and shipping address
// frozen at checkout time
type Order struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	OrderNumber     string         `gorm:"uniqueIndex;size:32" json:"order_number"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	User            *user.User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ShippingAddress user.Address   `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	PaymentMethod   string         `gorm:"not null;size:50" json:"payment_method"`
	ItemsPrice      money.Money    `gorm:"type:decimal(12,2);not null" json:"items_price"`
	ShippingPrice   money.Money    `gorm:"type:decimal(12,2);not null" json:"shipping_price"`
	TaxPrice        money.Money    `gorm:"type:decimal(12,2);not null" json:"tax_price"`
	TotalPrice      money.Money    `gorm:"type:decimal(12,2);not null" json:"total_price"`
	IsPaid          bool           `gorm:"default:false" json:"is_paid"`
	PaidAt          *time.Time     `json:"paid_at,omitempty"`
	IsDelivered     bool           `gorm:"default:false" json:"is_delivered"`
	DeliveredAt     *time.Time     `json:"delivered_at,omitempty"`
	PaymentResult   PaymentResult  `gorm:"embedded;embeddedPrefix:payment_" json:"payment_result"`
	Items           []OrderItem    `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// OrderItem represents a product line frozen onto an order
type OrderItem struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"not null;index" json:"order_id"`
	ProductID uint        `gorm:"not null;index" json:"product_id"`
	Name      string      `gorm:"not null;size:255" json:"name"`
	Slug      string      `gorm:"not null;size:255" json:"slug"`
	Image     string      `gorm:"size:500" json:"image"`
	Price     money.Money `gorm:"type:decimal(12,2);not null" json:"price"`
	Qty       int         `gorm:"not null" json:"qty"`
}

// PaymentResult records the gateway outcome for an order. ProviderID is
// the gateway's order id, persisted when the gateway order is created
// and matched again at capture time
type PaymentResult struct {
	ProviderID   string      `gorm:"size:100" json:"provider_id"`
	Status       string      `gorm:"size:50" json:"status"`
	EmailAddress string      `gorm:"size:255" json:"email_address"`
	AmountPaid   money.Money `gorm:"type:decimal(12,2)" json:"amount_paid"`
}

// TableName overrides the table name
func (Order) TableName() string {
	return "orders"
}

// TableName overrides the table name
func (OrderItem) TableName() string {
	return "order_items"
}

// CanBeDelivered reports whether the order may be marked delivered
func (o *Order) CanBeDelivered() bool {
	return o.IsPaid && !o.IsDelivered
}
