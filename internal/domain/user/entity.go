// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Payment methods a user may save for checkout.
const (
	PaymentMethodPayPal         = "PayPal"
	PaymentMethodCashOnDelivery = "CashOnDelivery"
)

// User represents the user entity
type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"size:255" json:"name"`
	Email         string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password      string         `gorm:"not null;size:255" json:"-"` // Don't return in JSON
	IsAdmin       bool           `gorm:"default:false" json:"is_admin"`
	PaymentMethod string         `gorm:"size:50" json:"payment_method"`
	Address       Address        `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	LastLoginAt   *time.Time     `json:"last_login_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// Address represents a shipping address saved on the user and frozen
// onto orders at checkout
type Address struct {
	FullName      string `gorm:"size:255" json:"full_name"`
	StreetAddress string `gorm:"size:255" json:"street_address"`
	City          string `gorm:"size:100" json:"city"`
	PostalCode    string `gorm:"size:20" json:"postal_code"`
	Country       string `gorm:"size:100" json:"country"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook to handle business logic before user creation
func (u *User) BeforeCreate(tx *gorm.DB) error {
	// Email should be lowercase
	u.Email = strings.ToLower(u.Email)
	return nil
}

// GetDisplayName returns display name (name or email local part)
func (u *User) GetDisplayName() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

// HasAddress reports whether the user has a saved shipping address
func (u *User) HasAddress() bool {
	return u.Address.StreetAddress != "" && u.Address.City != ""
}

// HasPaymentMethod reports whether the user has a saved payment method
func (u *User) HasPaymentMethod() bool {
	return u.PaymentMethod != ""
}

// IsEmpty reports whether the address has been filled in
func (a Address) IsEmpty() bool {
	return a.StreetAddress == "" && a.City == ""
}

// IsValidPaymentMethod reports whether the given method is supported
func IsValidPaymentMethod(method string) bool {
	return method == PaymentMethodPayPal || method == PaymentMethodCashOnDelivery
}
