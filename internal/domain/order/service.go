// internal/domain/order/service.go
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"gorm.io/gorm"
)

// Service handles order business logic
type Service struct {
	db          *gorm.DB
	config      *config.Config
	cartService *cart.Service
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, cartService *cart.Service) *Service {
	return &Service{
		db:          db,
		config:      cfg,
		cartService: cartService,
	}
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page  int    `form:"page,default=1"`
	Limit int    `form:"limit"`
	Query string `form:"query"` // matches customer name
}

// OrderListResponse represents order list with pagination
type OrderListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// CreateOrder places an order from the user's cart. The cart must have
// items and the user must have a shipping address and payment method on
// file; each missing piece redirects the customer to the page that
// collects it
func (s *Service) CreateOrder(userID uint) (*Order, error) {
	var customer user.User
	if err := s.db.First(&customer, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	userCart, err := s.cartService.GetCart(cart.Identity{UserID: &userID})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	if userCart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if !customer.HasAddress() {
		return nil, ErrNoShippingAddress
	}
	if !customer.HasPaymentMethod() {
		return nil, ErrNoPaymentMethod
	}

	order := Order{
		UserID:          userID,
		ShippingAddress: customer.Address,
		PaymentMethod:   customer.PaymentMethod,
		ItemsPrice:      userCart.ItemsPrice,
		ShippingPrice:   userCart.ShippingPrice,
		TaxPrice:        userCart.TaxPrice,
		TotalPrice:      userCart.TotalPrice,
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	order.OrderNumber = generateOrderNumber(order.ID, order.CreatedAt)
	if err := tx.Model(&order).Update("order_number", order.OrderNumber).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to set order number: %w", err)
	}

	for _, cartItem := range userCart.Items {
		orderItem := OrderItem{
			OrderID:   order.ID,
			ProductID: cartItem.ProductID,
			Name:      cartItem.Name,
			Slug:      cartItem.Slug,
			Image:     cartItem.Image,
			Price:     cartItem.Price,
			Qty:       cartItem.Qty,
		}
		if err := tx.Create(&orderItem).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := cart.ClearItems(tx, userCart.ID); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	return s.GetOrder(order.ID)
}

// GetOrder retrieves an order with its items and customer
func (s *Service) GetOrder(orderID uint) (*Order, error) {
	var order Order
	result := s.db.Preload("Items").Preload("User").First(&order, orderID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}

	if order.User != nil {
		order.User.Password = ""
	}

	return &order, nil
}

// GetOrderForUser retrieves an order, enforcing that it belongs to the
// requesting user unless they are an admin
func (s *Service) GetOrderForUser(orderID, userID uint, isAdmin bool) (*Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && order.UserID != userID {
		return nil, ErrForbidden
	}

	return order, nil
}

// GetMyOrders retrieves the user's orders, newest first
func (s *Service) GetMyOrders(userID uint, page, limit int) (*OrderListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.config.App.PageSize
	}

	var orders []Order
	var total int64

	query := s.db.Model(&Order{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * limit
	if err := query.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return &OrderListResponse{
		Orders:     orders,
		Pagination: newPagination(page, limit, total),
	}, nil
}

// GetAllOrders retrieves all orders for the admin dashboard. The query
// parameter matches against the customer name
func (s *Service) GetAllOrders(req *OrderListRequest) (*OrderListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = s.config.App.PageSize
	}

	var orders []Order
	var total int64

	query := s.db.Model(&Order{})

	if req.Query != "" && req.Query != "all" {
		searchTerm := "%" + strings.ToLower(req.Query) + "%"
		query = query.
			Joins("JOIN users ON users.id = orders.user_id").
			Where("LOWER(users.name) LIKE ?", searchTerm)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Preload("User").
		Order("orders.created_at DESC").
		Offset(offset).Limit(req.Limit).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	for i := range orders {
		if orders[i].User != nil {
			orders[i].User.Password = ""
		}
	}

	return &OrderListResponse{
		Orders:     orders,
		Pagination: newPagination(req.Page, req.Limit, total),
	}, nil
}

// DeleteOrder removes an order and its items
func (s *Service) DeleteOrder(orderID uint) error {
	var order Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to retrieve order: %w", err)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("order_id = ?", orderID).Delete(&OrderItem{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete order items: %w", err)
	}

	if err := tx.Delete(&order).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete order: %w", err)
	}

	return tx.Commit().Error
}

// MarkPaid records payment for an order. Stock is decremented for each
// line in the same transaction; a line that would take stock negative
// aborts the payment
func (s *Service) MarkPaid(orderID uint, result PaymentResult) (*Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if order.IsPaid {
		return nil, ErrAlreadyPaid
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, item := range order.Items {
		res := tx.Exec(
			"UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?",
			item.Qty, item.ProductID, item.Qty,
		)
		if res.Error != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to decrement stock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			tx.Rollback()
			return nil, fmt.Errorf("%w for %s", ErrInsufficientStock, item.Name)
		}
	}

	now := time.Now().UTC()
	if err := tx.Model(order).Updates(map[string]interface{}{
		"is_paid":               true,
		"paid_at":               now,
		"payment_provider_id":   result.ProviderID,
		"payment_status":        result.Status,
		"payment_email_address": result.EmailAddress,
		"payment_amount_paid":   result.AmountPaid,
	}).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}

	return s.GetOrder(orderID)
}

// MarkPaidCOD settles a cash on delivery order from the admin dashboard
func (s *Service) MarkPaidCOD(orderID uint) (*Order, error) {
	return s.MarkPaid(orderID, PaymentResult{
		Status: "COD",
	})
}

// MarkDelivered marks a paid order as delivered
func (s *Service) MarkDelivered(orderID uint) (*Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if !order.IsPaid {
		return nil, ErrNotPaid
	}

	now := time.Now().UTC()
	if err := s.db.Model(order).Updates(map[string]interface{}{
		"is_delivered": true,
		"delivered_at": now,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to mark order delivered: %w", err)
	}

	return s.GetOrder(orderID)
}

// SavePaymentResult persists the gateway order id on an unpaid order so
// it can be matched at capture time
func (s *Service) SavePaymentResult(orderID uint, result PaymentResult) error {
	var order Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to retrieve order: %w", err)
	}

	if order.IsPaid {
		return ErrAlreadyPaid
	}

	if err := s.db.Model(&order).Updates(map[string]interface{}{
		"payment_provider_id":   result.ProviderID,
		"payment_status":        result.Status,
		"payment_email_address": result.EmailAddress,
		"payment_amount_paid":   result.AmountPaid,
	}).Error; err != nil {
		return fmt.Errorf("failed to save payment result: %w", err)
	}

	return nil
}

func generateOrderNumber(id uint, createdAt time.Time) string {
	return fmt.Sprintf("ORD-%s-%06d", createdAt.Format("20060102"), id)
}

func newPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
