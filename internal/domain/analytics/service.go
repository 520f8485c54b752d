// internal/domain/analytics/service.go
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/pkg/money"
	"gorm.io/gorm"
)

const (
	summaryCacheKey = "analytics:order_summary"
	summaryCacheTTL = 60 * time.Second
)

// Service computes dashboard statistics for the admin overview
type Service struct {
	db     *gorm.DB
	redis  *redis.Client
	config *config.Config
}

// NewService creates a new analytics service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		redis:  redisClient,
		config: cfg,
	}
}

// MonthlySales is one month of sales, keyed "MM/YY"
type MonthlySales struct {
	Month      string      `json:"month"`
	TotalSales money.Money `json:"total_sales"`
}

// OrderSummary is the admin dashboard overview
type OrderSummary struct {
	OrdersCount   int64          `json:"orders_count"`
	ProductsCount int64          `json:"products_count"`
	UsersCount    int64          `json:"users_count"`
	TotalSales    money.Money    `json:"total_sales"`
	SalesByMonth  []MonthlySales `json:"sales_by_month"`
	LatestOrders  []order.Order  `json:"latest_orders"`
}

// GetOrderSummary returns the dashboard overview, cached briefly in
// Redis to keep the dashboard cheap to refresh
func (s *Service) GetOrderSummary(ctx context.Context) (*OrderSummary, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, summaryCacheKey).Result(); err == nil {
			var summary OrderSummary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return &summary, nil
			}
		}
	}

	summary, err := s.computeOrderSummary()
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if encoded, err := json.Marshal(summary); err == nil {
			s.redis.Set(ctx, summaryCacheKey, encoded, summaryCacheTTL)
		}
	}

	return summary, nil
}

func (s *Service) computeOrderSummary() (*OrderSummary, error) {
	summary := &OrderSummary{}

	if err := s.db.Table("orders").Where("deleted_at IS NULL").Count(&summary.OrdersCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := s.db.Table("products").Where("deleted_at IS NULL").Count(&summary.ProductsCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if err := s.db.Table("users").Where("deleted_at IS NULL").Count(&summary.UsersCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var totalSales struct {
		Total string
	}
	if err := s.db.Raw(
		"SELECT COALESCE(SUM(total_price), 0) as total FROM orders WHERE deleted_at IS NULL",
	).Scan(&totalSales).Error; err != nil {
		return nil, fmt.Errorf("failed to sum sales: %w", err)
	}
	total, err := money.FromString(totalSales.Total)
	if err != nil {
		return nil, fmt.Errorf("failed to parse total sales: %w", err)
	}
	summary.TotalSales = total

	type monthlyRow struct {
		Month      string
		TotalSales string
	}
	var rows []monthlyRow
	if err := s.db.Raw(`
		SELECT to_char(created_at, 'MM/YY') as month,
		       COALESCE(SUM(total_price), 0) as total_sales
		FROM orders
		WHERE deleted_at IS NULL
		GROUP BY to_char(created_at, 'MM/YY')
		ORDER BY MIN(created_at) DESC
	`).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to compute monthly sales: %w", err)
	}

	summary.SalesByMonth = make([]MonthlySales, 0, len(rows))
	for _, row := range rows {
		amount, err := money.FromString(row.TotalSales)
		if err != nil {
			return nil, fmt.Errorf("failed to parse monthly sales: %w", err)
		}
		summary.SalesByMonth = append(summary.SalesByMonth, MonthlySales{
			Month:      row.Month,
			TotalSales: amount,
		})
	}

	var latest []order.Order
	if err := s.db.Model(&order.Order{}).
		Preload("User").
		Order("created_at DESC").
		Limit(6).
		Find(&latest).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve latest orders: %w", err)
	}
	for i := range latest {
		if latest[i].User != nil {
			latest[i].User.Password = ""
		}
	}
	summary.LatestOrders = latest

	return summary, nil
}
