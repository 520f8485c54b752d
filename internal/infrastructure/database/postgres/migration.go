// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/money"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	models := []interface{}{
		&user.User{},
		&product.Product{},
		&product.Review{},
		&cart.Cart{},
		&order.Order{},
		&order.OrderItem{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_rating ON products(rating)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_is_paid ON orders(is_paid)",
		"CREATE INDEX IF NOT EXISTS idx_orders_is_delivered ON orders(is_delivered)",

		"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",

		"CREATE INDEX IF NOT EXISTS idx_reviews_product_created ON reviews(product_id, created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
		}
	}

	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := m.seedSampleProducts(); err != nil {
		return fmt.Errorf("failed to seed sample products: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

func (m *Migration) seedAdminUser() error {
	var count int64
	m.db.Model(&user.User{}).Where("is_admin = ?", true).Count(&count)
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := user.User{
		Name:     "Admin",
		Email:    "admin@example.com",
		Password: string(hashed),
		IsAdmin:  true,
	}

	return m.db.Create(&admin).Error
}

func (m *Migration) seedSampleProducts() error {
	var count int64
	m.db.Model(&product.Product{}).Count(&count)
	if count > 0 {
		return nil
	}

	mustPrice := func(s string) money.Money {
		p, err := money.FromString(s)
		if err != nil {
			panic(err)
		}
		return p
	}

	products := []product.Product{
		{
			Name:        "Polo Sporting Stretch Shirt",
			Slug:        "polo-sporting-stretch-shirt",
			Category:    "Men's Dress Shirts",
			Brand:       "Polo",
			Description: "Classic Polo style with modern comfort",
			Images:      []string{"/images/sample-products/p1-1.jpg", "/images/sample-products/p1-2.jpg"},
			Stock:       5,
			Price:       mustPrice("59.99"),
			IsFeatured:  true,
			Banner:      "/images/banner-1.jpg",
		},
		{
			Name:        "Brooks Brothers Long Sleeved Shirt",
			Slug:        "brooks-brothers-long-sleeved-shirt",
			Category:    "Men's Dress Shirts",
			Brand:       "Brooks Brothers",
			Description: "Timeless style and premium comfort",
			Images:      []string{"/images/sample-products/p2-1.jpg", "/images/sample-products/p2-2.jpg"},
			Stock:       8,
			Price:       mustPrice("85.90"),
			IsFeatured:  true,
			Banner:      "/images/banner-2.jpg",
		},
		{
			Name:        "Tommy Hilfiger Classic Fit Dress Shirt",
			Slug:        "tommy-hilfiger-classic-fit-dress-shirt",
			Category:    "Men's Dress Shirts",
			Brand:       "Tommy Hilfiger",
			Description: "A perfect blend of sophistication and comfort",
			Images:      []string{"/images/sample-products/p3-1.jpg", "/images/sample-products/p3-2.jpg"},
			Stock:       0,
			Price:       mustPrice("99.95"),
		},
		{
			Name:        "Calvin Klein Slim Fit Stretch Shirt",
			Slug:        "calvin-klein-slim-fit-stretch-shirt",
			Category:    "Men's Dress Shirts",
			Brand:       "Calvin Klein",
			Description: "Streamlined design with flexible stretch fabric",
			Images:      []string{"/images/sample-products/p4-1.jpg", "/images/sample-products/p4-2.jpg"},
			Stock:       10,
			Price:       mustPrice("39.95"),
		},
		{
			Name:        "Polo Ralph Lauren Oxford Shirt",
			Slug:        "polo-ralph-lauren-oxford-shirt",
			Category:    "Men's Dress Shirts",
			Brand:       "Polo",
			Description: "Iconic Polo design with refined oxford fabric",
			Images:      []string{"/images/sample-products/p5-1.jpg", "/images/sample-products/p5-2.jpg"},
			Stock:       6,
			Price:       mustPrice("79.99"),
		},
		{
			Name:        "Polo Classic Pink Hoodie",
			Slug:        "polo-classic-pink-hoodie",
			Category:    "Men's Sweatshirts",
			Brand:       "Polo",
			Description: "Soft, stylish, and perfect for laid-back days",
			Images:      []string{"/images/sample-products/p6-1.jpg", "/images/sample-products/p6-2.jpg"},
			Stock:       8,
			Price:       mustPrice("99.99"),
		},
	}

	return m.db.Create(&products).Error
}
