// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/money"
	"gorm.io/gorm"
)

// Sentinel errors for product operations
var (
	ErrNotFound  = errors.New("product not found")
	ErrSlugTaken = errors.New("product with this slug already exists")
)

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit"`
	Query    string `form:"query"`
	Category string `form:"category"`
	Price    string `form:"price"`  // "lo-hi" range, e.g. "51-100"
	Rating   int    `form:"rating"` // minimum rating
	Sort     string `form:"sort"`   // newest, lowest, highest, rating
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Slug        string   `json:"slug"`
	Category    string   `json:"category" binding:"required"`
	Brand       string   `json:"brand"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Stock       int      `json:"stock"`
	Price       string   `json:"price" binding:"required"`
	IsFeatured  bool     `json:"is_featured"`
	Banner      string   `json:"banner"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Name        *string  `json:"name"`
	Slug        *string  `json:"slug"`
	Category    *string  `json:"category"`
	Brand       *string  `json:"brand"`
	Description *string  `json:"description"`
	Images      []string `json:"images"`
	Stock       *int     `json:"stock"`
	Price       *string  `json:"price"`
	IsFeatured  *bool    `json:"is_featured"`
	Banner      *string  `json:"banner"`
}

// ProductListResponse represents product list with pagination
type ProductListResponse struct {
	Products   []Product  `json:"products"`
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

// GetLatest retrieves the newest products for the storefront home page
func (s *Service) GetLatest(limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 4
	}

	var products []Product
	if err := s.db.Order("created_at DESC").Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve latest products: %w", err)
	}

	return products, nil
}

// GetFeatured retrieves featured products that carry a banner image
func (s *Service) GetFeatured(limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 4
	}

	var products []Product
	if err := s.db.
		Where("is_featured = ? AND banner <> ''", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve featured products: %w", err)
	}

	return products, nil
}

// GetBySlug retrieves a single product by slug
func (s *Service) GetBySlug(slug string) (*Product, error) {
	var product Product
	result := s.db.Where("slug = ?", slug).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	return &product, nil
}

// GetByID retrieves a single product by id
func (s *Service) GetByID(id uint) (*Product, error) {
	var product Product
	result := s.db.First(&product, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	return &product, nil
}

// GetCategories retrieves distinct categories with product counts
func (s *Service) GetCategories() ([]CategoryCount, error) {
	var categories []CategoryCount
	if err := s.db.Model(&Product{}).
		Select("category, COUNT(*) as count").
		Group("category").
		Order("category ASC").
		Scan(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}

	return categories, nil
}

// GetProducts retrieves products with filtering, sorting and pagination
func (s *Service) GetProducts(req *ProductListRequest) (*ProductListResponse, error) {
	var products []Product
	var total int64

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = s.config.App.PageSize
	}

	query := s.db.Model(&Product{})

	if req.Query != "" && req.Query != "all" {
		searchTerm := "%" + strings.ToLower(req.Query) + "%"
		query = query.Where("LOWER(name) LIKE ?", searchTerm)
	}

	if req.Category != "" && req.Category != "all" {
		query = query.Where("category = ?", req.Category)
	}

	if req.Price != "" && req.Price != "all" {
		if low, high, ok := ParsePriceRange(req.Price); ok {
			query = query.Where("price >= ? AND price <= ?", low, high)
		}
	}

	if req.Rating > 0 {
		query = query.Where("rating >= ?", req.Rating)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	query = query.Order(buildOrderClause(req.Sort))

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &ProductListResponse{
		Products: products,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// CreateProduct creates a new product
func (s *Service) CreateProduct(req *ProductCreateRequest) (*Product, error) {
	slug := req.Slug
	if slug == "" {
		slug = GenerateSlug(req.Name)
	}

	var existing Product
	if result := s.db.Where("slug = ?", slug).First(&existing); result.Error == nil {
		return nil, ErrSlugTaken
	}

	price, err := money.FromString(req.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price: %w", err)
	}

	product := Product{
		Name:        req.Name,
		Slug:        slug,
		Category:    req.Category,
		Brand:       req.Brand,
		Description: req.Description,
		Images:      req.Images,
		Stock:       req.Stock,
		Price:       price,
		IsFeatured:  req.IsFeatured,
		Banner:      req.Banner,
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &product, nil
}

// UpdateProduct updates an existing product
func (s *Service) UpdateProduct(id uint, req *ProductUpdateRequest) (*Product, error) {
	product, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil && *req.Slug != product.Slug {
		var existing Product
		if result := s.db.Where("slug = ? AND id <> ?", *req.Slug, id).First(&existing); result.Error == nil {
			return nil, ErrSlugTaken
		}
		updates["slug"] = *req.Slug
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.Price != nil {
		price, err := money.FromString(*req.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid price: %w", err)
		}
		updates["price"] = price
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.Banner != nil {
		updates["banner"] = *req.Banner
	}

	if len(updates) > 0 {
		if err := s.db.Model(product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	if req.Images != nil {
		if err := s.db.Model(product).Update("images", req.Images).Error; err != nil {
			return nil, fmt.Errorf("failed to update product images: %w", err)
		}
	}

	return s.GetByID(id)
}

// DeleteProduct removes a product from the catalog
func (s *Service) DeleteProduct(id uint) error {
	product, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug derives a URL slug from a product name
func GenerateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

var priceRangePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)-(\d+(?:\.\d+)?)$`)

// ParsePriceRange parses a "lo-hi" price filter such as "51-100"
func ParsePriceRange(value string) (low, high string, ok bool) {
	matches := priceRangePattern.FindStringSubmatch(value)
	if matches == nil {
		return "", "", false
	}
	return matches[1], matches[2], true
}

func buildOrderClause(sort string) string {
	switch sort {
	case "lowest":
		return "price ASC"
	case "highest":
		return "price DESC"
	case "rating":
		return "rating DESC"
	default: // newest
		return "created_at DESC"
	}
}
