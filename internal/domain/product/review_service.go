// internal/domain/product/review_service.go
package product

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Sentinel errors for review operations
var (
	ErrReviewNotFound = errors.New("review not found")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
)

// ReviewService handles review business logic
type ReviewService struct {
	db *gorm.DB
}

// NewReviewService creates a new review service
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{
		db: db,
	}
}

// ReviewRequest represents review create/update data
type ReviewRequest struct {
	ProductID   uint   `json:"product_id" binding:"required"`
	Rating      int    `json:"rating" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// UpsertReview creates a review or replaces the user's existing review
// for the product, then recomputes the product's rating aggregates
func (s *ReviewService) UpsertReview(userID uint, req *ReviewRequest) (*Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	var product Product
	if err := s.db.First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	isVerified := s.hasPurchased(userID, req.ProductID)

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var review Review
	result := tx.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&review)
	if result.Error == nil {
		updates := map[string]interface{}{
			"rating":               req.Rating,
			"title":                strings.TrimSpace(req.Title),
			"description":          strings.TrimSpace(req.Description),
			"is_verified_purchase": isVerified,
		}
		if err := tx.Model(&review).Updates(updates).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to update review: %w", err)
		}
	} else if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		review = Review{
			UserID:             userID,
			ProductID:          req.ProductID,
			Rating:             req.Rating,
			Title:              strings.TrimSpace(req.Title),
			Description:        strings.TrimSpace(req.Description),
			IsVerifiedPurchase: isVerified,
		}
		if err := tx.Create(&review).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to create review: %w", err)
		}
	} else {
		tx.Rollback()
		return nil, fmt.Errorf("failed to look up review: %w", result.Error)
	}

	if err := s.recomputeAggregates(tx, req.ProductID); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit review: %w", err)
	}

	return s.getReview(review.ID)
}

// GetProductReviews retrieves all reviews for a product, newest first
func (s *ReviewService) GetProductReviews(productID uint) ([]Review, error) {
	var reviews []Review
	if err := s.db.
		Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}

	for i := range reviews {
		if reviews[i].User != nil {
			reviews[i].User.Password = ""
		}
	}

	return reviews, nil
}

// GetUserReview retrieves the current user's review for a product
func (s *ReviewService) GetUserReview(userID, productID uint) (*Review, error) {
	var review Review
	result := s.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&review)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to retrieve review: %w", result.Error)
	}

	return &review, nil
}

// DeleteReview removes a user's review and recomputes aggregates
func (s *ReviewService) DeleteReview(userID, productID uint) error {
	var review Review
	result := s.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&review)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to retrieve review: %w", result.Error)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Unscoped().Delete(&review).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if err := s.recomputeAggregates(tx, productID); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (s *ReviewService) getReview(reviewID uint) (*Review, error) {
	var review Review
	if err := s.db.Preload("User").First(&review, reviewID).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve review: %w", err)
	}
	if review.User != nil {
		review.User.Password = ""
	}
	return &review, nil
}

// recomputeAggregates refreshes the product's rating and review count
// from all of its reviews. Runs inside the caller's transaction
func (s *ReviewService) recomputeAggregates(tx *gorm.DB, productID uint) error {
	var stats struct {
		AvgRating  float64
		NumReviews int64
	}

	if err := tx.Model(&Review{}).
		Select("COALESCE(AVG(rating), 0) as avg_rating, COUNT(*) as num_reviews").
		Where("product_id = ?", productID).
		Scan(&stats).Error; err != nil {
		return fmt.Errorf("failed to compute rating aggregates: %w", err)
	}

	if err := tx.Model(&Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"rating":      stats.AvgRating,
		"num_reviews": stats.NumReviews,
	}).Error; err != nil {
		return fmt.Errorf("failed to update rating aggregates: %w", err)
	}

	return nil
}

func (s *ReviewService) hasPurchased(userID, productID uint) bool {
	var purchased bool
	s.db.Raw(`
		SELECT EXISTS(
			SELECT 1 FROM orders o
			JOIN order_items oi ON o.id = oi.order_id
			WHERE o.user_id = ? AND oi.product_id = ? AND o.is_paid = true
		)
	`, userID, productID).Scan(&purchased)
	return purchased
}
