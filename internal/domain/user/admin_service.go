// internal/domain/user/admin_service.go
package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
)

// AdminService handles admin user management operations
type AdminService struct {
	db     *gorm.DB
	config *config.Config
}

// NewAdminService creates a new admin user service
func NewAdminService(db *gorm.DB, cfg *config.Config) *AdminService {
	return &AdminService{
		db:     db,
		config: cfg,
	}
}

// UserListRequest represents user list query parameters
type UserListRequest struct {
	Page  int    `form:"page,default=1"`
	Limit int    `form:"limit"`
	Query string `form:"query"`
	Role  string `form:"role"` // admin, user, all
}

// UserListResponse represents user list with pagination
type UserListResponse struct {
	Users      []User     `json:"users"`
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

// NewPagination calculates pagination info from a total count
func NewPagination(page, limit int, total int64) Pagination {
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

// UserUpdateRequest represents admin user update data
type UserUpdateRequest struct {
	Name    string `json:"name" binding:"required"`
	IsAdmin *bool  `json:"is_admin"`
}

// GetUsers retrieves users with filtering and pagination
func (s *AdminService) GetUsers(req *UserListRequest) (*UserListResponse, error) {
	var users []User
	var total int64

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = s.config.App.PageSize
	}

	query := s.db.Model(&User{})

	if req.Query != "" {
		searchTerm := "%" + strings.ToLower(req.Query) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", searchTerm, searchTerm)
	}

	if req.Role != "" && req.Role != "all" {
		switch req.Role {
		case "admin":
			query = query.Where("is_admin = ?", true)
		case "user":
			query = query.Where("is_admin = ?", false)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.Limit).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}

	for i := range users {
		users[i].Password = ""
	}

	return &UserListResponse{
		Users:      users,
		Pagination: NewPagination(req.Page, req.Limit, total),
	}, nil
}

// UpdateUser updates a user's name and admin flag
func (s *AdminService) UpdateUser(userID uint, req *UserUpdateRequest, adminID uint) (*User, error) {
	var target User
	if err := s.db.First(&target, userID).Error; err != nil {
		return nil, ErrNotFound
	}

	updates := map[string]interface{}{
		"name":       req.Name,
		"updated_at": time.Now(),
	}

	if req.IsAdmin != nil {
		// Admins cannot strip their own privileges
		if userID == adminID && !*req.IsAdmin {
			return nil, fmt.Errorf("cannot remove your own admin privileges")
		}
		updates["is_admin"] = *req.IsAdmin
	}

	if err := s.db.Model(&target).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := s.db.First(&target, userID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	target.Password = ""

	return &target, nil
}

// DeleteUser removes a user account
func (s *AdminService) DeleteUser(userID uint, adminID uint) error {
	if userID == adminID {
		return fmt.Errorf("cannot delete your own account")
	}

	var target User
	if err := s.db.First(&target, userID).Error; err != nil {
		return ErrNotFound
	}

	if err := s.db.Delete(&target).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
