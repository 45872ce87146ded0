package dto

import (
	"time"

	"github.com/Saewt/university-visitor-system/internal/app/models"
	"github.com/Saewt/university-visitor-system/internal/app/repositories"
)

// CreateUserRequest represents new user data
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=teacher admin"`
}

// UpdateUserRequest represents a partial user update
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" binding:"omitempty,min=3,max=50"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=6"`
	Role     *string `json:"role,omitempty" binding:"omitempty,oneof=teacher admin"`
}

// UserWithStatsResponse is a user with their registration count
type UserWithStatsResponse struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	StudentCount int64     `json:"student_count"`
}

// CreateDepartmentRequest represents new department data
type CreateDepartmentRequest struct {
	Name           string  `json:"name" binding:"required,min=2,max=100"`
	TelegramChatID *string `json:"telegram_chat_id,omitempty"`
	Active         *bool   `json:"active,omitempty"`
}

// UpdateDepartmentRequest represents a partial department update
type UpdateDepartmentRequest struct {
	Name           *string `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	TelegramChatID *string `json:"telegram_chat_id,omitempty"`
	Active         *bool   `json:"active,omitempty"`
}

// DepartmentWithCountResponse is a department with its registration count
type DepartmentWithCountResponse struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	TelegramChatID *string `json:"telegram_chat_id"`
	Active         bool    `json:"active"`
	StudentCount   int64   `json:"student_count"`
}

// DepartmentOptionResponse is the minimal department shape for pickers
type DepartmentOptionResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewUserWithStatsResponse maps a user and its student count
func NewUserWithStatsResponse(user *models.User, studentCount int64) UserWithStatsResponse {
	return UserWithStatsResponse{
		ID:           user.ID,
		Username:     user.Username,
		Role:         string(user.Role),
		CreatedAt:    user.CreatedAt,
		StudentCount: studentCount,
	}
}

// NewDepartmentWithCountResponse maps a department and its student count
func NewDepartmentWithCountResponse(department *models.Department, studentCount int64) DepartmentWithCountResponse {
	return DepartmentWithCountResponse{
		ID:             department.ID,
		Name:           department.Name,
		TelegramChatID: department.TelegramChatID,
		Active:         department.Active,
		StudentCount:   studentCount,
	}
}

// NewUserListResponse maps users with counts
func NewUserListResponse(users []repositories.UserWithCount) []UserWithStatsResponse {
	result := make([]UserWithStatsResponse, 0, len(users))
	for _, u := range users {
		result = append(result, NewUserWithStatsResponse(&u.User, u.StudentCount))
	}
	return result
}

// NewDepartmentListResponse maps departments with counts
func NewDepartmentListResponse(departments []repositories.DepartmentWithCount) []DepartmentWithCountResponse {
	result := make([]DepartmentWithCountResponse, 0, len(departments))
	for _, d := range departments {
		result = append(result, NewDepartmentWithCountResponse(&d.Department, d.StudentCount))
	}
	return result
}
