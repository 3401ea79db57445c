package user

import (
	"time"

	"grocery-delivery-service/internal/domain/common"
	domain "grocery-delivery-service/internal/domain/user"
)

// UpdateProfileRequest represents the request payload for updating a profile.
// Empty fields are left unchanged.
type UpdateProfileRequest struct {
	ID          int64      `json:"-" validate:"required"`
	Name        string     `json:"name" validate:"omitempty,min=2,max=100"`
	Phone       string     `json:"phone" validate:"omitempty,min=6,max=32"`
	Address     *string    `json:"address" validate:"omitempty,max=500"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

// ChangePasswordRequest represents the request payload for changing a password.
type ChangePasswordRequest struct {
	ID              int64  `json:"-" validate:"required"`
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// ListUsersRequest represents the request payload for listing users.
// It supports pagination, search and a blocked filter.
type ListUsersRequest struct {
	Query   string
	Blocked *bool
	Page    int64
	Limit   int64
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users      []domain.User
	Pagination *common.Pagination
}
