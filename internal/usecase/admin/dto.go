package admin

import (
	domain "grocery-delivery-service/internal/domain/admin"
	"grocery-delivery-service/internal/domain/common"
)

// CreateAdminRequest represents the request payload for creating an admin.
type CreateAdminRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=admin superadmin"`
}

// SeedRequest describes the bootstrap superadmin.
type SeedRequest struct {
	Name     string
	Email    string
	Password string
}

// ListAdminsResponse represents the response payload for admin listing.
type ListAdminsResponse struct {
	Admins     []domain.Admin
	Pagination *common.Pagination
}
