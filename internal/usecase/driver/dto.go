package driver

import (
	"grocery-delivery-service/internal/domain/common"
	domain "grocery-delivery-service/internal/domain/driver"
)

// CreateDriverRequest represents the request payload for onboarding a driver.
type CreateDriverRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=100"`
	Email          string `json:"email" validate:"required,email,max=255"`
	Phone          string `json:"phone" validate:"required,min=6,max=32"`
	Password       string `json:"password" validate:"required,min=8,max=72"`
	VehicleNumber  string `json:"vehicle_number" validate:"required,max=32"`
	LicenseNumber  string `json:"license_number" validate:"required,max=64"`
	TelegramChatID *int64 `json:"telegram_chat_id"`
}

// UpdateDriverRequest represents the request payload for editing a driver.
// Nil fields are left unchanged.
type UpdateDriverRequest struct {
	ID             int64   `json:"-" validate:"required"`
	Name           *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone          *string `json:"phone" validate:"omitempty,min=6,max=32"`
	VehicleNumber  *string `json:"vehicle_number" validate:"omitempty,max=32"`
	LicenseNumber  *string `json:"license_number" validate:"omitempty,max=64"`
	TelegramChatID *int64  `json:"telegram_chat_id"`
}

// ListDriversRequest represents the request payload for listing drivers.
type ListDriversRequest struct {
	Query  string
	Active *bool
	OnDuty *bool
	Page   int64
	Limit  int64
}

// ListDriversResponse represents the response payload for driver listing.
type ListDriversResponse struct {
	Drivers    []domain.Driver
	Pagination *common.Pagination
}
