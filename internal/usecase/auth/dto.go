package auth

import "time"

// RegisterRequest represents the request payload for creating a customer account.
type RegisterRequest struct {
	Name        string     `json:"name" validate:"required,min=2,max=100"`
	Email       string     `json:"email" validate:"required,email,max=255"`
	Phone       string     `json:"phone" validate:"required,min=6,max=32"`
	Password    string     `json:"password" validate:"required,min=8,max=72"`
	Address     string     `json:"address" validate:"max=500"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

// LoginRequest represents the request payload for signing in.
// Role selects which kind of account the credentials belong to.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin driver"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// Session is an issued login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Profile   *Profile
}

// Profile describes the signed-in account.
type Profile struct {
	ID    int64
	Role  string
	Name  string
	Email string
	Phone string

	// user only
	Address     string
	DateOfBirth *time.Time

	// driver only
	VehicleNumber  string
	Active         bool
	OnDuty         bool
	PendingBalance float64
}
