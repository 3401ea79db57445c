package auth

import (
	"context"
	"time"

	"grocery-delivery-service/internal/domain/admin"
	"grocery-delivery-service/internal/domain/driver"
	"grocery-delivery-service/internal/domain/user"
)

// UserRepository is the user storage needed by authentication.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

// AdminRepository is the admin storage needed by authentication.
type AdminRepository interface {
	GetByID(ctx context.Context, id int64) (*admin.Admin, error)
	GetByEmail(ctx context.Context, email string) (*admin.Admin, error)
}

// DriverRepository is the driver storage needed by authentication.
type DriverRepository interface {
	GetByID(ctx context.Context, id int64) (*driver.Driver, error)
	GetByEmail(ctx context.Context, email string) (*driver.Driver, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(accountID int64, role string) (string, time.Time, error)
}

// OTPStore keeps password reset codes.
type OTPStore interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	Verify(ctx context.Context, email, code string) error
}
