package user

import (
	"context"

	domain "grocery-delivery-service/internal/domain/user"
)

// Repository defines the interface for user data access operations.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	SetBlocked(ctx context.Context, id int64, blocked bool) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f domain.Filter) ([]domain.User, int64, error)
}

// UserUsecase defines the interface for user account operations.
type UserUsecase interface {
	GetProfile(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, in UpdateProfileRequest) (*domain.User, error)
	ChangePassword(ctx context.Context, in ChangePasswordRequest) error
	ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error)
	SetBlocked(ctx context.Context, id int64, blocked bool) error
	DeleteUser(ctx context.Context, id int64) error
}
