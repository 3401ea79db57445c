package admin

import (
	"context"

	domain "grocery-delivery-service/internal/domain/admin"
)

// Repository defines the interface for admin data access operations.
type Repository interface {
	Create(ctx context.Context, a *domain.Admin) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	List(ctx context.Context, page, limit int64) ([]domain.Admin, int64, error)
	Delete(ctx context.Context, id int64) error
}
