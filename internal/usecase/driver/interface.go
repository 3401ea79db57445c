package driver

import (
	"context"

	domain "grocery-delivery-service/internal/domain/driver"
)

// Repository defines the interface for driver data access operations.
type Repository interface {
	Create(ctx context.Context, d *domain.Driver) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Driver, error)
	GetByEmail(ctx context.Context, email string) (*domain.Driver, error)
	Update(ctx context.Context, d *domain.Driver) error
	SetActive(ctx context.Context, id int64, active bool) error
	SetDuty(ctx context.Context, id int64, onDuty bool) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f domain.Filter) ([]domain.Driver, int64, error)
}
