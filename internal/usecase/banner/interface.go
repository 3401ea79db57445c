package banner

import (
	"context"

	domain "grocery-delivery-service/internal/domain/banner"
)

// Repository defines the interface for banner persistence.
type Repository interface {
	Create(ctx context.Context, b *domain.Banner) (int64, error)
	Update(ctx context.Context, b *domain.Banner) error
	UpdateImage(ctx context.Context, id int64, url string) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Banner, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Banner, error)
}
