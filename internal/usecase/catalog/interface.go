package catalog

import (
	"context"

	domain "grocery-delivery-service/internal/domain/catalog"
)

// CategoryRepository defines the interface for category data access operations.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) (int64, error)
	Update(ctx context.Context, c *domain.Category) error
	UpdateImage(ctx context.Context, id int64, url string) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Category, error)
	CountProducts(ctx context.Context, id int64) (int64, error)
}

// ProductRepository defines the interface for product data access operations.
// GetByIDForUpdate must be called inside a transaction.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (int64, error)
	Update(ctx context.Context, p *domain.Product) error
	UpdatePrice(ctx context.Context, id int64, price float64) error
	UpdateStock(ctx context.Context, id int64, stock int64) error
	UpdateImage(ctx context.Context, id int64, url string) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error)
	ListLowStock(ctx context.Context, threshold int64) ([]domain.Product, error)
}
