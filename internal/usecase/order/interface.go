package order

import (
	"context"

	"grocery-delivery-service/internal/domain/catalog"
	"grocery-delivery-service/internal/domain/driver"
	domain "grocery-delivery-service/internal/domain/order"
	"grocery-delivery-service/internal/domain/payout"
	"grocery-delivery-service/internal/domain/user"
)

// Repository defines the interface for order data access operations.
type Repository interface {
	Create(ctx context.Context, o *domain.Order) (int64, error)
	Update(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, f domain.Filter) ([]domain.Order, int64, error)
}

// ProductRepository is the stock access needed by checkout and cancellation.
type ProductRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*catalog.Product, error)
	UpdateStock(ctx context.Context, id int64, stock int64) error
}

// UserRepository loads the ordering customer.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// DriverRepository loads drivers and books completed deliveries.
type DriverRepository interface {
	GetByID(ctx context.Context, id int64) (*driver.Driver, error)
	RecordDelivery(ctx context.Context, id int64, earning float64) error
}

// EarningRepository stores per-order driver earnings.
type EarningRepository interface {
	CreateEarning(ctx context.Context, e *payout.Earning) (int64, error)
}

// Notifier tells a driver about a new assignment.
type Notifier interface {
	OrderAssigned(ctx context.Context, d *driver.Driver, o *domain.Order) error
}

// Recorder receives order lifecycle metrics.
type Recorder interface {
	OrderPlaced()
	OrderTransitioned(status string)
}
