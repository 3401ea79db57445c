package payout

import (
	"context"

	"grocery-delivery-service/internal/domain/driver"
	"grocery-delivery-service/internal/domain/order"
	domain "grocery-delivery-service/internal/domain/payout"
)

// Repository defines the interface for earning and payment storage.
type Repository interface {
	CreatePayment(ctx context.Context, p *domain.Payment) (int64, error)
	ListEarnings(ctx context.Context, driverID, page, limit int64) ([]domain.Earning, int64, error)
	ListPayments(ctx context.Context, driverID, page, limit int64) ([]domain.Payment, int64, error)
	EarningsInWindow(ctx context.Context, driverID int64, w domain.Window) ([]domain.Earning, error)
	PaymentsInWindow(ctx context.Context, driverID int64, w domain.Window) ([]domain.Payment, error)
}

// DriverRepository reads drivers and books payouts on their running totals.
type DriverRepository interface {
	GetByID(ctx context.Context, id int64) (*driver.Driver, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*driver.Driver, error)
	AddPaid(ctx context.Context, id int64, amount float64) error
}

// OrderRepository lists a driver's completed deliveries.
type OrderRepository interface {
	ListDelivered(ctx context.Context, driverID int64, w domain.Window) ([]order.Order, error)
}

// Recorder receives payout metrics.
type Recorder interface {
	DriverPaid(amount float64)
}
