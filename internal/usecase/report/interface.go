package report

import (
	"context"
	"io"
	"time"

	"grocery-delivery-service/internal/domain/catalog"
	domain "grocery-delivery-service/internal/domain/report"
)

// Repository defines the aggregate queries behind reports.
type Repository interface {
	Dashboard(ctx context.Context, lowStockThreshold int64) (*domain.Dashboard, error)
	Sales(ctx context.Context, from, to time.Time) (*domain.Sales, error)
}

// ProductRepository lists products running out of stock.
type ProductRepository interface {
	ListLowStock(ctx context.Context, threshold int64) ([]catalog.Product, error)
}

// AdminRepository lists the recipients of stock alerts.
type AdminRepository interface {
	ListEmails(ctx context.Context) ([]string, error)
}

// SalesRenderer writes a sales report document.
type SalesRenderer interface {
	RenderSales(w io.Writer, s *domain.Sales) error
}
