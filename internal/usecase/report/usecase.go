package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	domain "grocery-delivery-service/internal/domain/report"
	"grocery-delivery-service/internal/usecase/shared"
	pkgerrors "grocery-delivery-service/pkg/errors"
)

const (
	defaultSalesWindow = 30 * 24 * time.Hour
	maxSalesWindow     = 366 * 24 * time.Hour
)

// SalesReportRequest selects the reporting window. Missing bounds default to
// the last 30 days.
type SalesReportRequest struct {
	From *time.Time
	To   *time.Time
}

// Usecase implements dashboards, sales reports and stock alerts.
type Usecase struct {
	repo              Repository
	products          ProductRepository
	admins            AdminRepository
	renderer          SalesRenderer
	mailer            shared.Mailer
	lowStockThreshold int64
	log               *zap.Logger
	now               func() time.Time
}

// New creates a new report usecase.
func New(
	repo Repository,
	products ProductRepository,
	admins AdminRepository,
	renderer SalesRenderer,
	mailer shared.Mailer,
	lowStockThreshold int64,
	log *zap.Logger,
) *Usecase {
	return &Usecase{
		repo:              repo,
		products:          products,
		admins:            admins,
		renderer:          renderer,
		mailer:            mailer,
		lowStockThreshold: lowStockThreshold,
		log:               log,
		now:               time.Now,
	}
}

// Dashboard returns the admin overview counters.
func (uc *Usecase) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	d, err := uc.repo.Dashboard(ctx, uc.lowStockThreshold)
	if err != nil {
		uc.log.Error("failed to build dashboard", zap.Error(err))
		return nil, err
	}
	return d, nil
}

// SalesReport aggregates orders placed in the requested window.
func (uc *Usecase) SalesReport(ctx context.Context, in SalesReportRequest) (*domain.Sales, error) {
	from, to, err := uc.window(in)
	if err != nil {
		return nil, err
	}

	s, err := uc.repo.Sales(ctx, from, to)
	if err != nil {
		uc.log.Error("failed to build sales report", zap.Time("from", from), zap.Time("to", to), zap.Error(err))
		return nil, err
	}
	return s, nil
}

// SalesReportPDF renders the sales report for the window into w.
func (uc *Usecase) SalesReportPDF(ctx context.Context, in SalesReportRequest, w io.Writer) error {
	s, err := uc.SalesReport(ctx, in)
	if err != nil {
		return err
	}
	if err := uc.renderer.RenderSales(w, s); err != nil {
		return pkgerrors.NewInternalError("failed to render report", err)
	}
	return nil
}

func (uc *Usecase) window(in SalesReportRequest) (time.Time, time.Time, error) {
	to := uc.now().UTC()
	if in.To != nil {
		to = in.To.UTC()
	}
	from := to.Add(-defaultSalesWindow)
	if in.From != nil {
		from = in.From.UTC()
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, pkgerrors.NewValidationError("to", "must not be before from")
	}
	if to.Sub(from) > maxSalesWindow {
		return time.Time{}, time.Time{}, pkgerrors.NewValidationError("from", "report window cannot exceed 366 days")
	}
	return from, to, nil
}

// LowStock lists active products at or below the alert threshold.
func (uc *Usecase) LowStock(ctx context.Context) ([]domain.LowStockItem, error) {
	products, err := uc.products.ListLowStock(ctx, uc.lowStockThreshold)
	if err != nil {
		return nil, err
	}

	items := make([]domain.LowStockItem, len(products))
	for i, p := range products {
		items[i] = domain.LowStockItem{ProductID: p.ID, Name: p.Name, Stock: p.Stock}
	}
	return items, nil
}

// SendLowStockAlert emails the low stock list to every admin. It returns the
// number of products reported; nothing is sent when stock is healthy.
func (uc *Usecase) SendLowStockAlert(ctx context.Context) (int, error) {
	items, err := uc.LowStock(ctx)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		uc.log.Debug("no low stock products")
		return 0, nil
	}

	recipients, err := uc.admins.ListEmails(ctx)
	if err != nil {
		return 0, err
	}
	if len(recipients) == 0 {
		uc.log.Warn("low stock alert has no recipients", zap.Int("products", len(items)))
		return len(items), nil
	}

	var body strings.Builder
	fmt.Fprintf(&body, "%d products are at or below %d units:\n\n", len(items), uc.lowStockThreshold)
	for _, it := range items {
		fmt.Fprintf(&body, "  #%d %s: %d left\n", it.ProductID, it.Name, it.Stock)
	}

	subject := fmt.Sprintf("Low stock alert: %d products", len(items))
	if err := uc.mailer.Send(ctx, recipients, subject, body.String()); err != nil {
		uc.log.Error("failed to send low stock alert", zap.Error(err))
		return 0, pkgerrors.NewInternalError("failed to send low stock alert", err)
	}

	uc.log.Info("low stock alert sent", zap.Int("products", len(items)), zap.Int("recipients", len(recipients)))
	return len(items), nil
}
