package payout

import (
	"context"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"grocery-delivery-service/internal/domain/common"
	domain "grocery-delivery-service/internal/domain/payout"
	"grocery-delivery-service/internal/usecase/shared"
	pkgerrors "grocery-delivery-service/pkg/errors"
)

// Usecase implements driver earnings, payments and settlement summaries.
type Usecase struct {
	repo     Repository
	drivers  DriverRepository
	orders   OrderRepository
	tx       shared.Transactor
	metrics  Recorder
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new payout usecase. metrics may be nil.
func New(repo Repository, drivers DriverRepository, orders OrderRepository, tx shared.Transactor, metrics Recorder, log *zap.Logger) *Usecase {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &Usecase{
		repo:     repo,
		drivers:  drivers,
		orders:   orders,
		tx:       tx,
		metrics:  metrics,
		log:      log,
		validate: shared.NewValidator(),
	}
}

// PayDriver pays part or all of a driver's pending balance.
// The driver row stays locked from the balance check until the payment is
// booked, so concurrent payouts cannot overdraw the balance.
func (uc *Usecase) PayDriver(ctx context.Context, actor shared.Actor, in PayDriverRequest) (*PayDriverResponse, error) {
	uc.log.Info("paying driver",
		zap.Int64("driver_id", in.DriverID),
		zap.Float64("amount", in.Amount),
		zap.Int64("admin_id", actor.ID))

	if in.Method == "" {
		in.Method = domain.MethodCash
	}
	if err := uc.validate.Struct(in); err != nil {
		return nil, shared.FormatValidationError(err)
	}
	if math.IsInf(in.Amount, 0) || common.Round2(in.Amount) <= 0 {
		return nil, pkgerrors.NewValidationError("amount", "must be a positive amount")
	}
	amount := common.Round2(in.Amount)

	var resp *PayDriverResponse
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		d, err := uc.drivers.GetByIDForUpdate(ctx, in.DriverID)
		if err != nil {
			return err
		}

		balance := d.PendingBalance()
		if amount > balance {
			return fmt.Errorf("%w: pending balance is %.2f", pkgerrors.ErrInsufficientBalance, balance)
		}

		p := &domain.Payment{
			DriverID:  d.ID,
			AdminID:   actor.ID,
			Amount:    amount,
			Method:    in.Method,
			Reference: in.Reference,
			Note:      in.Note,
		}
		if _, err := uc.repo.CreatePayment(ctx, p); err != nil {
			return err
		}
		if err := uc.drivers.AddPaid(ctx, d.ID, amount); err != nil {
			return err
		}

		d.TotalPaid = common.Round2(d.TotalPaid + amount)
		resp = &PayDriverResponse{Payment: p, Driver: d}
		return nil
	})
	if err != nil {
		uc.log.Warn("driver payout rejected", zap.Int64("driver_id", in.DriverID), zap.Error(err))
		return nil, err
	}

	uc.metrics.DriverPaid(amount)
	uc.log.Info("driver paid",
		zap.Int64("driver_id", in.DriverID),
		zap.Int64("payment_id", resp.Payment.ID),
		zap.Float64("pending_balance", resp.Driver.PendingBalance()))
	return resp, nil
}

// ListEarnings returns a page of the driver's earnings.
func (uc *Usecase) ListEarnings(ctx context.Context, driverID, page, limit int64) (*ListEarningsResponse, error) {
	if _, err := uc.drivers.GetByID(ctx, driverID); err != nil {
		return nil, err
	}
	page, limit = common.NormalizePage(page, limit)

	earnings, total, err := uc.repo.ListEarnings(ctx, driverID, page, limit)
	if err != nil {
		return nil, err
	}
	return &ListEarningsResponse{Earnings: earnings, Pagination: common.NewPagination(total, page, limit)}, nil
}

// ListPayments returns a page of the driver's payments.
func (uc *Usecase) ListPayments(ctx context.Context, driverID, page, limit int64) (*ListPaymentsResponse, error) {
	if _, err := uc.drivers.GetByID(ctx, driverID); err != nil {
		return nil, err
	}
	page, limit = common.NormalizePage(page, limit)

	payments, total, err := uc.repo.ListPayments(ctx, driverID, page, limit)
	if err != nil {
		return nil, err
	}
	return &ListPaymentsResponse{Payments: payments, Pagination: common.NewPagination(total, page, limit)}, nil
}

// CashSummary computes the driver's settlement position for the window.
func (uc *Usecase) CashSummary(ctx context.Context, in CashSummaryRequest) (*domain.CashSummary, error) {
	if in.From != nil && in.To != nil && in.To.Before(*in.From) {
		return nil, pkgerrors.NewValidationError("to", "must not be before from")
	}
	if _, err := uc.drivers.GetByID(ctx, in.DriverID); err != nil {
		return nil, err
	}

	w := domain.Window{From: in.From, To: in.To}
	orders, err := uc.orders.ListDelivered(ctx, in.DriverID, w)
	if err != nil {
		return nil, err
	}
	earnings, err := uc.repo.EarningsInWindow(ctx, in.DriverID, w)
	if err != nil {
		return nil, err
	}
	payments, err := uc.repo.PaymentsInWindow(ctx, in.DriverID, w)
	if err != nil {
		return nil, err
	}

	s := domain.CalculateCashSummary(in.DriverID, orders, earnings, payments, w)
	return &s, nil
}

type noopRecorder struct{}

func (noopRecorder) DriverPaid(float64) {}
