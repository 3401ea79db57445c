package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"grocery-delivery-service/internal/domain/common"
	"grocery-delivery-service/internal/domain/payout"
)

// PayoutRepoPG implements driver earning and payment persistence.
type PayoutRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewPayoutRepoPG creates a new instance of PayoutRepoPG.
func NewPayoutRepoPG(db *gorm.DB, log *zap.Logger) *PayoutRepoPG {
	return &PayoutRepoPG{db: db, log: log}
}

func toEarning(m *DriverEarningSchema) payout.Earning {
	e := payout.Earning{
		ID:        m.ID,
		DriverID:  m.DriverID,
		OrderID:   m.OrderID,
		Amount:    m.Amount,
		CreatedAt: m.CreatedAt,
	}
	if m.Order != nil {
		e.OrderNumber = m.Order.Number
	}
	return e
}

func toPayment(m *DriverPaymentSchema) payout.Payment {
	return payout.Payment{
		ID:        m.ID,
		DriverID:  m.DriverID,
		AdminID:   m.AdminID,
		Amount:    m.Amount,
		Method:    m.Method,
		Reference: m.Reference,
		Note:      m.Note,
		CreatedAt: m.CreatedAt,
	}
}

// CreateEarning records a driver earning. An order can be earned only once.
func (r *PayoutRepoPG) CreateEarning(ctx context.Context, e *payout.Earning) (int64, error) {
	model := DriverEarningSchema{DriverID: e.DriverID, OrderID: e.OrderID, Amount: e.Amount}
	if err := conn(ctx, r.db).Omit("Order").Create(&model).Error; err != nil {
		r.log.Error("failed to create driver earning", zap.Error(err), zap.Int64("order_id", e.OrderID))
		return 0, translate(err, "earning")
	}
	return model.ID, nil
}

// CreatePayment records a payment made to a driver.
func (r *PayoutRepoPG) CreatePayment(ctx context.Context, p *payout.Payment) (int64, error) {
	model := DriverPaymentSchema{
		DriverID:  p.DriverID,
		AdminID:   p.AdminID,
		Amount:    p.Amount,
		Method:    p.Method,
		Reference: p.Reference,
		Note:      p.Note,
	}
	if err := conn(ctx, r.db).Create(&model).Error; err != nil {
		r.log.Error("failed to create driver payment", zap.Error(err), zap.Int64("driver_id", p.DriverID))
		return 0, translate(err, "payment")
	}
	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	return model.ID, nil
}

// ListEarnings returns a driver's earnings, newest first.
func (r *PayoutRepoPG) ListEarnings(ctx context.Context, driverID, page, limit int64) ([]payout.Earning, int64, error) {
	page, limit = common.NormalizePage(page, limit)
	q := conn(ctx, r.db).Model(&DriverEarningSchema{}).Where("driver_id = ?", driverID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count earnings: %w", err)
	}

	var models []DriverEarningSchema
	if err := q.Preload("Order").Order("created_at DESC, id DESC").Offset(common.Offset(page, limit)).Limit(int(limit)).Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list earnings: %w", err)
	}

	earnings := make([]payout.Earning, len(models))
	for i := range models {
		earnings[i] = toEarning(&models[i])
	}
	return earnings, total, nil
}

// ListPayments returns a driver's payments, newest first.
func (r *PayoutRepoPG) ListPayments(ctx context.Context, driverID, page, limit int64) ([]payout.Payment, int64, error) {
	page, limit = common.NormalizePage(page, limit)
	q := conn(ctx, r.db).Model(&DriverPaymentSchema{}).Where("driver_id = ?", driverID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	var models []DriverPaymentSchema
	if err := q.Order("created_at DESC, id DESC").Offset(common.Offset(page, limit)).Limit(int(limit)).Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}

	payments := make([]payout.Payment, len(models))
	for i := range models {
		payments[i] = toPayment(&models[i])
	}
	return payments, total, nil
}

// EarningsInWindow returns every earning of a driver inside w.
func (r *PayoutRepoPG) EarningsInWindow(ctx context.Context, driverID int64, w payout.Window) ([]payout.Earning, error) {
	var models []DriverEarningSchema
	if err := windowed(conn(ctx, r.db).Where("driver_id = ?", driverID), w).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load earnings: %w", err)
	}
	earnings := make([]payout.Earning, len(models))
	for i := range models {
		earnings[i] = toEarning(&models[i])
	}
	return earnings, nil
}

// PaymentsInWindow returns every payment to a driver inside w.
func (r *PayoutRepoPG) PaymentsInWindow(ctx context.Context, driverID int64, w payout.Window) ([]payout.Payment, error) {
	var models []DriverPaymentSchema
	if err := windowed(conn(ctx, r.db).Where("driver_id = ?", driverID), w).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	payments := make([]payout.Payment, len(models))
	for i := range models {
		payments[i] = toPayment(&models[i])
	}
	return payments, nil
}

func windowed(q *gorm.DB, w payout.Window) *gorm.DB {
	if w.From != nil {
		q = q.Where("created_at >= ?", *w.From)
	}
	if w.To != nil {
		q = q.Where("created_at <= ?", *w.To)
	}
	return q
}
