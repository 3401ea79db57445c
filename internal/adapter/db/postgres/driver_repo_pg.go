package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"grocery-delivery-service/internal/domain/common"
	"grocery-delivery-service/internal/domain/driver"
)

// DriverRepoPG implements driver persistence using PostgreSQL and GORM.
type DriverRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewDriverRepoPG creates a new instance of DriverRepoPG.
func NewDriverRepoPG(db *gorm.DB, log *zap.Logger) *DriverRepoPG {
	return &DriverRepoPG{db: db, log: log}
}

func toDriver(m *DriverSchema) *driver.Driver {
	return &driver.Driver{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		Phone:           m.Phone,
		PasswordHash:    m.PasswordHash,
		VehicleNumber:   m.VehicleNumber,
		LicenseNumber:   m.LicenseNumber,
		TelegramChatID:  m.TelegramChatID,
		Active:          m.Active,
		OnDuty:          m.OnDuty,
		TotalEarnings:   m.TotalEarnings,
		TotalPaid:       m.TotalPaid,
		TotalDeliveries: m.TotalDeliveries,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// Create inserts a new driver. New drivers start active and off duty.
func (r *DriverRepoPG) Create(ctx context.Context, d *driver.Driver) (int64, error) {
	model := DriverSchema{
		Name:           d.Name,
		Email:          strings.ToLower(d.Email),
		Phone:          d.Phone,
		PasswordHash:   d.PasswordHash,
		VehicleNumber:  d.VehicleNumber,
		LicenseNumber:  d.LicenseNumber,
		TelegramChatID: d.TelegramChatID,
		Active:         true,
	}
	if err := conn(ctx, r.db).Create(&model).Error; err != nil {
		r.log.Error("failed to create driver in db", zap.Error(err), zap.String("email", d.Email))
		return 0, translate(err, "driver")
	}
	r.log.Info("driver created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// Update saves the profile fields of a driver.
func (r *DriverRepoPG) Update(ctx context.Context, d *driver.Driver) error {
	return r.updates(ctx, d.ID, map[string]any{
		"name":             d.Name,
		"phone":            d.Phone,
		"vehicle_number":   d.VehicleNumber,
		"license_number":   d.LicenseNumber,
		"telegram_chat_id": d.TelegramChatID,
	})
}

// SetActive activates or deactivates a driver. Deactivation also takes the driver off duty.
func (r *DriverRepoPG) SetActive(ctx context.Context, id int64, active bool) error {
	fields := map[string]any{"active": active}
	if !active {
		fields["on_duty"] = false
	}
	return r.updates(ctx, id, fields)
}

// SetDuty puts a driver on or off duty.
func (r *DriverRepoPG) SetDuty(ctx context.Context, id int64, onDuty bool) error {
	return r.updates(ctx, id, map[string]any{"on_duty": onDuty})
}

// RecordDelivery adds one delivery and its earning to the running totals.
func (r *DriverRepoPG) RecordDelivery(ctx context.Context, id int64, earning float64) error {
	return r.updates(ctx, id, map[string]any{
		"total_deliveries": gorm.Expr("total_deliveries + 1"),
		"total_earnings":   gorm.Expr("ROUND(CAST(total_earnings + ? AS NUMERIC), 2)", earning),
	})
}

// AddPaid adds amount to the driver's paid total.
func (r *DriverRepoPG) AddPaid(ctx context.Context, id int64, amount float64) error {
	return r.updates(ctx, id, map[string]any{
		"total_paid": gorm.Expr("ROUND(CAST(total_paid + ? AS NUMERIC), 2)", amount),
	})
}

func (r *DriverRepoPG) updates(ctx context.Context, id int64, fields map[string]any) error {
	res := conn(ctx, r.db).Model(&DriverSchema{ID: id}).Updates(fields)
	if res.Error != nil {
		r.log.Error("failed to update driver in db", zap.Error(res.Error), zap.Int64("id", id))
		return translate(res.Error, "driver")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "driver")
	}
	return nil
}

// Delete removes a driver by ID.
func (r *DriverRepoPG) Delete(ctx context.Context, id int64) error {
	res := conn(ctx, r.db).Delete(&DriverSchema{}, id)
	if res.Error != nil {
		r.log.Error("failed to delete driver", zap.Error(res.Error), zap.Int64("id", id))
		return translate(res.Error, "driver")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "driver")
	}
	r.log.Info("driver deleted in db", zap.Int64("id", id))
	return nil
}

// GetByID retrieves a driver by ID.
func (r *DriverRepoPG) GetByID(ctx context.Context, id int64) (*driver.Driver, error) {
	var model DriverSchema
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, translate(err, "driver")
	}
	return toDriver(&model), nil
}

// GetByIDForUpdate retrieves a driver and locks the row until the surrounding transaction ends.
func (r *DriverRepoPG) GetByIDForUpdate(ctx context.Context, id int64) (*driver.Driver, error) {
	var model DriverSchema
	if err := forUpdate(conn(ctx, r.db)).First(&model, id).Error; err != nil {
		return nil, translate(err, "driver")
	}
	return toDriver(&model), nil
}

// GetByEmail retrieves a driver by email. It returns nil, nil when none matches.
func (r *DriverRepoPG) GetByEmail(ctx context.Context, email string) (*driver.Driver, error) {
	var model DriverSchema
	err := conn(ctx, r.db).Where("email = ?", strings.ToLower(email)).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("failed to get driver by email", zap.Error(err))
		return nil, fmt.Errorf("failed to get driver by email: %w", err)
	}
	return toDriver(&model), nil
}

// List retrieves drivers with filters and token search over name, email, phone and vehicle number.
func (r *DriverRepoPG) List(ctx context.Context, f driver.Filter) ([]driver.Driver, int64, error) {
	page, limit := common.NormalizePage(f.Page, f.Limit)

	q, err := applySearch(conn(ctx, r.db).Model(&DriverSchema{}), f.Query, "name", "email", "phone", "vehicle_number")
	if err != nil {
		return nil, 0, err
	}
	if f.Active != nil {
		q = q.Where("active = ?", *f.Active)
	}
	if f.OnDuty != nil {
		q = q.Where("on_duty = ?", *f.OnDuty)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count drivers: %w", err)
	}

	var models []DriverSchema
	if err := q.Order("id DESC").Offset(common.Offset(page, limit)).Limit(int(limit)).Find(&models).Error; err != nil {
		r.log.Error("failed to list drivers", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list drivers: %w", err)
	}

	drivers := make([]driver.Driver, len(models))
	for i := range models {
		drivers[i] = *toDriver(&models[i])
	}
	return drivers, total, nil
}
