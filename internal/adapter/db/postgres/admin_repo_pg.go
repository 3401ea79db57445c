package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"grocery-delivery-service/internal/domain/admin"
	"grocery-delivery-service/internal/domain/common"
)

// AdminRepoPG implements admin persistence using PostgreSQL and GORM.
type AdminRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewAdminRepoPG creates a new instance of AdminRepoPG.
func NewAdminRepoPG(db *gorm.DB, log *zap.Logger) *AdminRepoPG {
	return &AdminRepoPG{db: db, log: log}
}

func toAdmin(m *AdminSchema) *admin.Admin {
	return &admin.Admin{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// Create inserts a new admin.
func (r *AdminRepoPG) Create(ctx context.Context, a *admin.Admin) (int64, error) {
	model := AdminSchema{
		Name:         a.Name,
		Email:        strings.ToLower(a.Email),
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
	}
	if err := conn(ctx, r.db).Create(&model).Error; err != nil {
		r.log.Error("failed to create admin in db", zap.Error(err), zap.String("email", a.Email))
		return 0, translate(err, "admin")
	}
	r.log.Info("admin created in db", zap.Int64("id", model.ID), zap.String("role", model.Role))
	return model.ID, nil
}

// GetByID retrieves an admin by ID.
func (r *AdminRepoPG) GetByID(ctx context.Context, id int64) (*admin.Admin, error) {
	var model AdminSchema
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, translate(err, "admin")
	}
	return toAdmin(&model), nil
}

// GetByEmail retrieves an admin by email. It returns nil, nil when none matches.
func (r *AdminRepoPG) GetByEmail(ctx context.Context, email string) (*admin.Admin, error) {
	var model AdminSchema
	err := conn(ctx, r.db).Where("email = ?", strings.ToLower(email)).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("failed to get admin by email", zap.Error(err))
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}
	return toAdmin(&model), nil
}

// List returns admins page by page, oldest first.
func (r *AdminRepoPG) List(ctx context.Context, page, limit int64) ([]admin.Admin, int64, error) {
	page, limit = common.NormalizePage(page, limit)

	var total int64
	if err := conn(ctx, r.db).Model(&AdminSchema{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count admins: %w", err)
	}

	var models []AdminSchema
	if err := conn(ctx, r.db).Order("id ASC").Offset(common.Offset(page, limit)).Limit(int(limit)).Find(&models).Error; err != nil {
		r.log.Error("failed to list admins", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list admins: %w", err)
	}

	admins := make([]admin.Admin, len(models))
	for i := range models {
		admins[i] = *toAdmin(&models[i])
	}
	return admins, total, nil
}

// ListEmails returns the email address of every admin.
func (r *AdminRepoPG) ListEmails(ctx context.Context) ([]string, error) {
	var emails []string
	if err := conn(ctx, r.db).Model(&AdminSchema{}).Order("id ASC").Pluck("email", &emails).Error; err != nil {
		return nil, fmt.Errorf("failed to list admin emails: %w", err)
	}
	return emails, nil
}

// Delete removes an admin by ID.
func (r *AdminRepoPG) Delete(ctx context.Context, id int64) error {
	res := conn(ctx, r.db).Delete(&AdminSchema{}, id)
	if res.Error != nil {
		r.log.Error("failed to delete admin", zap.Error(res.Error), zap.Int64("id", id))
		return translate(res.Error, "admin")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "admin")
	}
	r.log.Info("admin deleted in db", zap.Int64("id", id))
	return nil
}
