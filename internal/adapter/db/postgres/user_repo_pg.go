package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"grocery-delivery-service/internal/domain/common"
	"grocery-delivery-service/internal/domain/user"
)

// UserRepoPG implements user persistence using PostgreSQL and GORM.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

func toUserSchema(u *user.User) UserSchema {
	return UserSchema{
		ID:           u.ID,
		Name:         u.Name,
		Email:        strings.ToLower(u.Email),
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Address:      u.Address,
		DateOfBirth:  u.DateOfBirth,
		Blocked:      u.Blocked,
	}
}

func toUser(m *UserSchema) *user.User {
	return &user.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Phone:        m.Phone,
		PasswordHash: m.PasswordHash,
		Address:      m.Address,
		DateOfBirth:  m.DateOfBirth,
		Blocked:      m.Blocked,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// Create inserts a new user into the database.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}

	model := toUserSchema(u)
	if err := conn(ctx, r.db).Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return 0, translate(err, "user")
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// Update saves the profile fields of an existing user.
func (r *UserRepoPG) Update(ctx context.Context, u *user.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	res := conn(ctx, r.db).Model(&UserSchema{ID: u.ID}).Updates(map[string]any{
		"name":          u.Name,
		"phone":         u.Phone,
		"address":       u.Address,
		"date_of_birth": u.DateOfBirth,
	})
	if res.Error != nil {
		r.log.Error("failed to update user in db", zap.Error(res.Error), zap.Int64("id", u.ID))
		return translate(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "user")
	}
	return nil
}

// UpdatePassword replaces the password hash of a user.
func (r *UserRepoPG) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return r.updateColumn(ctx, id, "password_hash", hash)
}

// SetBlocked blocks or unblocks a user.
func (r *UserRepoPG) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	return r.updateColumn(ctx, id, "blocked", blocked)
}

func (r *UserRepoPG) updateColumn(ctx context.Context, id int64, column string, value any) error {
	res := conn(ctx, r.db).Model(&UserSchema{ID: id}).Update(column, value)
	if res.Error != nil {
		r.log.Error("failed to update user column", zap.String("column", column), zap.Int64("id", id), zap.Error(res.Error))
		return translate(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "user")
	}
	return nil
}

// Delete removes a user from the database by ID.
func (r *UserRepoPG) Delete(ctx context.Context, id int64) error {
	res := conn(ctx, r.db).Delete(&UserSchema{}, id)
	if res.Error != nil {
		r.log.Error("failed to delete user in db", zap.Error(res.Error), zap.Int64("id", id))
		return translate(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "user")
	}

	r.log.Info("user deleted in db", zap.Int64("id", id))
	return nil
}

// GetByID retrieves a user from the database by their unique ID.
func (r *UserRepoPG) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		}
		return nil, translate(err, "user")
	}
	return toUser(&model), nil
}

// GetByEmail retrieves a user by email. It returns nil, nil when no user matches.
func (r *UserRepoPG) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserSchema
	err := conn(ctx, r.db).Where("email = ?", strings.ToLower(email)).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.log.Debug("user not found by email", zap.String("email", email))
		return nil, nil
	}
	if err != nil {
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return toUser(&model), nil
}

// List retrieves users with pagination and token search over name, email and phone.
func (r *UserRepoPG) List(ctx context.Context, f user.Filter) ([]user.User, int64, error) {
	page, limit := common.NormalizePage(f.Page, f.Limit)

	q, err := applySearch(conn(ctx, r.db).Model(&UserSchema{}), f.Query, "name", "email", "phone")
	if err != nil {
		r.log.Warn("invalid search query", zap.String("query", f.Query), zap.Error(err))
		return nil, 0, err
	}
	if f.Blocked != nil {
		q = q.Where("blocked = ?", *f.Blocked)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		r.log.Error("failed to count users", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var models []UserSchema
	if err := q.Order("id DESC").Offset(common.Offset(page, limit)).Limit(int(limit)).Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err), zap.String("query", f.Query), zap.Int64("page", page), zap.Int64("limit", limit))
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, len(models))
	for i := range models {
		users[i] = *toUser(&models[i])
	}
	return users, total, nil
}
