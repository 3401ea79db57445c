package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"grocery-delivery-service/internal/domain/common"
	domain "grocery-delivery-service/internal/domain/user"
	"grocery-delivery-service/internal/usecase/shared"
	pkgerrors "grocery-delivery-service/pkg/errors"
	"grocery-delivery-service/pkg/security"
)

// Usecase implements the business logic for customer accounts.
type Usecase struct {
	repo     Repository
	hasher   shared.PasswordHasher
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new instance of Usecase.
func New(r Repository, hasher shared.PasswordHasher, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, hasher: hasher, log: log, validate: shared.NewValidator()}
}

// GetProfile retrieves a user by ID.
func (uc *Usecase) GetProfile(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, pkgerrors.NewValidationError("id", "must be positive")
	}
	return uc.repo.GetByID(ctx, id)
}

// UpdateProfile changes the editable profile fields of a user.
func (uc *Usecase) UpdateProfile(ctx context.Context, in UpdateProfileRequest) (*domain.User, error) {
	uc.log.Info("updating profile", zap.Int64("id", in.ID))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, shared.FormatValidationError(err)
	}
	if in.DateOfBirth != nil && in.DateOfBirth.After(time.Now()) {
		return nil, pkgerrors.NewValidationError("date_of_birth", "cannot be in the future")
	}

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Phone != "" {
		u.Phone = in.Phone
	}
	if in.Address != nil {
		u.Address = *in.Address
	}
	if in.DateOfBirth != nil {
		u.DateOfBirth = in.DateOfBirth
	}

	if err := uc.repo.Update(ctx, u); err != nil {
		uc.log.Error("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, err
	}
	return u, nil
}

// ChangePassword replaces the password after checking the current one.
func (uc *Usecase) ChangePassword(ctx context.Context, in ChangePasswordRequest) error {
	if err := uc.validate.Struct(in); err != nil {
		return shared.FormatValidationError(err)
	}
	if err := security.CheckPasswordStrength(in.NewPassword); err != nil {
		return pkgerrors.NewValidationError("new_password", err.Error())
	}

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return err
	}
	if !uc.hasher.Compare(u.PasswordHash, in.CurrentPassword) {
		return pkgerrors.NewValidationError("current_password", "is incorrect")
	}

	hash, err := uc.hasher.Hash(in.NewPassword)
	if err != nil {
		return pkgerrors.NewInternalError("failed to hash password", err)
	}
	if err := uc.repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}

	uc.log.Info("password changed", zap.Int64("id", u.ID))
	return nil
}

// ListUsers returns a page of users matching the search query.
func (uc *Usecase) ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error) {
	page, limit := common.NormalizePage(in.Page, in.Limit)

	users, total, err := uc.repo.List(ctx, domain.Filter{
		Query:   in.Query,
		Blocked: in.Blocked,
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		uc.log.Error("failed to list users", zap.String("query", in.Query), zap.Error(err))
		return nil, err
	}

	return &ListUsersResponse{
		Users:      users,
		Pagination: common.NewPagination(total, page, limit),
	}, nil
}

// SetBlocked blocks or unblocks a user.
func (uc *Usecase) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	if err := uc.repo.SetBlocked(ctx, id, blocked); err != nil {
		return err
	}
	uc.log.Info("user block state changed", zap.Int64("id", id), zap.Bool("blocked", blocked))
	return nil
}

// DeleteUser removes a user. Users with orders cannot be deleted.
func (uc *Usecase) DeleteUser(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.log.Warn("failed to delete user", zap.Int64("id", id), zap.Error(err))
		return err
	}
	uc.log.Info("user deleted", zap.Int64("id", id))
	return nil
}
