package admin

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "grocery-delivery-service/internal/domain/admin"
	"grocery-delivery-service/internal/domain/common"
	"grocery-delivery-service/internal/usecase/shared"
	pkgerrors "grocery-delivery-service/pkg/errors"
	"grocery-delivery-service/pkg/security"
)

// Usecase implements back-office account management.
type Usecase struct {
	repo     Repository
	hasher   shared.PasswordHasher
	log      *zap.Logger
	validate *validator.Validate
}

func New(r Repository, hasher shared.PasswordHasher, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, hasher: hasher, log: log, validate: shared.NewValidator()}
}

// Seed makes sure the configured superadmin exists. It is a no-op when the
// email is empty or already registered.
func (uc *Usecase) Seed(ctx context.Context, in SeedRequest) error {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		uc.log.Info("no bootstrap admin configured")
		return nil
	}

	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	if err := security.CheckPasswordStrength(in.Password); err != nil {
		return pkgerrors.NewValidationError("ADMIN_PASSWORD", err.Error())
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return pkgerrors.NewInternalError("failed to hash password", err)
	}

	name := in.Name
	if name == "" {
		name = "Administrator"
	}
	id, err := uc.repo.Create(ctx, &domain.Admin{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleSuperAdmin,
	})
	if err != nil {
		return err
	}

	uc.log.Info("seeded superadmin", zap.Int64("id", id), zap.String("email", email))
	return nil
}

// CreateAdmin registers a new admin account.
func (uc *Usecase) CreateAdmin(ctx context.Context, in CreateAdminRequest) (*domain.Admin, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Role == "" {
		in.Role = domain.RoleAdmin
	}

	if err := uc.validate.Struct(in); err != nil {
		return nil, shared.FormatValidationError(err)
	}
	if err := security.CheckPasswordStrength(in.Password); err != nil {
		return nil, pkgerrors.NewValidationError("password", err.Error())
	}

	existing, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if existing != nil {
		return nil, pkgerrors.NewAlreadyExistsError("admin", "email already exists")
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to hash password", err)
	}

	a := &domain.Admin{Name: in.Name, Email: in.Email, PasswordHash: hash, Role: in.Role}
	id, err := uc.repo.Create(ctx, a)
	if err != nil {
		return nil, err
	}
	a.ID = id

	uc.log.Info("admin created", zap.Int64("id", id), zap.String("role", a.Role))
	return a, nil
}

// GetAdmin retrieves an admin by ID.
func (uc *Usecase) GetAdmin(ctx context.Context, id int64) (*domain.Admin, error) {
	return uc.repo.GetByID(ctx, id)
}

// ListAdmins returns a page of admins.
func (uc *Usecase) ListAdmins(ctx context.Context, page, limit int64) (*ListAdminsResponse, error) {
	page, limit = common.NormalizePage(page, limit)

	admins, total, err := uc.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return &ListAdminsResponse{Admins: admins, Pagination: common.NewPagination(total, page, limit)}, nil
}

// DeleteAdmin removes an admin. An admin cannot delete their own account.
func (uc *Usecase) DeleteAdmin(ctx context.Context, actor shared.Actor, id int64) error {
	if actor.ID == id {
		return pkgerrors.NewConflictError("cannot delete your own account")
	}
	if _, err := uc.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.log.Info("admin deleted", zap.Int64("id", id), zap.Int64("by", actor.ID))
	return nil
}
