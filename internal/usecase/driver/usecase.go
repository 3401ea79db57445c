package driver

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"grocery-delivery-service/internal/domain/common"
	domain "grocery-delivery-service/internal/domain/driver"
	"grocery-delivery-service/internal/usecase/shared"
	pkgerrors "grocery-delivery-service/pkg/errors"
	"grocery-delivery-service/pkg/security"
)

// Usecase implements driver management and duty toggling.
type Usecase struct {
	repo     Repository
	hasher   shared.PasswordHasher
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new driver usecase.
func New(r Repository, hasher shared.PasswordHasher, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, hasher: hasher, log: log, validate: shared.NewValidator()}
}

// CreateDriver onboards an active, off duty driver.
func (uc *Usecase) CreateDriver(ctx context.Context, in CreateDriverRequest) (*domain.Driver, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	uc.log.Info("creating driver", zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
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
		return nil, pkgerrors.NewAlreadyExistsError("driver", "email already exists")
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to hash password", err)
	}

	d := &domain.Driver{
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
		PasswordHash:   hash,
		VehicleNumber:  strings.ToUpper(strings.TrimSpace(in.VehicleNumber)),
		LicenseNumber:  in.LicenseNumber,
		TelegramChatID: in.TelegramChatID,
		Active:         true,
	}
	id, err := uc.repo.Create(ctx, d)
	if err != nil {
		uc.log.Error("failed to create driver", zap.Error(err))
		return nil, err
	}
	d.ID = id
	return d, nil
}

// GetDriver retrieves a driver by ID.
func (uc *Usecase) GetDriver(ctx context.Context, id int64) (*domain.Driver, error) {
	return uc.repo.GetByID(ctx, id)
}

// UpdateDriver edits a driver's descriptive fields.
func (uc *Usecase) UpdateDriver(ctx context.Context, in UpdateDriverRequest) (*domain.Driver, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, shared.FormatValidationError(err)
	}

	d, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		d.Name = *in.Name
	}
	if in.Phone != nil {
		d.Phone = *in.Phone
	}
	if in.VehicleNumber != nil {
		d.VehicleNumber = strings.ToUpper(strings.TrimSpace(*in.VehicleNumber))
	}
	if in.LicenseNumber != nil {
		d.LicenseNumber = *in.LicenseNumber
	}
	if in.TelegramChatID != nil {
		d.TelegramChatID = in.TelegramChatID
	}

	if err := uc.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// SetActive activates or deactivates a driver. Deactivation also takes the
// driver off duty.
func (uc *Usecase) SetActive(ctx context.Context, id int64, active bool) (*domain.Driver, error) {
	if err := uc.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	uc.log.Info("driver active state changed", zap.Int64("id", id), zap.Bool("active", active))
	return uc.repo.GetByID(ctx, id)
}

// SetDuty toggles the driver's availability for new orders.
func (uc *Usecase) SetDuty(ctx context.Context, id int64, onDuty bool) (*domain.Driver, error) {
	d, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if onDuty && !d.Active {
		return nil, pkgerrors.NewForbiddenError("inactive drivers cannot go on duty")
	}
	if d.OnDuty == onDuty {
		return d, nil
	}

	if err := uc.repo.SetDuty(ctx, id, onDuty); err != nil {
		return nil, err
	}
	d.OnDuty = onDuty

	uc.log.Info("driver duty changed", zap.Int64("id", id), zap.Bool("on_duty", onDuty))
	return d, nil
}

// DeleteDriver removes a driver. Drivers with orders or payouts cannot be deleted.
func (uc *Usecase) DeleteDriver(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info("driver deleted", zap.Int64("id", id))
	return nil
}

// ListDrivers returns a page of drivers.
func (uc *Usecase) ListDrivers(ctx context.Context, in ListDriversRequest) (*ListDriversResponse, error) {
	page, limit := common.NormalizePage(in.Page, in.Limit)

	drivers, total, err := uc.repo.List(ctx, domain.Filter{
		Query:  in.Query,
		Active: in.Active,
		OnDuty: in.OnDuty,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	return &ListDriversResponse{Drivers: drivers, Pagination: common.NewPagination(total, page, limit)}, nil
}
