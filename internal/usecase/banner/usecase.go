package banner

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "grocery-delivery-service/internal/domain/banner"
	"grocery-delivery-service/internal/usecase/shared"
	pkgerrors "grocery-delivery-service/pkg/errors"
)

// Usecase implements storefront banner management.
type Usecase struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new banner usecase.
func New(repo Repository, log *zap.Logger) *Usecase {
	return &Usecase{repo: repo, log: log, validate: shared.NewValidator()}
}

func (uc *Usecase) CreateBanner(ctx context.Context, in CreateBannerRequest) (*domain.Banner, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := uc.validate.Struct(in); err != nil {
		return nil, shared.FormatValidationError(err)
	}

	b := &domain.Banner{
		Title:    in.Title,
		LinkURL:  strings.TrimSpace(in.LinkURL),
		Position: in.Position,
		Active:   in.Active == nil || *in.Active,
	}
	id, err := uc.repo.Create(ctx, b)
	if err != nil {
		return nil, err
	}
	b.ID = id

	uc.log.Info("banner created", zap.Int64("id", id))
	return b, nil
}

func (uc *Usecase) UpdateBanner(ctx context.Context, in UpdateBannerRequest) (*domain.Banner, error) {
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		in.Title = &trimmed
	}
	if err := uc.validate.Struct(in); err != nil {
		return nil, shared.FormatValidationError(err)
	}

	b, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.LinkURL != nil {
		b.LinkURL = strings.TrimSpace(*in.LinkURL)
	}
	if in.Position != nil {
		b.Position = *in.Position
	}
	if in.Active != nil {
		b.Active = *in.Active
	}

	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBanner returns a banner. Inactive banners are hidden unless includeInactive is set.
func (uc *Usecase) GetBanner(ctx context.Context, id int64, includeInactive bool) (*domain.Banner, error) {
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.Active && !includeInactive {
		return nil, pkgerrors.NewNotFoundError("banner", "banner not found")
	}
	return b, nil
}

// ListBanners returns banners ordered by position.
func (uc *Usecase) ListBanners(ctx context.Context, activeOnly bool) ([]domain.Banner, error) {
	return uc.repo.List(ctx, activeOnly)
}

func (uc *Usecase) DeleteBanner(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info("banner deleted", zap.Int64("id", id))
	return nil
}

// SetBannerImage stores the uploaded image URL on a banner.
func (uc *Usecase) SetBannerImage(ctx context.Context, id int64, url string) (*domain.Banner, error) {
	if err := uc.repo.UpdateImage(ctx, id, url); err != nil {
		return nil, err
	}
	return uc.repo.GetByID(ctx, id)
}
