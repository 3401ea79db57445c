package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"grocery-delivery-service/internal/domain/banner"
)

// BannerRepoPG implements banner persistence using PostgreSQL and GORM.
type BannerRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewBannerRepoPG creates a new instance of BannerRepoPG.
func NewBannerRepoPG(db *gorm.DB, log *zap.Logger) *BannerRepoPG {
	return &BannerRepoPG{db: db, log: log}
}

func toBanner(m *BannerSchema) *banner.Banner {
	return &banner.Banner{
		ID:        m.ID,
		Title:     m.Title,
		ImageURL:  m.ImageURL,
		LinkURL:   m.LinkURL,
		Position:  m.Position,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Create inserts a new banner.
func (r *BannerRepoPG) Create(ctx context.Context, b *banner.Banner) (int64, error) {
	model := BannerSchema{Title: b.Title, ImageURL: b.ImageURL, LinkURL: b.LinkURL, Position: b.Position, Active: b.Active}
	if err := conn(ctx, r.db).Create(&model).Error; err != nil {
		r.log.Error("failed to create banner", zap.Error(err))
		return 0, translate(err, "banner")
	}
	return model.ID, nil
}

// Update saves the editable fields of a banner.
func (r *BannerRepoPG) Update(ctx context.Context, b *banner.Banner) error {
	return r.updates(ctx, b.ID, map[string]any{
		"title":    b.Title,
		"link_url": b.LinkURL,
		"position": b.Position,
		"active":   b.Active,
	})
}

// UpdateImage stores the image URL of a banner.
func (r *BannerRepoPG) UpdateImage(ctx context.Context, id int64, url string) error {
	return r.updates(ctx, id, map[string]any{"image_url": url})
}

func (r *BannerRepoPG) updates(ctx context.Context, id int64, fields map[string]any) error {
	res := conn(ctx, r.db).Model(&BannerSchema{ID: id}).Updates(fields)
	if res.Error != nil {
		return translate(res.Error, "banner")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "banner")
	}
	return nil
}

// Delete removes a banner by ID.
func (r *BannerRepoPG) Delete(ctx context.Context, id int64) error {
	res := conn(ctx, r.db).Delete(&BannerSchema{}, id)
	if res.Error != nil {
		return translate(res.Error, "banner")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "banner")
	}
	return nil
}

// GetByID retrieves a banner by ID.
func (r *BannerRepoPG) GetByID(ctx context.Context, id int64) (*banner.Banner, error) {
	var model BannerSchema
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, translate(err, "banner")
	}
	return toBanner(&model), nil
}

// List returns banners by position.
func (r *BannerRepoPG) List(ctx context.Context, activeOnly bool) ([]banner.Banner, error) {
	q := conn(ctx, r.db).Order("position ASC, id ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}

	var models []BannerSchema
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}

	banners := make([]banner.Banner, len(models))
	for i := range models {
		banners[i] = *toBanner(&models[i])
	}
	return banners, nil
}
