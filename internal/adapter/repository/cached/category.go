package cached

import (
	"context"

	"go.uber.org/zap"

	"grocery-delivery-service/internal/adapter/cache"
	domain "grocery-delivery-service/internal/domain/catalog"
	"grocery-delivery-service/internal/usecase/catalog"
	"grocery-delivery-service/internal/usecase/shared"
)

// CachedCategoryRepository implements catalog.CategoryRepository.
// Categories are read straight from the database; writes drop the cached
// products that embed the category.
type CachedCategoryRepository struct {
	catalog.CategoryRepository
	cache cache.ProductCache
	log   *zap.Logger
}

// NewCachedCategoryRepository wraps dbRepo. A nil cache disables invalidation.
func NewCachedCategoryRepository(dbRepo catalog.CategoryRepository, c cache.ProductCache, log *zap.Logger) *CachedCategoryRepository {
	return &CachedCategoryRepository{CategoryRepository: dbRepo, cache: c, log: log}
}

// Update updates the category and invalidates its cached products.
func (r *CachedCategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	if err := r.CategoryRepository.Update(ctx, c); err != nil {
		return err
	}
	r.invalidate(ctx, c.ID)
	return nil
}

// UpdateImage updates the category image and invalidates its cached products.
func (r *CachedCategoryRepository) UpdateImage(ctx context.Context, id int64, url string) error {
	if err := r.CategoryRepository.UpdateImage(ctx, id, url); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// Delete deletes the category and drops its index.
func (r *CachedCategoryRepository) Delete(ctx context.Context, id int64) error {
	if err := r.CategoryRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedCategoryRepository) invalidate(ctx context.Context, id int64) {
	if r.cache == nil {
		return
	}
	shared.AfterCommit(ctx, func(ctx context.Context) {
		if err := r.cache.DeleteByCategory(ctx, id); err != nil {
			r.log.Warn("failed to invalidate category products", zap.Int64("category_id", id), zap.Error(err))
		}
	})
}
