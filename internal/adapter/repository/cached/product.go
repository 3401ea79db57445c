package cached

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"grocery-delivery-service/internal/adapter/cache"
	domain "grocery-delivery-service/internal/domain/catalog"
	"grocery-delivery-service/internal/usecase/catalog"
	"grocery-delivery-service/internal/usecase/shared"
)

// CachedProductRepository implements catalog.ProductRepository with caching support.
// It wraps a persistent repository (DB) and a cache implementation.
type CachedProductRepository struct {
	dbRepo catalog.ProductRepository
	cache  cache.ProductCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCachedProductRepository creates a new instance of CachedProductRepository.
// A nil cache disables caching.
func NewCachedProductRepository(dbRepo catalog.ProductRepository, c cache.ProductCache, log *zap.Logger) *CachedProductRepository {
	return &CachedProductRepository{
		dbRepo: dbRepo,
		cache:  c,
		log:    log,
	}
}

// Create delegates to the DB repository.
func (r *CachedProductRepository) Create(ctx context.Context, p *domain.Product) (int64, error) {
	return r.dbRepo.Create(ctx, p)
}

// GetByID retrieves a product by ID using the cache-aside pattern.
// Reads inside a transaction may see uncommitted rows, so they skip the cache.
func (r *CachedProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if shared.InTransaction(ctx) {
		return r.dbRepo.GetByID(ctx, id)
	}
	if r.cache != nil {
		p, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.Int64("id", id), zap.Error(err))
		} else if p != nil {
			return p, nil
		}
	}

	// Cache miss or cache disabled: only one caller per id reaches the database
	key := fmt.Sprintf("product:%d", id)
	result, err, _ := r.group.Do(key, func() (any, error) {
		if r.cache != nil {
			if p, err := r.cache.Get(ctx, id); err == nil && p != nil {
				return p, nil
			}
		}

		p, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if r.cache != nil {
			if err := r.cache.Set(ctx, p); err != nil {
				r.log.Warn("failed to cache product", zap.Int64("id", id), zap.Error(err))
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	// Callers may mutate the product, so each gets its own copy
	p := *result.(*domain.Product)
	if p.Category != nil {
		c := *p.Category
		p.Category = &c
	}
	return &p, nil
}

// GetByIDForUpdate always reads the locked row from the database.
func (r *CachedProductRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	return r.dbRepo.GetByIDForUpdate(ctx, id)
}

// Update updates the product in DB and invalidates the cache.
func (r *CachedProductRepository) Update(ctx context.Context, p *domain.Product) error {
	if err := r.dbRepo.Update(ctx, p); err != nil {
		return err
	}
	r.invalidate(ctx, p.ID)
	return nil
}

// UpdatePrice updates the price in DB and invalidates the cache.
func (r *CachedProductRepository) UpdatePrice(ctx context.Context, id int64, price float64) error {
	if err := r.dbRepo.UpdatePrice(ctx, id, price); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// UpdateStock updates the stock in DB and invalidates the cache.
func (r *CachedProductRepository) UpdateStock(ctx context.Context, id int64, stock int64) error {
	if err := r.dbRepo.UpdateStock(ctx, id, stock); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// UpdateImage updates the image in DB and invalidates the cache.
func (r *CachedProductRepository) UpdateImage(ctx context.Context, id int64, url string) error {
	if err := r.dbRepo.UpdateImage(ctx, id, url); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// Delete deletes the product from DB and invalidates the cache.
func (r *CachedProductRepository) Delete(ctx context.Context, id int64) error {
	if err := r.dbRepo.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// List delegates to the DB repository.
func (r *CachedProductRepository) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	return r.dbRepo.List(ctx, f)
}

// ListLowStock delegates to the DB repository.
func (r *CachedProductRepository) ListLowStock(ctx context.Context, threshold int64) ([]domain.Product, error) {
	return r.dbRepo.ListLowStock(ctx, threshold)
}

// invalidate drops the cached entry once the write is visible to other readers,
// so a read racing an open transaction cannot repopulate the old row.
func (r *CachedProductRepository) invalidate(ctx context.Context, id int64) {
	if r.cache == nil {
		return
	}
	shared.AfterCommit(ctx, func(ctx context.Context) {
		if err := r.cache.Delete(ctx, id); err != nil {
			r.log.Warn("failed to invalidate product cache", zap.Int64("id", id), zap.Error(err))
		}
	})
}
