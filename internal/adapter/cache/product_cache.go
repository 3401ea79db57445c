package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"grocery-delivery-service/internal/domain/catalog"
)

// ProductCache defines the interface for product caching operations.
type ProductCache interface {
	// Get retrieves a product from cache by ID.
	// Returns nil if the product is not found in cache.
	Get(ctx context.Context, id int64) (*catalog.Product, error)

	// Set stores a product in cache with the configured TTL.
	Set(ctx context.Context, p *catalog.Product) error

	// Delete removes products from cache by ID.
	Delete(ctx context.Context, ids ...int64) error

	// DeleteByCategory removes every cached product that embeds the category.
	DeleteByCategory(ctx context.Context, categoryID int64) error
}

// RedisProductCache implements ProductCache using Redis as the backing store.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisProductCache creates a new Redis-backed product cache.
func NewRedisProductCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisProductCache {
	return &RedisProductCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

// categoryIndexKey names the set of cached product IDs in a category.
func categoryIndexKey(categoryID int64) string {
	return fmt.Sprintf("product:category:%d", categoryID)
}

// Get retrieves a product from Redis cache.
func (c *RedisProductCache) Get(ctx context.Context, id int64) (*catalog.Product, error) {
	data, err := c.client.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug("cache miss", zap.Int64("product_id", id))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.Int64("product_id", id), zap.Error(err))
		return nil, err
	}

	var p catalog.Product
	if err := json.Unmarshal(data, &p); err != nil {
		c.log.Error("failed to unmarshal cached product", zap.Int64("product_id", id), zap.Error(err))
		return nil, err
	}

	c.log.Debug("cache hit", zap.Int64("product_id", id))
	return &p, nil
}

// Set stores a product in Redis cache with TTL.
func (c *RedisProductCache) Set(ctx context.Context, p *catalog.Product) error {
	if p == nil {
		return errors.New("cannot cache nil product")
	}

	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, productKey(p.ID), data, c.ttl)
		if p.CategoryID != 0 {
			idx := categoryIndexKey(p.CategoryID)
			pipe.SAdd(ctx, idx, p.ID)
			pipe.Expire(ctx, idx, c.ttl)
		}
		return nil
	})
	if err != nil {
		c.log.Error("failed to set cache", zap.Int64("product_id", p.ID), zap.Error(err))
		return err
	}
	return nil
}

// Delete removes products from Redis cache.
func (c *RedisProductCache) Delete(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Error("failed to delete from cache", zap.Int("count", len(ids)), zap.Error(err))
		return err
	}
	return nil
}

// DeleteByCategory removes the cached products indexed under a category.
func (c *RedisProductCache) DeleteByCategory(ctx context.Context, categoryID int64) error {
	idx := categoryIndexKey(categoryID)
	members, err := c.client.SMembers(ctx, idx).Result()
	if err != nil {
		c.log.Error("failed to read category index", zap.Int64("category_id", categoryID), zap.Error(err))
		return err
	}

	keys := make([]string, 0, len(members)+1)
	for _, m := range members {
		keys = append(keys, "product:"+m)
	}
	keys = append(keys, idx)

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Error("failed to delete category from cache", zap.Int64("category_id", categoryID), zap.Error(err))
		return err
	}
	return nil
}
