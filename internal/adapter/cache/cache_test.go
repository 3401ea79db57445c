package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"grocery-delivery-service/internal/domain/catalog"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

func TestRedisProductCache(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisProductCache(client, 5*time.Minute, zaptest.NewLogger(t))
	ctx := context.Background()

	got, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got, "miss returns nil without error")

	p := &catalog.Product{ID: 1, Name: "Milk", Price: 2.5, Stock: 3}
	require.NoError(t, cache.Set(ctx, p))
	assert.True(t, mr.Exists("product:1"))

	got, err = cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Milk", got.Name)
	assert.Equal(t, 2.5, got.Price)

	mr.FastForward(6 * time.Minute)
	got, err = cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got, "entry expires after ttl")

	require.NoError(t, cache.Set(ctx, p))
	require.NoError(t, cache.Delete(ctx, 1, 2))
	assert.False(t, mr.Exists("product:1"))

	assert.Error(t, cache.Set(ctx, nil))
}

func TestRedisProductCache_DeleteByCategory(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisProductCache(client, 5*time.Minute, zaptest.NewLogger(t))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &catalog.Product{ID: 1, CategoryID: 7, Name: "Lager"}))
	require.NoError(t, cache.Set(ctx, &catalog.Product{ID: 2, CategoryID: 7, Name: "Stout"}))
	require.NoError(t, cache.Set(ctx, &catalog.Product{ID: 3, CategoryID: 8, Name: "Milk"}))
	assert.True(t, mr.Exists("product:category:7"))

	require.NoError(t, cache.DeleteByCategory(ctx, 7))
	assert.False(t, mr.Exists("product:1"))
	assert.False(t, mr.Exists("product:2"))
	assert.False(t, mr.Exists("product:category:7"))
	assert.True(t, mr.Exists("product:3"))

	assert.NoError(t, cache.DeleteByCategory(ctx, 99), "empty category is a no-op")
}

func TestRedisProductCache_RedisDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisProductCache(client, time.Minute, zaptest.NewLogger(t))
	mr.Close()

	_, err := cache.Get(context.Background(), 1)
	assert.Error(t, err)
}

func TestRedisOTPStore(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisOTPStore(client, 3, zaptest.NewLogger(t))
	ctx := context.Background()

	t.Run("valid code is consumed", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "A@Example.com", "123456", 10*time.Minute))
		require.NoError(t, store.Verify(ctx, "a@example.com", "123456"))
		assert.ErrorIs(t, store.Verify(ctx, "a@example.com", "123456"), ErrOTPInvalid)
	})

	t.Run("wrong code then right code", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "b@example.com", "111111", 10*time.Minute))
		assert.ErrorIs(t, store.Verify(ctx, "b@example.com", "000000"), ErrOTPInvalid)
		assert.NoError(t, store.Verify(ctx, "b@example.com", "111111"))
	})

	t.Run("attempt limit", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "c@example.com", "222222", 10*time.Minute))
		for i := 0; i < 3; i++ {
			assert.ErrorIs(t, store.Verify(ctx, "c@example.com", "999999"), ErrOTPInvalid)
		}
		assert.ErrorIs(t, store.Verify(ctx, "c@example.com", "222222"), ErrOTPTooManyAttempts)
		assert.False(t, mr.Exists("otp:reset:c@example.com"))
	})

	t.Run("expired", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "d@example.com", "333333", time.Minute))
		mr.FastForward(2 * time.Minute)
		assert.ErrorIs(t, store.Verify(ctx, "d@example.com", "333333"), ErrOTPInvalid)
		assert.False(t, mr.Exists("otp:reset:d@example.com"))
	})

	t.Run("new code resets attempts", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "e@example.com", "444444", time.Minute))
		assert.Error(t, store.Verify(ctx, "e@example.com", "x"))
		require.NoError(t, store.Save(ctx, "e@example.com", "555555", time.Minute))
		assert.Equal(t, "0", mr.HGet("otp:reset:e@example.com", "attempts"))
	})
}
