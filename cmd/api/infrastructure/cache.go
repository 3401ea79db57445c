package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"grocery-delivery-service/internal/config"
	redisclient "grocery-delivery-service/pkg/redis"
)

// NewRedisClient connects the client shared by the product cache, OTP store and rate limiter.
func NewRedisClient(cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	rdb, err := redisclient.NewClient(redisclient.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}

// RedisProbe adapts the client to a health probe.
func RedisProbe(rdb *redisclient.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if !rdb.Healthy(ctx) {
			return errors.New("redis ping failed")
		}
		return nil
	}
}
