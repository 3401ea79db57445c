package cache

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	pkgerrors "grocery-delivery-service/pkg/errors"
)

var (
	ErrOTPInvalid         = pkgerrors.NewValidationError("code", "invalid or expired code")
	ErrOTPTooManyAttempts = pkgerrors.NewValidationError("code", "too many attempts, request a new code")
)

// RedisOTPStore keeps one-time password reset codes in Redis.
// Only a hash of the code is stored.
type RedisOTPStore struct {
	client      *redis.Client
	maxAttempts int64
	log         *zap.Logger
}

// NewRedisOTPStore creates a new OTP store.
func NewRedisOTPStore(client *redis.Client, maxAttempts int64, log *zap.Logger) *RedisOTPStore {
	return &RedisOTPStore{client: client, maxAttempts: maxAttempts, log: log}
}

func otpKey(email string) string {
	return "otp:reset:" + strings.ToLower(email)
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// Save stores code for email, replacing any previous code and resetting attempts.
func (s *RedisOTPStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	key := otpKey(email)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		p.HSet(ctx, key, "hash", hashCode(code), "attempts", 0)
		p.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		s.log.Error("failed to save otp", zap.Error(err))
		return err
	}
	return nil
}

// Verify checks code for email. A matching code is consumed.
// Every check counts as an attempt, and the code is discarded once the limit is reached.
func (s *RedisOTPStore) Verify(ctx context.Context, email, code string) error {
	key := otpKey(email)

	attempts, err := s.client.HIncrBy(ctx, key, "attempts", 1).Result()
	if err != nil {
		return err
	}

	stored, err := s.client.HGet(ctx, key, "hash").Result()
	if errors.Is(err, redis.Nil) {
		// HINCRBY created an orphan hash for an unknown email
		_ = s.client.Del(ctx, key).Err()
		return ErrOTPInvalid
	}
	if err != nil {
		return err
	}

	if attempts > s.maxAttempts {
		_ = s.client.Del(ctx, key).Err()
		s.log.Warn("otp attempts exceeded", zap.String("email", email))
		return ErrOTPTooManyAttempts
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(hashCode(code))) != 1 {
		return ErrOTPInvalid
	}

	return s.client.Del(ctx, key).Err()
}
