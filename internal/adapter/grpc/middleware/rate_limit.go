package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// maxLocalBuckets bounds the in-process fallback map.
const maxLocalBuckets = 10000

// tokenBucketScript refills the bucket stored at KEYS[1] and takes one token.
// Bucket state is {last_refill, tokens}; returns 1 when allowed.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])

	local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
	local last_refill = tonumber(bucket[1]) or now
	local tokens = tonumber(bucket[2]) or capacity

	local elapsed = math.max(0, now - last_refill)
	tokens = math.min(capacity, tokens + elapsed * rate)

	local allowed = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	end

	redis.call('HSET', key, 'last_refill', tostring(now), 'tokens', tostring(tokens))
	redis.call('EXPIRE', key, 60)
	return allowed
`)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstCapacity     int
	Enabled           bool
}

// Recorder counts rejected requests.
type Recorder interface {
	RateLimited()
}

// RateLimiter is a token bucket limiter shared by the HTTP and gRPC servers.
// Buckets live in Redis; when Redis fails the limiter falls back to
// per-process buckets instead of letting traffic through unchecked.
type RateLimiter struct {
	client   *redis.Client
	config   RateLimiterConfig
	log      *zap.Logger
	recorder Recorder
	now      func() time.Time

	mu    sync.Mutex
	local map[string]*rate.Limiter
}

// NewRateLimiter creates a new rate limiter. client may be nil to use only
// in-process buckets.
func NewRateLimiter(client *redis.Client, config RateLimiterConfig, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
		log:    log,
		now:    time.Now,
		local:  make(map[string]*rate.Limiter),
	}
}

// WithRecorder sets the metrics sink for rejected requests.
func (rl *RateLimiter) WithRecorder(r Recorder) *RateLimiter {
	rl.recorder = r
	return rl
}

// Config returns the limiter settings.
func (rl *RateLimiter) Config() RateLimiterConfig {
	return rl.config
}

// Allow takes one token from the bucket identified by key.
func (rl *RateLimiter) Allow(ctx context.Context, key string) bool {
	if rl == nil || !rl.config.Enabled {
		return true
	}

	allowed := rl.allow(ctx, key)
	if !allowed && rl.recorder != nil {
		rl.recorder.RateLimited()
	}
	return allowed
}

func (rl *RateLimiter) allow(ctx context.Context, key string) bool {
	if rl.client == nil {
		return rl.allowLocal(key)
	}

	now := float64(rl.now().UnixMicro()) / 1e6
	res, err := tokenBucketScript.Run(ctx, rl.client, []string{"ratelimit:tb:" + key},
		rl.config.RequestsPerSecond,
		rl.config.BurstCapacity,
		now,
	).Int64()
	if err != nil {
		rl.log.Warn("rate limiter redis error, using local bucket",
			zap.String("key", key),
			zap.Error(err),
		)
		return rl.allowLocal(key)
	}
	return res == 1
}

func (rl *RateLimiter) allowLocal(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.local[key]
	if !ok {
		if len(rl.local) >= maxLocalBuckets {
			rl.local = make(map[string]*rate.Limiter)
		}
		l = rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstCapacity)
		rl.local[key] = l
	}
	return l.AllowN(rl.now(), 1)
}

// UnaryInterceptor returns a gRPC unary interceptor for rate limiting.
func (rl *RateLimiter) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if !rl.config.Enabled {
			return handler(ctx, req)
		}

		clientIP := rl.getClientIP(ctx)
		if !rl.Allow(ctx, info.FullMethod+":"+clientIP) {
			rl.log.Warn("rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.String("method", info.FullMethod),
			)
			return nil, status.Error(codes.ResourceExhausted, rl.ExceededMessage())
		}

		return handler(ctx, req)
	}
}

// ExceededMessage describes the configured limit.
func (rl *RateLimiter) ExceededMessage() string {
	return fmt.Sprintf("rate limit exceeded: %.2f requests/second (burst capacity: %d)",
		rl.config.RequestsPerSecond, rl.config.BurstCapacity)
}

// getClientIP extracts the client IP address from the gRPC context.
func (rl *RateLimiter) getClientIP(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if xff := md.Get("x-forwarded-for"); len(xff) > 0 {
			return xff[0]
		}
		if xri := md.Get("x-real-ip"); len(xri) > 0 {
			return xri[0]
		}
	}

	if p, ok := peer.FromContext(ctx); ok {
		return p.Addr.String()
	}

	return "unknown"
}
