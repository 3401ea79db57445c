package middleware

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
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

// frozen pins the limiter clock so refills only happen when a test advances it.
type frozen struct{ t time.Time }

func (f *frozen) now() time.Time          { return f.t }
func (f *frozen) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestLimiter(t *testing.T, client *redis.Client, cfg RateLimiterConfig) (*RateLimiter, *frozen) {
	clock := &frozen{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(client, cfg, zaptest.NewLogger(t))
	rl.now = clock.now
	return rl, clock
}

func mockHandler(ctx context.Context, req any) (any, error) {
	return "success", nil
}

func peerContext(addr string) context.Context {
	tcp, _ := net.ResolveTCPAddr("tcp", addr)
	return peer.NewContext(context.Background(), &peer.Peer{Addr: tcp})
}

type countingRecorder struct{ n int }

func (c *countingRecorder) RateLimited() { c.n++ }

func TestRateLimiter_WithinLimit(t *testing.T) {
	client, _ := setupTestRedis(t)
	rl, _ := newTestLimiter(t, client, RateLimiterConfig{RequestsPerSecond: 10, BurstCapacity: 10, Enabled: true})
	interceptor := rl.UnaryInterceptor()

	ctx := peerContext("127.0.0.1:12345")
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	for i := 0; i < 5; i++ {
		resp, err := interceptor(ctx, nil, info, mockHandler)
		require.NoError(t, err)
		assert.Equal(t, "success", resp)
	}
}

func TestRateLimiter_ExceedLimit(t *testing.T) {
	client, _ := setupTestRedis(t)
	rec := &countingRecorder{}
	rl, _ := newTestLimiter(t, client, RateLimiterConfig{RequestsPerSecond: 5, BurstCapacity: 5, Enabled: true})
	rl.WithRecorder(rec)
	interceptor := rl.UnaryInterceptor()

	ctx := peerContext("127.0.0.1:12345")
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	for i := 0; i < 5; i++ {
		_, err := interceptor(ctx, nil, info, mockHandler)
		require.NoError(t, err)
	}

	resp, err := interceptor(ctx, nil, info, mockHandler)
	require.Error(t, err)
	assert.Nil(t, resp)

	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.ResourceExhausted, st.Code())
	assert.Contains(t, st.Message(), "rate limit exceeded")
	assert.Equal(t, 1, rec.n)
}

func TestRateLimiter_Refill(t *testing.T) {
	client, _ := setupTestRedis(t)
	rl, clock := newTestLimiter(t, client, RateLimiterConfig{RequestsPerSecond: 2, BurstCapacity: 2, Enabled: true})
	ctx := context.Background()

	assert.True(t, rl.Allow(ctx, "k"))
	assert.True(t, rl.Allow(ctx, "k"))
	assert.False(t, rl.Allow(ctx, "k"))

	clock.advance(500 * time.Millisecond)
	assert.True(t, rl.Allow(ctx, "k"))
	assert.False(t, rl.Allow(ctx, "k"))
}

func TestRateLimiter_Disabled(t *testing.T) {
	client, _ := setupTestRedis(t)
	rl, _ := newTestLimiter(t, client, RateLimiterConfig{RequestsPerSecond: 1, BurstCapacity: 1, Enabled: false})
	interceptor := rl.UnaryInterceptor()

	ctx := peerContext("127.0.0.1:12345")
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	for i := 0; i < 10; i++ {
		resp, err := interceptor(ctx, nil, info, mockHandler)
		require.NoError(t, err)
		assert.Equal(t, "success", resp)
	}
}

func TestRateLimiter_DifferentIPs(t *testing.T) {
	client, _ := setupTestRedis(t)
	rl, _ := newTestLimiter(t, client, RateLimiterConfig{RequestsPerSecond: 2, BurstCapacity: 2, Enabled: true})
	interceptor := rl.UnaryInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	ctx1 := peerContext("192.168.1.1:12345")
	for i := 0; i < 2; i++ {
		_, err := interceptor(ctx1, nil, info, mockHandler)
		require.NoError(t, err)
	}
	_, err := interceptor(ctx1, nil, info, mockHandler)
	require.Error(t, err)

	resp, err := interceptor(peerContext("192.168.1.2:12345"), nil, info, mockHandler)
	require.NoError(t, err)
	assert.Equal(t, "success", resp)
}

func TestRateLimiter_XForwardedFor(t *testing.T) {
	client, mr := setupTestRedis(t)
	rl, _ := newTestLimiter(t, client, RateLimiterConfig{RequestsPerSecond: 5, BurstCapacity: 10, Enabled: true})
	interceptor := rl.UnaryInterceptor()

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-forwarded-for", "203.0.113.1"))
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	_, err := interceptor(ctx, nil, info, mockHandler)
	require.NoError(t, err)
	assert.True(t, mr.Exists("ratelimit:tb:/grpc.health.v1.Health/Check:203.0.113.1"))
}

func TestRateLimiter_DifferentMethods(t *testing.T) {
	client, _ := setupTestRedis(t)
	rl, _ := newTestLimiter(t, client, RateLimiterConfig{RequestsPerSecond: 2, BurstCapacity: 2, Enabled: true})
	interceptor := rl.UnaryInterceptor()
	ctx := peerContext("127.0.0.1:12345")

	check := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	for i := 0; i < 2; i++ {
		_, err := interceptor(ctx, nil, check, mockHandler)
		require.NoError(t, err)
	}

	list := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/List"}
	resp, err := interceptor(ctx, nil, list, mockHandler)
	require.NoError(t, err)
	assert.Equal(t, "success", resp)
}

func TestRateLimiter_KeyExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	rl, _ := newTestLimiter(t, client, RateLimiterConfig{RequestsPerSecond: 2, BurstCapacity: 4, Enabled: true})

	assert.True(t, rl.Allow(context.Background(), "GET:/api/products:127.0.0.1"))

	ttl := mr.TTL("ratelimit:tb:GET:/api/products:127.0.0.1")
	assert.Greater(t, ttl.Seconds(), 0.0)
	assert.LessOrEqual(t, ttl.Seconds(), 60.0)
}

func TestRateLimiter_FallsBackWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	rl, _ := newTestLimiter(t, client, RateLimiterConfig{RequestsPerSecond: 1, BurstCapacity: 2, Enabled: true})
	ctx := context.Background()

	assert.True(t, rl.Allow(ctx, "k"))
	assert.True(t, rl.Allow(ctx, "k"))
	assert.False(t, rl.Allow(ctx, "k"))
}

func TestRateLimiter_NoRedis(t *testing.T) {
	rl, clock := newTestLimiter(t, nil, RateLimiterConfig{RequestsPerSecond: 1, BurstCapacity: 1, Enabled: true})
	ctx := context.Background()

	assert.True(t, rl.Allow(ctx, "k"))
	assert.False(t, rl.Allow(ctx, "k"))

	clock.advance(time.Second)
	assert.True(t, rl.Allow(ctx, "k"))
}
