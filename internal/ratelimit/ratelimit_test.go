package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiterWithClock(2, time.Minute, func() time.Time { return now })

	res, err := l.Allow(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, res.Remaining)

	res, _ = l.Allow(ctx, "ada@example.com")
	assert.True(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)

	res, _ = l.Allow(ctx, "ada@example.com")
	assert.False(t, res.Allowed)
	assert.Equal(t, now.Add(time.Minute), res.ResetAt)

	res, _ = l.Allow(ctx, "bob@example.com")
	assert.True(t, res.Allowed, "keys are independent")

	now = now.Add(time.Minute + time.Second)
	res, _ = l.Allow(ctx, "ada@example.com")
	assert.True(t, res.Allowed, "window slides")
}

func setupTestRedis(t *testing.T, limit int, window time.Duration) (*RedisLimiter, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	l, err := NewRedisLimiter("redis://"+s.Addr(), limit, window)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l, s
}

func TestRedisLimiter(t *testing.T) {
	ctx := context.Background()
	l, s := setupTestRedis(t, 3, time.Hour)

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "reset:ada@example.com")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "attempt %d", i+1)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := l.Allow(ctx, "reset:ada@example.com")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.True(t, s.TTL("ratelimit:reset:ada@example.com") > 0)

	s.FastForward(time.Hour + time.Second)

	res, err = l.Allow(ctx, "reset:ada@example.com")
	require.NoError(t, err)
	assert.True(t, res.Allowed, "window resets after expiry")
}

func TestRedisLimiter_RestoresMissingExpiry(t *testing.T) {
	ctx := context.Background()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()
	l := NewRedisLimiterWithClient(client, 5, time.Minute)

	require.NoError(t, s.Set("ratelimit:k", "1"))

	res, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.True(t, s.TTL("ratelimit:k") > 0)
}

func TestNewRedisLimiter_BadURL(t *testing.T) {
	_, err := NewRedisLimiter("not a url", 1, time.Minute)
	assert.Error(t, err)
}
