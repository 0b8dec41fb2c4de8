package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter shared by every replica.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewRedisLimiter connects to redisURL and verifies the connection.
func NewRedisLimiter(redisURL string, limit int, window time.Duration) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisLimiterWithClient(client, limit, window), nil
}

// NewRedisLimiterWithClient creates a limiter on an existing client.
func NewRedisLimiterWithClient(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: "ratelimit:", limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	k := l.prefix + key

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return Result{}, fmt.Errorf("increment %s: %w", k, err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return Result{}, fmt.Errorf("expire %s: %w", k, err)
		}
	}

	ttl, err := l.client.PTTL(ctx, k).Result()
	if err != nil {
		return Result{}, fmt.Errorf("ttl %s: %w", k, err)
	}
	if ttl < 0 {
		// The key lost its expiry (e.g. a crash between INCR and EXPIRE).
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return Result{}, fmt.Errorf("expire %s: %w", k, err)
		}
		ttl = l.window
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   int(count) <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   time.Now().Add(ttl),
	}, nil
}

// Close releases the Redis connection.
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
