package auth

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimiter gates requests by key within a rolling window. Allow
// reports whether the request may proceed, how many attempts remain, and
// when the window resets.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, int, time.Time, error)
	Reset(ctx context.Context, key string) error
	WithLimit(maxAttempts int64, window time.Duration) RateLimiter
}

const rateLimitPrefix = "focusflow:ratelimit:"

// RedisRateLimiter counts attempts in fixed windows backed by Redis, so
// the limit holds across instances.
type RedisRateLimiter struct {
	client      *redis.Client
	window      time.Duration
	maxAttempts int64
}

func NewRedisRateLimiter(client *redis.Client, window time.Duration, maxAttempts int64) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, window: window, maxAttempts: maxAttempts}
}

// WithLimit derives a limiter with different bounds sharing the same
// Redis client.
func (rl *RedisRateLimiter) WithLimit(maxAttempts int64, window time.Duration) RateLimiter {
	return &RedisRateLimiter{client: rl.client, window: window, maxAttempts: maxAttempts}
}

func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	resetAt := time.Now().Truncate(rl.window).Add(rl.window)

	pipe := rl.client.Pipeline()
	incr := pipe.Incr(ctx, rateLimitPrefix+key)
	pipe.ExpireAt(ctx, rateLimitPrefix+key, resetAt)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := incr.Val()
	remaining := rl.maxAttempts - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= rl.maxAttempts, int(remaining), resetAt, nil
}

func (rl *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	return rl.client.Del(ctx, rateLimitPrefix+key).Err()
}
