package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "fammo:ratelimit:"

// RedisRateLimiter is a fixed-window counter: INCR on a key that embeds the
// window index, expiring with the window.
type RedisRateLimiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisRateLimiter(client redis.Cmdable, limit int, window time.Duration) *RedisRateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RedisRateLimiter{
		client: client,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, identifier string) (Result, error) {
	now := l.now()
	slot := now.UnixNano() / int64(l.window)
	key := fmt.Sprintf("%s%s:%d", keyPrefix, identifier, slot)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to count request: %w", err)
	}

	count := int(incr.Val())
	windowEnd := time.Unix(0, (slot+1)*int64(l.window))
	res := Result{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: max(l.limit-count, 0),
	}
	if !res.Allowed {
		res.RetryAfter = windowEnd.Sub(now)
	}
	return res, nil
}
