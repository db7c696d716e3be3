package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles authentication attempts with a fixed window counter.
// Key format: ratelimit:<scope>:<client_ip>
type LoginLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewLoginLimiter creates a LoginLimiter allowing limit attempts per window.
func NewLoginLimiter(client *redis.Client, limit int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{client: client, limit: int64(limit), window: window}
}

// Allow increments the counter for key and reports whether the caller is
// still under the window's budget. The expiry is set on the first hit so the
// window starts with the first attempt.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	full := "ratelimit:" + key
	n, err := l.client.Incr(ctx, full).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, full, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return n <= l.limit, nil
}
