// Package ratelimiter provides fixed-window attempt counters.
package ratelimiter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Noop allows every attempt. It is used when Redis is unavailable.
type Noop struct{}

// Allow always returns true.
func (Noop) Allow(context.Context, string) (bool, error) { return true, nil }

// RedisLimiter counts attempts per key in Redis using a fixed window.
// INCR and the expiry are applied atomically by one Lua script.
type RedisLimiter struct {
	client redis.Cmdable
	prefix string
	limit  int64
	window time.Duration
}

// NewRedisLimiter creates a limiter allowing limit attempts per window per key.
// An empty prefix defaults to "ratelimit".
func NewRedisLimiter(client redis.Cmdable, prefix string, limit int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
	}
}

// incrWithWindow increments the counter and sets the window expiry whenever the
// key has none, so a key can never be left without a TTL.
var incrWithWindow = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// Allow records an attempt for key and reports whether it is within the limit.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := incrWithWindow.Run(ctx, l.client, []string{l.key(key)}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limiter: %w", err)
	}
	return count <= l.limit, nil
}

func (l *RedisLimiter) key(k string) string {
	// ':' separates namespaces; keep IPv6 addresses from adding levels
	return fmt.Sprintf("%s:%s", l.prefix, strings.ReplaceAll(k, ":", "_"))
}
