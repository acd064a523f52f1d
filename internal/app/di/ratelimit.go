package di

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"messagely/internal/platform/config"
	"messagely/internal/platform/http/middleware"
	"messagely/internal/shared/ratelimiter"
)

// loginLimiterPrefix namespaces the login/register attempt counters in Redis.
const loginLimiterPrefix = "login"

// NewLoginLimiter creates the Limiter guarding /login and /register.
// If Redis is available and a limit is configured, it returns a Redis-backed
// fixed-window limiter. Otherwise, it falls back to allowing every attempt.
func NewLoginLimiter(rdb *redis.Client, cfg config.RateLimitConfig) middleware.Limiter {
	if rdb == nil || cfg.Limit == 0 {
		slog.Warn("login throttling disabled", "redis", rdb != nil, "limit", cfg.Limit)
		return ratelimiter.Noop{}
	}
	return ratelimiter.NewRedisLimiter(rdb, loginLimiterPrefix, cfg.Limit, cfg.Window)
}
