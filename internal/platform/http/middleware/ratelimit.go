package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"messagely/internal/platform/http/respond"
)

// Limiter decides whether another attempt for key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimitByIP rejects requests with 429 once the client IP exceeds the limiter.
// Limiter failures are logged and the request proceeds.
func RateLimitByIP(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			slog.Warn("rate limiter unavailable", "error", err, "remote_addr", c.ClientIP())
			c.Next()
			return
		}
		if !ok {
			slog.Warn("rate limit exceeded", "path", c.FullPath(), "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, respond.ErrorResponse{Error: "too many requests"})
			return
		}
		c.Next()
	}
}
