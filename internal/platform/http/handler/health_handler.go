// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger はデータベース疎通確認を定義します。*sql.DB が満たします。
type Pinger interface {
	PingContext(ctx context.Context) error
}

const pingTimeout = 2 * time.Second

// Health は /healthz エンドポイントのハンドラーを返します。
// pinger が nil の場合はプロセスの生存のみを返します。
// キャッシュを防止し、HTTPメソッドに応じてレスポンスします。
func Health(pinger Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		status, body := http.StatusOK, "ok"
		if pinger != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
			defer cancel()
			if err := pinger.PingContext(ctx); err != nil {
				slog.Error("health check failed", "error", err)
				status, body = http.StatusServiceUnavailable, "unavailable"
			}
		}

		if c.Request.Method == http.MethodHead {
			c.Status(status)
			return
		}
		c.JSON(status, gin.H{"status": body})
	}
}
