// Package router builds the HTTP routing table.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "messagely/internal/feature/auth/transport/handler"
	msghandler "messagely/internal/feature/messages/transport/handler"
	userhandler "messagely/internal/feature/users/transport/handler"
	"messagely/internal/platform/http/handler"
	"messagely/internal/platform/http/middleware"
	jwtmw "messagely/internal/platform/jwt"
)

// Deps holds everything NewRouter mounts.
type Deps struct {
	Auth     *authhandler.AuthHandler
	Messages *msghandler.MessageHandler
	Users    *userhandler.UserHandler

	Verifier     jwtmw.TokenVerifier
	LoginLimiter middleware.Limiter
	// DB is pinged by /healthz; nil reports liveness only.
	DB handler.Pinger

	CORSAllowedOrigins []string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID())

	// ブラウザクライアント向け。未設定の場合はCORSヘッダーを付けない
	if len(d.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type", middleware.HeaderRequestID},
			ExposeHeaders:    []string{middleware.HeaderRequestID},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// トークンがあれば Principal を付与する。拒否はしない
	r.Use(jwtmw.AuthenticateJWT(d.Verifier))

	// 認証不要
	// 導通確認用
	health := handler.Health(d.DB)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)

	throttled := r.Group("/")
	throttled.Use(middleware.RateLimitByIP(d.LoginLimiter))
	{
		// ログイン（JWT 発行）
		throttled.POST("/login", d.Auth.Login)
		// 新規ユーザー登録（登録後そのままログイン）
		throttled.POST("/register", d.Auth.Register)
	}

	// ログイン必須のルート
	messages := r.Group("/messages")
	messages.Use(jwtmw.EnsureLoggedIn())
	{
		messages.GET("/:id", d.Messages.Get)
		messages.POST("", d.Messages.Create)
		messages.POST("/:id/read", d.Messages.MarkRead)
	}

	users := r.Group("/users")
	users.Use(jwtmw.EnsureLoggedIn())
	users.GET("", d.Users.List)

	// 本人のみアクセス可能なルート
	self := users.Group("/:username")
	self.Use(jwtmw.EnsureCorrectUser("username"))
	{
		self.GET("", d.Users.Get)
		self.GET("/to", d.Users.MessagesTo)
		self.GET("/from", d.Users.MessagesFrom)
	}

	return r
}
