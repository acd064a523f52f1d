package di

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"messagely/internal/app/router"
	authadapters "messagely/internal/feature/auth/adapters"
	authhandler "messagely/internal/feature/auth/transport/handler"
	authusecase "messagely/internal/feature/auth/usecase"
	msgadapters "messagely/internal/feature/messages/adapters"
	msghandler "messagely/internal/feature/messages/transport/handler"
	msgusecase "messagely/internal/feature/messages/usecase"
	userhandler "messagely/internal/feature/users/transport/handler"
	"messagely/internal/platform/cache"
	"messagely/internal/platform/config"
	jwtmw "messagely/internal/platform/jwt"
)

// userDirectoryTTL bounds how long GET /users may be served from Redis.
const userDirectoryTTL = 5 * time.Minute

// NewEngine wires repositories, usecases and handlers into a gin engine.
// rdb may be nil, in which case login throttling and caching are disabled.
func NewEngine(cfg *config.Config, gdb *gorm.DB, rdb *redis.Client) (*gin.Engine, error) {
	// Repository
	var userRepo authusecase.UserRepository = authadapters.NewUserRepository(gdb)
	if rdb != nil {
		// Redisでユーザー一覧をキャッシュ
		userRepo = cache.NewCachingUserRepository(rdb, userDirectoryTTL, userRepo, "users")
	}
	messageRepo := msgadapters.NewMessageRepository(gdb)

	// Usecase
	issuer := jwtmw.NewIssuer(cfg.JWT.Secret, cfg.JWT.TTL)
	authUC := authusecase.NewAuthUsecase(userRepo, issuer, cfg.BcryptCost)
	messageUC := msgusecase.NewMessageUsecase(messageRepo)

	// Handler
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}

	return router.NewRouter(router.Deps{
		Auth:               authhandler.NewAuthHandler(authUC),
		Messages:           msghandler.NewMessageHandler(messageUC),
		Users:              userhandler.NewUserHandler(authUC, messageUC),
		Verifier:           issuer,
		LoginLimiter:       NewLoginLimiter(rdb, cfg.LoginRateLimit),
		DB:                 sqlDB,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}), nil
}
