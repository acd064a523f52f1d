// Package config loads the immutable process configuration.
// The Config is built once at startup and passed explicitly to the
// components that need it; nothing reads the environment after Load.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"messagely/internal/platform/db"
)

// EnvKeyJWTSecret is the environment variable holding the token signing key.
const EnvKeyJWTSecret = "JWT_SECRET"

// JWTConfig configures the token issuer.
type JWTConfig struct {
	Secret string
	// TTL is the token lifetime. Zero issues tokens without expiry.
	TTL time.Duration
}

// RedisConfig configures the optional Redis connection.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return r.Host + ":" + port
}

// RateLimitConfig configures login/register throttling per client IP.
type RateLimitConfig struct {
	// Limit is the number of attempts allowed per Window. Zero disables throttling.
	Limit  int
	Window time.Duration
}

// Config is the process-wide configuration.
type Config struct {
	Port               string
	DB                 db.Config
	JWT                JWTConfig
	BcryptCost         int
	Redis              RedisConfig
	LoginRateLimit     RateLimitConfig
	CORSAllowedOrigins []string
}

// Load reads the configuration from the environment, after loading
// ENV_FILE (default .env) when it exists.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil {
		slog.Info("env file not found; using system environment variables", "file", envFile)
	}
	return FromEnv()
}

// FromEnv builds and validates a Config from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		DB:   db.LoadConfigFromEnv(),
		JWT: JWTConfig{
			Secret: os.Getenv(EnvKeyJWTSecret),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     os.Getenv("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	var errs []error
	var err error

	if cfg.JWT.Secret == "" {
		errs = append(errs, fmt.Errorf("%s must be set", EnvKeyJWTSecret))
	}
	if cfg.JWT.TTL, err = getDuration("JWT_TTL", 0); err != nil {
		errs = append(errs, err)
	} else if cfg.JWT.TTL < 0 {
		errs = append(errs, errors.New("JWT_TTL must not be negative"))
	}

	if cfg.BcryptCost, err = getInt("BCRYPT_COST", bcrypt.DefaultCost); err != nil {
		errs = append(errs, err)
	} else if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}

	if cfg.LoginRateLimit.Limit, err = getInt("LOGIN_RATE_LIMIT", 10); err != nil {
		errs = append(errs, err)
	} else if cfg.LoginRateLimit.Limit < 0 {
		errs = append(errs, errors.New("LOGIN_RATE_LIMIT must not be negative"))
	}
	if cfg.LoginRateLimit.Window, err = getDuration("LOGIN_RATE_WINDOW", time.Minute); err != nil {
		errs = append(errs, err)
	} else if cfg.LoginRateLimit.Window <= 0 {
		errs = append(errs, errors.New("LOGIN_RATE_WINDOW must be positive"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// getEnv returns the value of key or fallback when unset or empty.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
