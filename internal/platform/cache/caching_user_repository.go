// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"messagely/internal/feature/auth/domain/entity"
	"messagely/internal/feature/auth/usecase"
)

// CachingUserRepository decorates a UserRepository with a Redis cache of the
// user directory (List). Single-user lookups always go to the inner repository
// because authentication needs the current password hash.
type CachingUserRepository struct {
	inner     usecase.UserRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.UserRepository = (*CachingUserRepository)(nil)

// NewCachingUserRepository decorates a UserRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "users".
func NewCachingUserRepository(rdb *redis.Client, ttl time.Duration, inner usecase.UserRepository, namespace string) *CachingUserRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "users"
	}
	return &CachingUserRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create inserts the user and invalidates the cached directory.
func (c *CachingUserRepository) Create(ctx context.Context, u *entity.User) error {
	if err := c.inner.Create(ctx, u); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// FindByUsername is never cached.
func (c *CachingUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return c.inner.FindByUsername(ctx, username)
}

// UpdateLastLogin is passed through. The cached directory is only read for
// username and names, so a login does not invalidate it.
func (c *CachingUserRepository) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	return c.inner.UpdateLastLogin(ctx, username, at)
}

// List returns all users, checking cache first then falling back to the database.
// Cached entries never contain password hashes (entity.User omits them from JSON).
func (c *CachingUserRepository) List(ctx context.Context) ([]entity.User, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.List(ctx)
	}

	key := c.listKey()

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.User
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

func (c *CachingUserRepository) listKey() string {
	return c.namespace + ":all"
}

// invalidate drops the cached directory. Best effort: a failure only delays freshness until the TTL.
func (c *CachingUserRepository) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, c.listKey()).Err()
}
