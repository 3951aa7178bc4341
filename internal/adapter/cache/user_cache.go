package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "github.com/Ivanildsdev/myrecipebook/internal/domain/user"
)

// UserCache caches resolved identities keyed by user identifier. The
// authorization gate reads through it on every protected request; mutating
// use cases invalidate after commit.
type UserCache interface {
	// Get retrieves a cached user by identifier. Returns nil on a miss.
	Get(ctx context.Context, identifier uuid.UUID) (*domain.User, error)

	// Set stores a user with the configured TTL.
	Set(ctx context.Context, u *domain.User) error

	// Delete drops a cached user by identifier.
	Delete(ctx context.Context, identifier uuid.UUID) error
}

// RedisUserCache implements UserCache using Redis as the backing store.
type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisUserCache creates a new Redis-backed user cache.
func NewRedisUserCache(client *redis.Client, ttl time.Duration, log *zap.Logger) UserCache {
	return &RedisUserCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// cacheKey generates a Redis key for a user identifier.
func (c *RedisUserCache) cacheKey(identifier uuid.UUID) string {
	return fmt.Sprintf("user:ident:%s", identifier)
}

// Get retrieves a user from Redis cache.
func (c *RedisUserCache) Get(ctx context.Context, identifier uuid.UUID) (*domain.User, error) {
	key := c.cacheKey(identifier)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		// Cache miss - not an error
		c.log.Debug("cache miss", zap.String("identifier", identifier.String()))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.String("identifier", identifier.String()), zap.Error(err))
		return nil, err
	}

	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		c.log.Error("failed to unmarshal cached user", zap.String("identifier", identifier.String()), zap.Error(err))
		return nil, err
	}

	c.log.Debug("cache hit", zap.String("identifier", identifier.String()))
	return &u, nil
}

// Set stores a user in Redis cache with TTL.
func (c *RedisUserCache) Set(ctx context.Context, u *domain.User) error {
	if u == nil {
		return fmt.Errorf("cannot cache nil user")
	}

	key := c.cacheKey(u.UserIdentifier)

	data, err := json.Marshal(u)
	if err != nil {
		c.log.Error("failed to marshal user for cache", zap.String("identifier", u.UserIdentifier.String()), zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Error("failed to set cache", zap.String("identifier", u.UserIdentifier.String()), zap.Error(err))
		return err
	}

	c.log.Debug("cached user", zap.String("identifier", u.UserIdentifier.String()), zap.Duration("ttl", c.ttl))
	return nil
}

// Delete removes a user from Redis cache.
func (c *RedisUserCache) Delete(ctx context.Context, identifier uuid.UUID) error {
	key := c.cacheKey(identifier)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Error("failed to delete from cache", zap.String("identifier", identifier.String()), zap.Error(err))
		return err
	}

	c.log.Debug("deleted from cache", zap.String("identifier", identifier.String()))
	return nil
}
