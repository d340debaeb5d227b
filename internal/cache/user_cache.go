package cache

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/eko/gocache/lib/v4/codec"
	"github.com/jon4hz/roster/internal/config"
	"github.com/jon4hz/roster/internal/database"
)

// UsersCachePrefix is the key prefix of cached users.
const UsersCachePrefix = "roster-users-"

var _ database.DB = (*CachedDB)(nil)

// CachedDB is a database.DB that serves lookups by id from a cache.
// Users are never updated or deleted, so a cached record can't go stale.
type CachedDB struct {
	database.DB
	users *PrefixedCache[database.User]
}

// NewCachedDB wraps db with a user cache of the configured type.
func NewCachedDB(db database.DB, cfg *config.CacheConfig) *CachedDB {
	return &CachedDB{
		DB:    db,
		users: NewPrefixedCache[database.User](newCacheInstanceByType(cfg), UsersCachePrefix),
	}
}

// CreateUser creates the user and primes the cache with it.
func (c *CachedDB) CreateUser(ctx context.Context, username, email string) (*database.User, error) {
	user, err := c.DB.CreateUser(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if err := c.users.Set(ctx, user.ID, *user); err != nil {
		log.Warn("failed to cache user", "id", user.ID, "error", err)
	}
	return user, nil
}

func (c *CachedDB) GetUserByID(ctx context.Context, id uint) (*database.User, error) {
	if user, err := c.users.Get(ctx, id); err == nil {
		log.Debug("Cache hit for user", "id", id)
		return &user, nil
	}

	user, err := c.DB.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.users.Set(ctx, id, *user); err != nil {
		log.Warn("failed to cache user", "id", id, "error", err)
	}
	return user, nil
}

// Clear drops every cached user.
func (c *CachedDB) Clear(ctx context.Context) error {
	return c.users.Clear(ctx)
}

// GetStats returns the hit and miss counters of the user cache.
func (c *CachedDB) GetStats() *codec.Stats {
	return c.users.GetStats()
}
