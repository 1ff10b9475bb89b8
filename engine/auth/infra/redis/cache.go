package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/meetly/meetly/engine/auth/model"
	"github.com/meetly/meetly/engine/auth/uc"
	"github.com/meetly/meetly/engine/core"
	"github.com/meetly/meetly/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// CachedRepository wraps the auth repository with Redis caching of session
// token lookups. Every other operation delegates straight through. Cache
// failures degrade silently to the database.
type CachedRepository struct {
	uc.Repository
	client Interface
	ttl    time.Duration
}

// Interface defines the minimal Redis interface needed for caching
type Interface interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// NewCachedRepository creates a new cached repository
func NewCachedRepository(repo uc.Repository, client Interface, ttl time.Duration) uc.Repository {
	if ttl == 0 {
		ttl = 30 * time.Second
	}
	return &CachedRepository{
		Repository: repo,
		client:     client,
		ttl:        ttl,
	}
}

func sessionCacheKey(token string) string {
	return fmt.Sprintf("auth:session:%s", token)
}

// GetUserBySessionToken resolves a session token with cache-aside semantics
func (c *CachedRepository) GetUserBySessionToken(ctx context.Context, token string) (*model.User, error) {
	log := logger.FromContext(ctx)
	cacheKey := sessionCacheKey(token)

	cached := c.client.Get(ctx, cacheKey)
	if cached.Err() == nil {
		var user model.User
		if err := json.Unmarshal([]byte(cached.Val()), &user); err == nil {
			log.Debug("session cache hit")
			return &user, nil
		}
	}

	user, err := c.Repository.GetUserBySessionToken(ctx, token)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(user)
	if err != nil {
		log.Warn("failed to marshal user for session cache", "error", err)
		return user, nil
	}
	if err := c.client.Set(ctx, cacheKey, payload, c.ttl).Err(); err != nil {
		log.Warn("failed to cache session", "error", err)
	}
	return user, nil
}

// ClearSessionToken invalidates the cache entry around clearing the token
// so a logged-out cookie cannot keep authenticating from cache. The entry
// is evicted twice: once up front, and once after the clear commits, since
// a concurrent lookup may re-cache the token in between. Token rotation on
// login needs no eviction: the new token has a fresh cache key and the
// superseded entry expires with the TTL.
func (c *CachedRepository) ClearSessionToken(ctx context.Context, userID core.ID) error {
	log := logger.FromContext(ctx)
	var token string
	if current, err := c.Repository.GetUserByID(ctx, userID); err == nil {
		token = current.SessionToken
	}
	evict := func() {
		if token == "" {
			return
		}
		if delErr := c.client.Del(ctx, sessionCacheKey(token)).Err(); delErr != nil {
			log.Warn("failed to evict session cache entry", "error", delErr)
		}
	}
	evict()
	if err := c.Repository.ClearSessionToken(ctx, userID); err != nil {
		return err
	}
	evict()
	return nil
}
