// Package redis provides the Redis-backed cache used to memoize similarity
// scores and geo lookups.  The cache is a performance layer only: every
// consumer behaves identically when it is absent or failing.
package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/config"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
)

// nullSentinel marks cached "not found" results so repeated misses do not
// hammer the backing store.
const nullSentinel = "__null__"

// Cache is a prefix-scoped, TTL-expiring Redis cache with JSON
// serialization, TTL jitter, null caching, and singleflight loading.
type Cache struct {
	client     *goredis.Client
	prefix     string
	defaultTTL time.Duration
	nullTTL    time.Duration
	group      singleflight.Group
	logger     logging.Logger
}

// Option customizes a Cache.
type Option func(*Cache)

// WithPrefix sets the key namespace.
func WithPrefix(prefix string) Option {
	return func(c *Cache) { c.prefix = prefix }
}

// WithDefaultTTL sets the TTL applied when Set receives a non-positive ttl.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.defaultTTL = ttl }
}

// WithNullTTL sets how long "not found" markers live.
func WithNullTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.nullTTL = ttl }
}

// NewClient builds a go-redis client from configuration.
func NewClient(cfg config.RedisConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
}

// NewCache constructs a Cache over an existing client.
func NewCache(client *goredis.Client, logger logging.Logger, opts ...Option) *Cache {
	c := &Cache{
		client:     client,
		prefix:     "civiclens",
		defaultTTL: time.Hour,
		nullTTL:    30 * time.Second,
		logger:     logger.Named("redis"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping verifies connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "redis ping failed")
	}
	return nil
}

// Get unmarshals the value under key into dest.  A cached null marker and a
// plain miss both report found=false.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, c.fullKey(key)).Result()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, errors.CodeCacheError, "redis get %q failed", key)
	}
	if raw == nullSentinel {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, errors.Wrap(err, errors.CodeCacheError, "failed to decode cached value for %q", key)
	}
	return true, nil
}

// Set stores value under key.  Non-positive ttl falls back to the default;
// the effective TTL is jittered by up to ten percent to spread expiry.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "failed to encode value for %q", key)
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, c.fullKey(key), data, jitterTTL(ttl)).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "redis set %q failed", key)
	}
	return nil
}

// SetNull records a "not found" marker for key.
func (c *Cache) SetNull(ctx context.Context, key string) error {
	if err := c.client.Set(ctx, c.fullKey(key), nullSentinel, c.nullTTL).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "redis set null %q failed", key)
	}
	return nil
}

// Delete removes a key; missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.fullKey(key)).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "redis del %q failed", key)
	}
	return nil
}

// GetOrSet returns the cached value or loads it once per key across
// concurrent callers, caching the loaded result.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, load func(ctx context.Context) (interface{}, error)) error {
	if found, err := c.Get(ctx, key, dest); err == nil && found {
		return nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.Set(ctx, key, value, ttl); err != nil {
			c.logger.Debug("cache backfill failed", logging.String("key", key), logging.Err(err))
		}
		return value, nil
	})
	if err != nil {
		return err
	}

	// Round-trip through JSON so dest is populated the same way a cache
	// hit would populate it.
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "failed to encode loaded value for %q", key)
	}
	return json.Unmarshal(data, dest)
}

// Close releases the client.
func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) fullKey(key string) string {
	return c.prefix + ":" + key
}

// jitterTTL spreads expiry by up to +/-10%.
func jitterTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttl
	}
	jitter := time.Duration(rand.Int63n(int64(ttl)/5+1)) - ttl/10
	return ttl + jitter
}
