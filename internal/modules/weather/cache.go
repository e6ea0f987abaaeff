// README: Response cache for weather requests: in-process go-cache or shared Redis.
package weather

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Cache stores raw API responses keyed by request parameters.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// MemoryCache is an in-process TTL cache. Values are copied in and out so callers
// never share a backing array with the cache. Expired entries are invisible to Get
// and are dropped by Sweep.
type MemoryCache struct {
	items *gocache.Cache
}

func NewMemoryCache() *MemoryCache {
	// No built-in cleanup goroutine; the Janitor drives Sweep.
	return &MemoryCache{items: gocache.New(gocache.NoExpiration, 0)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), b...), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.items.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

// Sweep drops expired entries and returns roughly how many were removed.
func (c *MemoryCache) Sweep() int {
	before := c.items.ItemCount()
	c.items.DeleteExpired()
	if removed := before - c.items.ItemCount(); removed > 0 {
		return removed
	}
	return 0
}

// Len counts stored entries, including expired ones not yet swept.
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}

const redisKeyPrefix = "ontime:weather:"

// RedisKeyPattern matches every weather entry written by RedisCache.
const RedisKeyPattern = redisKeyPrefix + "*"

// RedisCache shares cached responses between replicas. Expiry is enforced by Redis.
type RedisCache struct {
	redis *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{redis: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.redis.Get(ctx, redisKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.redis.Set(ctx, redisKeyPrefix+key, value, ttl).Err()
}
