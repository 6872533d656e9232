package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"usedmarket/pkg/logger"
)

// RedisCache is a JSON read cache in front of the query layer's full
// collection reads. A nil client degrades every lookup to a miss, so the
// cache is safe to leave unconfigured.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr, password string, ttl time.Duration) *RedisCache {
	if addr == "" {
		return &RedisCache{ttl: ttl}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

// GetJSON reports whether key was present and, if so, unmarshals it into
// dest.
func (c *RedisCache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if c.client == nil {
		return false
	}

	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("cache get failed for %s: %v", key, err)
		}
		return false
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		logger.Warn("cache decode failed for %s: %v", key, err)
		return false
	}
	return true
}

func (c *RedisCache) SetJSON(ctx context.Context, key string, value interface{}) {
	if c.client == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.Warn("cache set failed for %s: %v", key, err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, keys ...string) {
	if c.client == nil || len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("cache invalidate failed: %v", err)
	}
}

func (c *RedisCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
