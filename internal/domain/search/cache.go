// internal/domain/search/cache.go
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResultCache stores matched catalog ids per normalized query
type ResultCache interface {
	Get(ctx context.Context, key string) ([]uint, bool, error)
	Set(ctx context.Context, key string, ids []uint, ttl time.Duration) error
}

// RedisResultCache implements ResultCache on Redis with JSON values
type RedisResultCache struct {
	client *redis.Client
}

// NewRedisResultCache creates a Redis backed result cache
func NewRedisResultCache(client *redis.Client) *RedisResultCache {
	return &RedisResultCache{client: client}
}

func (c *RedisResultCache) Get(ctx context.Context, key string) ([]uint, bool, error) {
	val, err := c.client.Get(ctx, cacheKey(key)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read search cache: %w", err)
	}

	var ids []uint
	if err := json.Unmarshal([]byte(val), &ids); err != nil {
		// Unreadable entries behave like misses
		return nil, false, nil
	}
	return ids, true, nil
}

func (c *RedisResultCache) Set(ctx context.Context, key string, ids []uint, ttl time.Duration) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode search cache entry: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write search cache: %w", err)
	}
	return nil
}

func cacheKey(key string) string {
	return "search:text:" + key
}
