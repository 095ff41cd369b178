package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anhkhoavan24-art/SuiClouds/common/logger"
)

// RedisCache implements Cache on a Redis client. Used when several service
// instances should share the same exchange-rate slot.
type RedisCache struct {
	redis *redis.Client
	log   *logger.Logger
}

// NewRedisCache creates a Redis-backed cache
func NewRedisCache(client *redis.Client, log *logger.Logger) *RedisCache {
	return &RedisCache{
		redis: client,
		log:   log,
	}
}

// Get retrieves a value from Redis
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		c.log.Warn("redis GET failed", "key", key, "error", err)
		return nil, false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return val, true, nil
}

// Set stores a value in Redis with TTL
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.Warn("redis SET failed", "key", key, "error", err)
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Delete removes a key from Redis
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying Redis client
func (c *RedisCache) Close() error {
	c.log.Info("redis cache closed")
	return c.redis.Close()
}
