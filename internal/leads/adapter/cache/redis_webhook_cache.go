package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const webhookKeyPrefix = "wh:"

// RedisWebhookCache stores webhook token to user id hints in Redis.
type RedisWebhookCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisWebhookCache creates the cache. Keys look like <prefix>wh:<token>.
func NewRedisWebhookCache(client *redis.Client, prefix string, ttl time.Duration) *RedisWebhookCache {
	return &RedisWebhookCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *RedisWebhookCache) key(webhookID string) string {
	return c.prefix + webhookKeyPrefix + webhookID
}

// Get returns the cached owner of webhookID.
func (c *RedisWebhookCache) Get(ctx context.Context, webhookID string) (string, bool, error) {
	userID, err := c.client.Get(ctx, c.key(webhookID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get webhook: %w", err)
	}
	return userID, true, nil
}

// Set caches the owner of webhookID for the configured TTL.
func (c *RedisWebhookCache) Set(ctx context.Context, webhookID, userID string) error {
	if err := c.client.Set(ctx, c.key(webhookID), userID, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set webhook: %w", err)
	}
	return nil
}

// Delete evicts webhookID. Missing keys are not an error.
func (c *RedisWebhookCache) Delete(ctx context.Context, webhookID string) error {
	if err := c.client.Del(ctx, c.key(webhookID)).Err(); err != nil {
		return fmt.Errorf("redis delete webhook: %w", err)
	}
	return nil
}

// Ping checks connectivity for health reporting.
func (c *RedisWebhookCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
