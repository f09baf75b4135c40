package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/putuyoga/privyr-lead/internal/leads/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repository.WebhookCache = (*RedisWebhookCache)(nil)

// createTestRedisClient creates a Redis client for testing
func createTestRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         "localhost:6379",
		DB:           15,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

func TestRedisWebhookCache(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := createTestRedisClient()
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Redis not available for testing:", err)
	}

	prefix := fmt.Sprintf("test-%d:", time.Now().UnixNano())
	c := NewRedisWebhookCache(client, prefix, time.Minute)
	defer client.Del(context.Background(), prefix+"wh:hook-1")

	_, found, err := c.Get(ctx, "hook-1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "hook-1", "u1"))

	userID, found, err := c.Get(ctx, "hook-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "u1", userID)

	ttl, err := client.TTL(ctx, prefix+"wh:hook-1").Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Minute)

	require.NoError(t, c.Delete(ctx, "hook-1"))
	require.NoError(t, c.Delete(ctx, "hook-1"))

	_, found, err = c.Get(ctx, "hook-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisWebhookCache_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewRedisWebhookCache(client, "", time.Minute)
	ctx := context.Background()

	_, found, err := c.Get(ctx, "hook")
	assert.Error(t, err)
	assert.False(t, found)
	assert.Error(t, c.Set(ctx, "hook", "u1"))
	assert.Error(t, c.Delete(ctx, "hook"))
	assert.Error(t, c.Ping(ctx))
}
