package contextkeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextKey_String(t *testing.T) {
	key := contextKey("testKey")
	assert.Equal(t, "privyr-lead context key testKey", key.String())
}

func TestContextKeys_Usage(t *testing.T) {
	ctx := context.Background()
	ctx = context.WithValue(ctx, RequestIDKey, "req-456")
	ctx = context.WithValue(ctx, UserIDKey, "user-123")
	ctx = context.WithValue(ctx, WebhookIDKey, "hook-abc")
	ctx = context.WithValue(ctx, ComponentKey, "ingestion")
	ctx = context.WithValue(ctx, OperationKey, "ingest")

	assert.Equal(t, "req-456", ctx.Value(RequestIDKey))
	assert.Equal(t, "user-123", ctx.Value(UserIDKey))
	assert.Equal(t, "hook-abc", ctx.Value(WebhookIDKey))
	assert.Equal(t, "ingestion", ctx.Value(ComponentKey))
	assert.Equal(t, "ingest", ctx.Value(OperationKey))
	assert.Nil(t, ctx.Value(contextKey("missing")))
}
