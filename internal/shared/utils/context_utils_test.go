package utils

import (
	"context"
	"testing"

	"github.com/putuyoga/privyr-lead/internal/shared/contextkeys"

	"github.com/stretchr/testify/assert"
)

func TestGetSetContextValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithUserID(ctx, "user1")
	ctx = WithWebhookID(ctx, "hook1")
	ctx = WithRequestID(ctx, "req1")
	ctx = WithOperation(ctx, "ingest")

	userID, err := GetUserIDFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "user1", userID)

	webhookID, err := GetWebhookIDFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "hook1", webhookID)

	requestID, err := GetRequestIDFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "req1", requestID)

	operation, err := GetOperationFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "ingest", operation)
}

func TestContextValueErrors(t *testing.T) {
	ctx := context.Background()

	_, err := GetUserIDFromContext(ctx)
	assert.ErrorIs(t, err, ErrUserIDNotFound)
	_, err = GetWebhookIDFromContext(ctx)
	assert.ErrorIs(t, err, ErrWebhookIDNotFound)

	ctx = context.WithValue(ctx, contextkeys.UserIDKey, 42)
	_, err = GetUserIDFromContext(ctx)
	assert.ErrorIs(t, err, ErrUserIDNotString)

	ctx = context.WithValue(ctx, contextkeys.RequestIDKey, []byte("x"))
	_, err = GetRequestIDFromContext(ctx)
	assert.ErrorIs(t, err, ErrRequestIDNotString)
}

func TestGetUserIDOrDefault(t *testing.T) {
	assert.Equal(t, "anonymous", GetUserIDOrDefault(context.Background(), "anonymous"))
	assert.Equal(t, "u1", GetUserIDOrDefault(WithUserID(context.Background(), "u1"), "anonymous"))
}
