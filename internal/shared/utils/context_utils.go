package utils

import (
	"context"
	"errors"

	"github.com/putuyoga/privyr-lead/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrUserIDNotFound     = errors.New("userID not found in context")
	ErrUserIDNotString    = errors.New("userID in context is not a string")
	ErrWebhookIDNotFound  = errors.New("webhookID not found in context")
	ErrWebhookIDNotString = errors.New("webhookID in context is not a string")
	ErrRequestIDNotFound  = errors.New("requestID not found in context")
	ErrRequestIDNotString = errors.New("requestID in context is not a string")
	ErrOperationNotFound  = errors.New("operation not found in context")
	ErrOperationNotString = errors.New("operation in context is not a string")
)

func stringValue(ctx context.Context, key interface{}, notFound, notString error) (string, error) {
	val := ctx.Value(key)
	if val == nil {
		return "", notFound
	}
	s, ok := val.(string)
	if !ok {
		return "", notString
	}
	return s, nil
}

// GetUserIDFromContext retrieves the user ID from the context.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	return stringValue(ctx, contextkeys.UserIDKey, ErrUserIDNotFound, ErrUserIDNotString)
}

// GetWebhookIDFromContext retrieves the webhook token from the context.
func GetWebhookIDFromContext(ctx context.Context) (string, error) {
	return stringValue(ctx, contextkeys.WebhookIDKey, ErrWebhookIDNotFound, ErrWebhookIDNotString)
}

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	return stringValue(ctx, contextkeys.RequestIDKey, ErrRequestIDNotFound, ErrRequestIDNotString)
}

// GetOperationFromContext retrieves the operation name from the context.
func GetOperationFromContext(ctx context.Context) (string, error) {
	return stringValue(ctx, contextkeys.OperationKey, ErrOperationNotFound, ErrOperationNotString)
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextkeys.UserIDKey, userID)
}

// WithWebhookID returns a copy of ctx carrying the webhook token.
func WithWebhookID(ctx context.Context, webhookID string) context.Context {
	return context.WithValue(ctx, contextkeys.WebhookIDKey, webhookID)
}

// WithRequestID returns a copy of ctx carrying requestID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithOperation returns a copy of ctx carrying the operation name.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, contextkeys.OperationKey, operation)
}

// GetUserIDOrDefault returns the user ID from ctx, or def when absent.
func GetUserIDOrDefault(ctx context.Context, def string) string {
	if id, err := GetUserIDFromContext(ctx); err == nil {
		return id
	}
	return def
}
