package repository

import "context"

// WebhookCache remembers which user a webhook token belongs to. Entries are
// hints only; callers verify them against the store.
type WebhookCache interface {
	Get(ctx context.Context, webhookID string) (userID string, found bool, err error)
	Set(ctx context.Context, webhookID, userID string) error
	Delete(ctx context.Context, webhookID string) error
}
