package repository

import (
	"context"

	"github.com/putuyoga/privyr-lead/internal/leads/domain/model"
)

// LeadStore is the gateway to the document database holding users and their
// leads. Implementations assign createdAt themselves and never retry.
type LeadStore interface {
	// GetUser returns model.ErrUserNotFound when the user does not exist.
	GetUser(ctx context.Context, userID string) (*model.User, error)
	// UpsertUser replaces the user record with a fresh createdAt and the given
	// token. It returns model.ErrWebhookIDTaken when another user holds the token.
	UpsertUser(ctx context.Context, userID, webhookID string) (*model.User, error)
	// QueryUsersByWebhookID returns every user holding the token, ordered by id.
	QueryUsersByWebhookID(ctx context.Context, webhookID string) ([]*model.User, error)

	// QueryLeadsByField runs an equality query over one user's leads.
	QueryLeadsByField(ctx context.Context, userID string, field model.LeadField, value string) ([]*model.Lead, error)
	// InsertLead persists the lead only if no lead of the same user shares its
	// email or phone; collisions return a *model.DuplicateError.
	InsertLead(ctx context.Context, userID string, lead *model.Lead) (*model.Lead, error)
	// QueryLeadsPage returns up to page.Limit leads inside the cursor bounds,
	// ordered by createdAt descending.
	QueryLeadsPage(ctx context.Context, userID string, page model.PageRequest) ([]*model.Lead, error)

	Ping(ctx context.Context) error
}
