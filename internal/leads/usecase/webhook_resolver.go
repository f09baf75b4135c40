package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/putuyoga/privyr-lead/internal/leads/domain/model"
	"github.com/putuyoga/privyr-lead/internal/leads/domain/repository"
	"github.com/putuyoga/privyr-lead/internal/shared/logger"
)

// WebhookResolver maps an inbound webhook token to the user owning it.
type WebhookResolver struct {
	store  repository.LeadStore
	cache  repository.WebhookCache
	logger logger.Logger
}

// NewWebhookResolver creates a resolver. cache may be nil.
func NewWebhookResolver(store repository.LeadStore, cache repository.WebhookCache, log logger.Logger) *WebhookResolver {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &WebhookResolver{
		store:  store,
		cache:  cache,
		logger: log.WithComponent("webhook_resolver"),
	}
}

// Resolve returns the user holding webhookID, model.ErrWebhookNotFound when no
// user does, or a store error. When several users hold the token the one with
// the smallest id wins.
func (r *WebhookResolver) Resolve(ctx context.Context, webhookID string) (*model.User, error) {
	if webhookID == "" {
		return nil, model.ErrWebhookNotFound
	}

	if user, err := r.fromCache(ctx, webhookID); user != nil || err != nil {
		return user, err
	}

	users, err := r.store.QueryUsersByWebhookID(ctx, webhookID)
	if err != nil {
		return nil, fmt.Errorf("resolve webhook: %w", err)
	}
	if len(users) == 0 {
		return nil, model.ErrWebhookNotFound
	}
	if len(users) > 1 {
		r.logger.WithContext(ctx).Warnf("webhook token held by %d users, using %s", len(users), users[0].ID)
	}

	user := users[0]
	if r.cache != nil {
		if err := r.cache.Set(ctx, webhookID, user.ID); err != nil {
			r.logger.WithContext(ctx).Warnf("failed to cache webhook owner: %v", err)
		}
	}
	return user, nil
}

// fromCache returns the cached owner after checking it against the store.
// A nil user and nil error mean the caller should query the store.
func (r *WebhookResolver) fromCache(ctx context.Context, webhookID string) (*model.User, error) {
	if r.cache == nil {
		return nil, nil
	}

	userID, found, err := r.cache.Get(ctx, webhookID)
	if err != nil {
		r.logger.WithContext(ctx).Warnf("webhook cache lookup failed: %v", err)
		return nil, nil
	}
	if !found {
		return nil, nil
	}

	user, err := r.store.GetUser(ctx, userID)
	switch {
	case err == nil && user.WebhookID == webhookID:
		return user, nil
	case err != nil && !errors.Is(err, model.ErrUserNotFound):
		return nil, fmt.Errorf("resolve webhook: %w", err)
	}

	// stale entry: the user is gone or has rotated the token
	if err := r.cache.Delete(ctx, webhookID); err != nil {
		r.logger.WithContext(ctx).Warnf("failed to evict stale webhook entry: %v", err)
	}
	return nil, nil
}
