package usecase

import (
	"context"
	"errors"

	"github.com/putuyoga/privyr-lead/internal/leads/domain/model"
	"github.com/putuyoga/privyr-lead/internal/leads/domain/repository"
	"github.com/putuyoga/privyr-lead/internal/leads/domain/service"
	apperrors "github.com/putuyoga/privyr-lead/internal/shared/errors"
	"github.com/putuyoga/privyr-lead/internal/shared/logger"
	"github.com/putuyoga/privyr-lead/internal/shared/utils"
)

// DefaultWebhookIDRetries bounds token regeneration after a collision.
const DefaultWebhookIDRetries = 3

// WebhookUsecase issues, rotates and reads a user's webhook token.
type WebhookUsecase struct {
	store       repository.LeadStore
	generator   service.IdentifierGenerator
	cache       repository.WebhookCache
	maxAttempts int
	logger      logger.Logger
}

// NewWebhookUsecase creates the service. cache may be nil.
func NewWebhookUsecase(
	store repository.LeadStore,
	generator service.IdentifierGenerator,
	cache repository.WebhookCache,
	maxAttempts int,
	log logger.Logger,
) *WebhookUsecase {
	if maxAttempts < 1 {
		maxAttempts = DefaultWebhookIDRetries
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &WebhookUsecase{
		store:       store,
		generator:   generator,
		cache:       cache,
		maxAttempts: maxAttempts,
		logger:      log.WithComponent("webhook_management"),
	}
}

// IssueOrRotate gives the user a fresh token, creating the user record when it
// does not exist yet. Any previous token stops resolving.
func (uc *WebhookUsecase) IssueOrRotate(ctx context.Context, userID string) (string, error) {
	ctx = utils.WithUserID(ctx, userID)
	ctx = utils.WithOperation(ctx, "issue_webhook")
	log := uc.logger.WithContext(ctx)

	previous := uc.previousToken(ctx, log, userID)

	var lastErr error
	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		token, err := uc.generator.Generate()
		if err != nil {
			log.Errorf("token generation failed: %v", err)
			return "", apperrors.NewInternalError(apperrors.GenericMessage).WithCause(err)
		}

		user, err := uc.store.UpsertUser(ctx, userID, token)
		if err == nil {
			uc.evict(ctx, log, previous)
			log.Infof("webhook issued after %d attempt(s)", attempt)
			return user.WebhookID, nil
		}
		if !errors.Is(err, model.ErrWebhookIDTaken) {
			log.Errorf("store failure: %v", err)
			return "", apperrors.NewStoreError(err)
		}

		log.Warnf("generated webhook id already taken (attempt %d/%d)", attempt, uc.maxAttempts)
		lastErr = err
	}

	log.Errorf("giving up after %d webhook id collisions", uc.maxAttempts)
	return "", apperrors.NewStoreError(lastErr)
}

// GetWebhookID returns the stored token, which is empty when none was issued.
func (uc *WebhookUsecase) GetWebhookID(ctx context.Context, userID string) (string, error) {
	ctx = utils.WithUserID(ctx, userID)

	user, err := uc.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return "", userNotFound(userID)
		}
		uc.logger.WithContext(ctx).Errorf("store failure: %v", err)
		return "", apperrors.NewStoreError(err)
	}
	if !user.HasWebhook() {
		return "", nil
	}
	return user.WebhookID, nil
}

// previousToken is only needed for cache eviction, so failures are ignored.
func (uc *WebhookUsecase) previousToken(ctx context.Context, log logger.Logger, userID string) string {
	if uc.cache == nil {
		return ""
	}
	user, err := uc.store.GetUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, model.ErrUserNotFound) {
			log.Warnf("could not read previous webhook id: %v", err)
		}
		return ""
	}
	return user.WebhookID
}

func (uc *WebhookUsecase) evict(ctx context.Context, log logger.Logger, token string) {
	if uc.cache == nil || token == "" {
		return
	}
	if err := uc.cache.Delete(ctx, token); err != nil {
		log.Warnf("failed to evict rotated webhook id: %v", err)
	}
}
