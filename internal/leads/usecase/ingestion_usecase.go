package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/putuyoga/privyr-lead/internal/leads/domain/model"
	"github.com/putuyoga/privyr-lead/internal/leads/domain/repository"
	"github.com/putuyoga/privyr-lead/internal/leads/domain/service"
	apperrors "github.com/putuyoga/privyr-lead/internal/shared/errors"
	"github.com/putuyoga/privyr-lead/internal/shared/eventbus"
	"github.com/putuyoga/privyr-lead/internal/shared/logger"
	"github.com/putuyoga/privyr-lead/internal/shared/utils"
)

const (
	msgWebhookNotFound = "Webhook does not exist"
	componentIngestion = "lead_ingestion"
)

// IngestionUsecase runs an inbound webhook call through resolve, validate,
// dedupe and persist. Persisting is the only write and always the last step.
type IngestionUsecase struct {
	resolver  *WebhookResolver
	validator *service.LeadValidator
	checker   *DuplicateChecker
	store     repository.LeadStore
	bus       eventbus.EventBusInterface
	logger    logger.Logger
}

// NewIngestionUsecase wires the pipeline. bus may be nil.
func NewIngestionUsecase(
	store repository.LeadStore,
	resolver *WebhookResolver,
	validator *service.LeadValidator,
	bus eventbus.EventBusInterface,
	log logger.Logger,
) *IngestionUsecase {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &IngestionUsecase{
		resolver:  resolver,
		validator: validator,
		checker:   NewDuplicateChecker(store),
		store:     store,
		bus:       bus,
		logger:    log.WithComponent(componentIngestion),
	}
}

// Ingest captures payload as a lead of the user owning webhookID and returns
// the accepted input.
func (uc *IngestionUsecase) Ingest(ctx context.Context, webhookID string, payload interface{}) (*model.LeadInput, error) {
	ctx = utils.WithWebhookID(ctx, webhookID)
	ctx = utils.WithOperation(ctx, "ingest")
	log := uc.logger.WithContext(ctx)

	user, err := uc.resolver.Resolve(ctx, webhookID)
	if err != nil {
		if errors.Is(err, model.ErrWebhookNotFound) {
			return nil, apperrors.NewNotFoundError(msgWebhookNotFound).WithComponent(componentIngestion)
		}
		return nil, uc.storeFailure(log, "resolve webhook", err)
	}
	ctx = utils.WithUserID(ctx, user.ID)
	log = uc.logger.WithContext(ctx)

	input, err := uc.validator.Validate(payload)
	if err != nil {
		return nil, validationError(err)
	}

	result, err := uc.checker.Check(ctx, user.ID, input.Email, input.Phone)
	if err != nil {
		return nil, uc.storeFailure(log, "check duplicates", err)
	}
	if result.Duplicate {
		return nil, duplicateError(result.Field)
	}

	lead, err := uc.store.InsertLead(ctx, user.ID, model.NewLead(user.ID, webhookID, input))
	if err != nil {
		if field, ok := model.DuplicateFieldOf(err); ok {
			log.Infof("concurrent duplicate rejected on %s", field)
			return nil, duplicateError(field)
		}
		return nil, uc.storeFailure(log, "insert lead", err)
	}

	log.WithFields(map[string]interface{}{"lead_id": lead.ID}).Info("lead captured")
	uc.publish(ctx, log, user.ID, lead)

	return input, nil
}

func (uc *IngestionUsecase) publish(ctx context.Context, log logger.Logger, userID string, lead *model.Lead) {
	if uc.bus == nil {
		return
	}
	event := eventbus.NewBasicEventWithSource(
		model.EventTypeLeadCaptured,
		model.LeadCapturedEvent{UserID: userID, Lead: lead},
		componentIngestion,
	)
	if err := uc.bus.Publish(ctx, event); err != nil {
		log.Warnf("failed to publish %s: %v", model.EventTypeLeadCaptured, err)
	}
}

func (uc *IngestionUsecase) storeFailure(log logger.Logger, step string, err error) error {
	log.WithFields(map[string]interface{}{"step": step}).Errorf("store failure: %v", err)
	return apperrors.NewStoreError(err).WithComponent(componentIngestion)
}

func validationError(err error) error {
	var verr *model.LeadValidationError
	if !errors.As(err, &verr) {
		return apperrors.NewValidationError(err.Error())
	}
	return apperrors.NewValidationError(verr.Message).
		WithCode(strings.ToUpper(verr.Rule)).
		WithDetail("field", verr.Field).
		WithDetail("rule", verr.Rule)
}

func duplicateError(field model.LeadField) error {
	name := string(field)
	message := strings.ToUpper(name[:1]) + name[1:] + " already exists"
	return apperrors.NewConflictError(message).
		WithCode("DUPLICATE_" + strings.ToUpper(name)).
		WithDetail("field", name)
}
