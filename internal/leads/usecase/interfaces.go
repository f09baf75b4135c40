package usecase

import (
	"context"

	"github.com/putuyoga/privyr-lead/internal/leads/domain/model"
)

// IngestionUsecaseInterface defines the webhook ingestion contract.
type IngestionUsecaseInterface interface {
	Ingest(ctx context.Context, webhookID string, payload interface{}) (*model.LeadInput, error)
}

// LeadQueryUsecaseInterface defines the lead listing contract.
type LeadQueryUsecaseInterface interface {
	ParsePageQuery(query map[string]string) (model.PageRequest, error)
	ListLeads(ctx context.Context, userID string, page model.PageRequest) ([]*model.Lead, error)
}

// WebhookUsecaseInterface defines the webhook management contract.
type WebhookUsecaseInterface interface {
	IssueOrRotate(ctx context.Context, userID string) (string, error)
	GetWebhookID(ctx context.Context, userID string) (string, error)
}

var (
	_ IngestionUsecaseInterface = (*IngestionUsecase)(nil)
	_ LeadQueryUsecaseInterface = (*LeadQueryUsecase)(nil)
	_ WebhookUsecaseInterface   = (*WebhookUsecase)(nil)
)
