package http

import (
	"github.com/putuyoga/privyr-lead/internal/leads/usecase"
	apperrors "github.com/putuyoga/privyr-lead/internal/shared/errors"
	"github.com/putuyoga/privyr-lead/internal/shared/logger"
	"github.com/putuyoga/privyr-lead/internal/shared/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// LeadHandler serves the lead and webhook endpoints.
type LeadHandler struct {
	ingestion usecase.IngestionUsecaseInterface
	leads     usecase.LeadQueryUsecaseInterface
	webhooks  usecase.WebhookUsecaseInterface
	log       logger.Logger
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(
	ingestion usecase.IngestionUsecaseInterface,
	leads usecase.LeadQueryUsecaseInterface,
	webhooks usecase.WebhookUsecaseInterface,
	log logger.Logger,
) *LeadHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &LeadHandler{
		ingestion: ingestion,
		leads:     leads,
		webhooks:  webhooks,
		log:       log.WithComponent("lead_http"),
	}
}

// RegisterRoutes mounts the owner routes behind ownerGuard, which may be nil,
// and the public webhook endpoint.
func (h *LeadHandler) RegisterRoutes(router fiber.Router, ownerGuard fiber.Handler) {
	users := router.Group("/users/:userId")
	users.Get("/leads", guarded(ownerGuard, h.ListLeads)...)
	users.Get("/webhook", guarded(ownerGuard, h.GetWebhook)...)
	users.Put("/webhook", guarded(ownerGuard, h.PutWebhook)...)

	router.Post("/webhooks/:webhookId", response.RequireJSONBody(), h.IngestLead)
}

// ListLeads handles GET /users/:userId/leads.
func (h *LeadHandler) ListLeads(c *fiber.Ctx) error {
	page, err := h.leads.ParsePageQuery(c.Queries())
	if err != nil {
		return err
	}

	leads, err := h.leads.ListLeads(c.UserContext(), userIDParam(c), page)
	if err != nil {
		return err
	}
	return response.OK(c, NewLeadListResponse(leads))
}

// GetWebhook handles GET /users/:userId/webhook. The data is null until a
// token has been issued.
func (h *LeadHandler) GetWebhook(c *fiber.Ctx) error {
	token, err := h.webhooks.GetWebhookID(c.UserContext(), userIDParam(c))
	if err != nil {
		return err
	}
	if token == "" {
		return response.OK(c, nil)
	}
	return response.OK(c, token)
}

// PutWebhook handles PUT /users/:userId/webhook.
func (h *LeadHandler) PutWebhook(c *fiber.Ctx) error {
	token, err := h.webhooks.IssueOrRotate(c.UserContext(), userIDParam(c))
	if err != nil {
		return err
	}
	return response.OK(c, WebhookResponse{WebhookID: token})
}

// IngestLead handles POST /webhooks/:webhookId. An empty body reaches the
// pipeline as a nil payload and fails validation there.
func (h *LeadHandler) IngestLead(c *fiber.Ctx) error {
	var payload interface{}
	if body := c.Body(); len(body) > 0 {
		if err := c.App().Config().JSONDecoder(body, &payload); err != nil {
			h.log.WithContext(c.UserContext()).Debugf("failed to decode webhook body: %v", err)
			return apperrors.NewValidationError(response.MsgInvalidJSON).WithCode("INVALID_JSON")
		}
	}

	accepted, err := h.ingestion.Ingest(c.UserContext(), utils.CopyString(c.Params("webhookId")), payload)
	if err != nil {
		return err
	}
	return response.OK(c, accepted)
}

func guarded(guard fiber.Handler, handler fiber.Handler) []fiber.Handler {
	if guard == nil {
		return []fiber.Handler{handler}
	}
	return []fiber.Handler{guard, handler}
}

// userIDParam copies the path parameter so it outlives the request buffer.
func userIDParam(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("userId"))
}
