package http

import (
	"time"

	"github.com/putuyoga/privyr-lead/internal/leads/domain/model"
)

// TimestampResponse is the wire form of a lead timestamp.
type TimestampResponse struct {
	Seconds     int64 `json:"_seconds"`
	Nanoseconds int64 `json:"_nanoseconds"`
}

// LeadResponse is the wire form of a stored lead.
type LeadResponse struct {
	Name      string                 `json:"name"`
	Email     string                 `json:"email"`
	Phone     string                 `json:"phone"`
	Other     map[string]interface{} `json:"other,omitempty"`
	WebhookID string                 `json:"webhookId"`
	CreatedAt TimestampResponse      `json:"createdAt"`
}

// WebhookResponse is returned after issuing or rotating a webhook token.
type WebhookResponse struct {
	WebhookID string `json:"webhookId"`
}

// StreamMessage is a frame written to live feed subscribers.
type StreamMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func newTimestampResponse(t time.Time) TimestampResponse {
	return TimestampResponse{Seconds: t.Unix(), Nanoseconds: int64(t.Nanosecond())}
}

// NewLeadResponse converts a lead to its wire form.
func NewLeadResponse(l *model.Lead) LeadResponse {
	return LeadResponse{
		Name:      l.Name,
		Email:     l.Email,
		Phone:     l.Phone,
		Other:     l.Other,
		WebhookID: l.WebhookID,
		CreatedAt: newTimestampResponse(l.CreatedAt),
	}
}

// NewLeadListResponse converts leads keeping their order. It never returns nil
// so an empty page encodes as [].
func NewLeadListResponse(leads []*model.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, NewLeadResponse(l))
	}
	return out
}
