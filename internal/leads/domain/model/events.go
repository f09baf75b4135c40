package model

// EventTypeLeadCaptured is published after a lead has been persisted.
const EventTypeLeadCaptured = "lead.captured"

// LeadCapturedEvent is the payload of EventTypeLeadCaptured.
type LeadCapturedEvent struct {
	UserID string
	Lead   *Lead
}
