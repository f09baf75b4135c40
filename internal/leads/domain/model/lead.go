package model

import "time"

// LeadField names a lead attribute that is subject to uniqueness within a user.
type LeadField string

const (
	LeadFieldEmail LeadField = "email"
	LeadFieldPhone LeadField = "phone"
)

// Lead is a contact record captured through a user's webhook.
type Lead struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	Phone     string
	Other     map[string]interface{}
	WebhookID string
	CreatedAt time.Time
}

// LeadInput is the validated shape of an inbound lead payload.
type LeadInput struct {
	Name  string `json:"name" validate:"min=2"`
	Email string `json:"email" validate:"email"`
	Phone string `json:"phone" validate:"phone"`
	// Other is only validated when the payload carries it.
	Other map[string]interface{} `json:"other,omitempty" validate:"min=1"`
}

// NewLead builds the lead to persist for userID. The webhook id always comes
// from the inbound token.
func NewLead(userID, webhookID string, in *LeadInput) *Lead {
	return &Lead{
		UserID:    userID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Other:     in.Other,
		WebhookID: webhookID,
	}
}

// Value returns the value of a unique field.
func (l *Lead) Value(field LeadField) string {
	switch field {
	case LeadFieldEmail:
		return l.Email
	case LeadFieldPhone:
		return l.Phone
	}
	return ""
}
