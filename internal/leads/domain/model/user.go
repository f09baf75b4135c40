package model

import "time"

// User owns a webhook token and a collection of leads. The record is created
// implicitly the first time a webhook token is issued for the id.
type User struct {
	ID string `json:"id" bson:"_id"`
	// WebhookID is empty until a token has been issued.
	WebhookID string    `json:"webhookId,omitempty" bson:"webhookId,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// HasWebhook reports whether a token has ever been issued for the user.
func (u *User) HasWebhook() bool {
	return u != nil && u.WebhookID != ""
}
