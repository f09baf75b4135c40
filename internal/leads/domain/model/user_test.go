package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_HasWebhook(t *testing.T) {
	var missing *User
	assert.False(t, missing.HasWebhook())
	assert.False(t, (&User{ID: "u1"}).HasWebhook())
	assert.True(t, (&User{ID: "u1", WebhookID: "hook"}).HasWebhook())
}
