package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuplicateError_MatchesSentinels(t *testing.T) {
	emailDup := &DuplicateError{Field: LeadFieldEmail}
	assert.ErrorIs(t, emailDup, ErrDuplicateEmail)
	assert.NotErrorIs(t, emailDup, ErrDuplicatePhone)

	wrapped := fmt.Errorf("insert: %w", &DuplicateError{Field: LeadFieldPhone})
	assert.ErrorIs(t, wrapped, ErrDuplicatePhone)
}

func TestDuplicateFieldOf(t *testing.T) {
	field, ok := DuplicateFieldOf(fmt.Errorf("x: %w", &DuplicateError{Field: LeadFieldPhone}))
	assert.True(t, ok)
	assert.Equal(t, LeadFieldPhone, field)

	field, ok = DuplicateFieldOf(ErrDuplicateEmail)
	assert.True(t, ok)
	assert.Equal(t, LeadFieldEmail, field)

	_, ok = DuplicateFieldOf(errors.New("other"))
	assert.False(t, ok)
}

func TestLead_Value(t *testing.T) {
	l := NewLead("u1", "hook", &LeadInput{Name: "Jo", Email: "jo@example.com", Phone: "123"})
	assert.Equal(t, "jo@example.com", l.Value(LeadFieldEmail))
	assert.Equal(t, "123", l.Value(LeadFieldPhone))
	assert.Equal(t, "hook", l.WebhookID)
	assert.Equal(t, "u1", l.UserID)
}
