package model

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrWebhookNotFound = errors.New("webhook not found")
	ErrDuplicateEmail  = errors.New("duplicate lead email")
	ErrDuplicatePhone  = errors.New("duplicate lead phone")
	ErrWebhookIDTaken  = errors.New("webhook id already assigned")
)

// LeadValidationError reports the first rule an inbound payload violated.
type LeadValidationError struct {
	Field   string      `json:"field"`
	Rule    string      `json:"rule"`
	Value   interface{} `json:"value,omitempty"`
	Message string      `json:"-"`
}

func (e *LeadValidationError) Error() string {
	return e.Message
}

// DuplicateError reports which unique field collided.
type DuplicateError struct {
	Field LeadField
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("lead with the same %s already exists", e.Field)
}

// Is lets callers match against the field specific sentinels.
func (e *DuplicateError) Is(target error) bool {
	switch target {
	case ErrDuplicateEmail:
		return e.Field == LeadFieldEmail
	case ErrDuplicatePhone:
		return e.Field == LeadFieldPhone
	}
	return false
}

// DuplicateFieldOf extracts the colliding field from a store error.
func DuplicateFieldOf(err error) (LeadField, bool) {
	var dup *DuplicateError
	if errors.As(err, &dup) {
		return dup.Field, true
	}
	switch {
	case errors.Is(err, ErrDuplicateEmail):
		return LeadFieldEmail, true
	case errors.Is(err, ErrDuplicatePhone):
		return LeadFieldPhone, true
	}
	return "", false
}
