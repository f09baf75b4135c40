package service

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/putuyoga/privyr-lead/internal/leads/domain/model"

	"github.com/go-playground/validator/v10"
)

// PhonePattern accepts an optional leading plus followed by digits only.
var PhonePattern = regexp.MustCompile(`^\+?\d+$`)

// serverManagedKeys may appear in a payload but are always overwritten.
var serverManagedKeys = map[string]struct{}{
	"webhookId": {},
	"createdAt": {},
}

type stringField struct {
	key         string
	structField string
	assign      func(in *model.LeadInput, v string)
}

// Checked in this order; the first violation wins.
var stringFields = []stringField{
	{key: "name", structField: "Name", assign: func(in *model.LeadInput, v string) { in.Name = v }},
	{key: "email", structField: "Email", assign: func(in *model.LeadInput, v string) { in.Email = v }},
	{key: "phone", structField: "Phone", assign: func(in *model.LeadInput, v string) { in.Phone = v }},
}

// LeadValidator enforces the shape of inbound lead payloads. It does not look
// at existing leads.
type LeadValidator struct {
	validate *validator.Validate
}

// NewLeadValidator builds a validator with the custom phone rule registered.
func NewLeadValidator() *LeadValidator {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return PhonePattern.MatchString(fl.Field().String())
	})
	return &LeadValidator{validate: v}
}

// Validate checks a decoded JSON payload and returns the accepted input or a
// *model.LeadValidationError describing the first violated rule.
func (lv *LeadValidator) Validate(payload interface{}) (*model.LeadInput, error) {
	obj, ok := payload.(map[string]interface{})
	if !ok {
		return nil, violation("value", "object", payload, `"value" must be of type object`)
	}

	in := &model.LeadInput{}
	for _, f := range stringFields {
		raw, present := obj[f.key]
		if !present {
			return nil, violation(f.key, "required", nil, fmt.Sprintf("%q is required", f.key))
		}
		s, ok := raw.(string)
		if !ok {
			return nil, violation(f.key, "string", raw, fmt.Sprintf("%q must be a string", f.key))
		}
		if s == "" {
			return nil, violation(f.key, "empty", s, fmt.Sprintf("%q is not allowed to be empty", f.key))
		}
		f.assign(in, s)
		if err := lv.validate.StructPartial(in, f.structField); err != nil {
			return nil, ruleViolation(f.key, s, err)
		}
	}

	if raw, present := obj["other"]; present {
		other, ok := raw.(map[string]interface{})
		if !ok {
			return nil, violation("other", "object", raw, `"other" must be of type object`)
		}
		in.Other = other
		if err := lv.validate.StructPartial(in, "Other"); err != nil {
			return nil, ruleViolation("other", other, err)
		}
	}

	if key, found := firstUnknownKey(obj); found {
		return nil, violation(key, "unknown", obj[key], fmt.Sprintf("%q is not allowed", key))
	}

	return in, nil
}

func firstUnknownKey(obj map[string]interface{}) (string, bool) {
	unknown := make([]string, 0)
	for key := range obj {
		switch key {
		case "name", "email", "phone", "other":
			continue
		}
		if _, managed := serverManagedKeys[key]; managed {
			continue
		}
		unknown = append(unknown, key)
	}
	if len(unknown) == 0 {
		return "", false
	}
	sort.Strings(unknown)
	return unknown[0], true
}

func ruleViolation(key string, value interface{}, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return violation(key, "invalid", value, fmt.Sprintf("%q is invalid", key))
	}

	tag := verrs[0].Tag()
	switch {
	case key == "other" && tag == "min":
		return violation(key, "min", value, `"other" must have at least 1 key`)
	case tag == "min":
		return violation(key, "min", value, fmt.Sprintf("%q length must be at least %s characters long", key, verrs[0].Param()))
	case tag == "email":
		return violation(key, "email", value, fmt.Sprintf("%q must be a valid email", key))
	case tag == "phone":
		return violation(key, "pattern", value,
			fmt.Sprintf("%q with value %q fails to match the required pattern: /%s/", key, value, PhonePattern.String()))
	}
	return violation(key, tag, value, fmt.Sprintf("%q failed on the %s rule", key, tag))
}

func violation(field, rule string, value interface{}, message string) *model.LeadValidationError {
	return &model.LeadValidationError{
		Field:   field,
		Rule:    rule,
		Value:   value,
		Message: message,
	}
}
