package usecase

import (
	"context"
	"fmt"

	"github.com/putuyoga/privyr-lead/internal/leads/domain/model"
	"github.com/putuyoga/privyr-lead/internal/leads/domain/repository"
)

// DuplicateResult tells whether a lead collides with an existing one and on
// which field.
type DuplicateResult struct {
	Duplicate bool
	Field     model.LeadField
}

// DuplicateChecker looks for existing leads of a user sharing an email or a
// phone number. Email is checked first and a match skips the phone query.
type DuplicateChecker struct {
	store repository.LeadStore
}

func NewDuplicateChecker(store repository.LeadStore) *DuplicateChecker {
	return &DuplicateChecker{store: store}
}

// Check queries the user's leads by email, then by phone.
func (c *DuplicateChecker) Check(ctx context.Context, userID, email, phone string) (DuplicateResult, error) {
	checks := []struct {
		field model.LeadField
		value string
	}{
		{model.LeadFieldEmail, email},
		{model.LeadFieldPhone, phone},
	}

	for _, check := range checks {
		found, err := c.store.QueryLeadsByField(ctx, userID, check.field, check.value)
		if err != nil {
			return DuplicateResult{}, fmt.Errorf("check duplicate %s: %w", check.field, err)
		}
		if len(found) > 0 {
			return DuplicateResult{Duplicate: true, Field: check.field}, nil
		}
	}
	return DuplicateResult{}, nil
}
