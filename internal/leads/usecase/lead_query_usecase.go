package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/putuyoga/privyr-lead/internal/leads/domain/model"
	"github.com/putuyoga/privyr-lead/internal/leads/domain/repository"
	apperrors "github.com/putuyoga/privyr-lead/internal/shared/errors"
	"github.com/putuyoga/privyr-lead/internal/shared/logger"
	"github.com/putuyoga/privyr-lead/internal/shared/utils"
)

const (
	DefaultPageSize = 4

	queryAfter  = "after"
	queryBefore = "before"
	queryLimit  = "limit"

	cursorPatternText = `/^\d+:\d+$/`
)

// LeadQueryUsecase lists a user's leads, newest first.
type LeadQueryUsecase struct {
	store           repository.LeadStore
	defaultPageSize int
	logger          logger.Logger
}

func NewLeadQueryUsecase(store repository.LeadStore, defaultPageSize int, log logger.Logger) *LeadQueryUsecase {
	if defaultPageSize <= 0 {
		defaultPageSize = DefaultPageSize
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &LeadQueryUsecase{
		store:           store,
		defaultPageSize: defaultPageSize,
		logger:          log.WithComponent("lead_query"),
	}
}

// ParsePageQuery validates the raw query parameters of a list request.
// Violations are reported one at a time: after, before, limit, then the first
// unknown key in lexical order.
func (uc *LeadQueryUsecase) ParsePageQuery(query map[string]string) (model.PageRequest, error) {
	page := model.PageRequest{Limit: uc.defaultPageSize}

	for _, key := range []string{queryAfter, queryBefore} {
		raw, ok := query[key]
		if !ok {
			continue
		}
		cursor, err := model.ParseCursor(raw)
		if err != nil {
			return model.PageRequest{}, queryError(key, cursorMessage(key, raw, err))
		}
		if key == queryAfter {
			page.After = cursor
		} else {
			page.Before = cursor
		}
	}

	if raw, ok := query[queryLimit]; ok {
		limit, err := parseLimit(raw)
		if err != nil {
			return model.PageRequest{}, err
		}
		page.Limit = limit
	}

	unknown := make([]string, 0)
	for key := range query {
		switch key {
		case queryAfter, queryBefore, queryLimit:
		default:
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return model.PageRequest{}, queryError(unknown[0], fmt.Sprintf("%q is not allowed", unknown[0]))
	}

	return page, nil
}

// ListLeads returns one page of the user's leads. The user must exist.
func (uc *LeadQueryUsecase) ListLeads(ctx context.Context, userID string, page model.PageRequest) ([]*model.Lead, error) {
	ctx = utils.WithUserID(ctx, userID)
	ctx = utils.WithOperation(ctx, "list_leads")

	if page.Limit <= 0 {
		page.Limit = uc.defaultPageSize
	}

	if _, err := uc.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, userNotFound(userID)
		}
		uc.logger.WithContext(ctx).Errorf("store failure: %v", err)
		return nil, apperrors.NewStoreError(err)
	}

	leads, err := uc.store.QueryLeadsPage(ctx, userID, page)
	if err != nil {
		uc.logger.WithContext(ctx).Errorf("store failure: %v", err)
		return nil, apperrors.NewStoreError(err)
	}
	return leads, nil
}

func parseLimit(raw string) (int, error) {
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return 0, queryError(queryLimit, `"limit" must be a number`)
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, queryError(queryLimit, `"limit" must be an integer`)
	}
	if limit < 1 {
		return 0, queryError(queryLimit, `"limit" must be greater than or equal to 1`)
	}
	return limit, nil
}

func cursorMessage(key, raw string, err error) string {
	if errors.Is(err, model.ErrCursorOutOfRange) {
		return fmt.Sprintf("%q with value %q is out of range", key, raw)
	}
	return fmt.Sprintf("%q with value %q fails to match the required pattern: %s", key, raw, cursorPatternText)
}

func queryError(field, message string) error {
	return apperrors.NewValidationError(message).WithCode("INVALID_QUERY").WithDetail("field", field)
}

func userNotFound(userID string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("user with id '%s' does not exist", userID))
}
