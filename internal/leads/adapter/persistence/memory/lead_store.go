package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/putuyoga/privyr-lead/internal/leads/domain/model"

	"github.com/google/uuid"
)

// LeadStore keeps users and leads in process memory. It provides the same
// uniqueness guarantees as the MongoDB store and is used by tests and by
// STORE_DRIVER=memory. Strings are cloned on write since callers may pass
// views into reused request buffers.
type LeadStore struct {
	mu    sync.RWMutex
	users map[string]*model.User
	leads map[string][]*model.Lead // userID -> leads in insertion order
	last  time.Time

	// Now is the clock used for server-assigned timestamps.
	Now func() time.Time
}

// NewLeadStore returns an empty store.
func NewLeadStore() *LeadStore {
	return &LeadStore{
		users: make(map[string]*model.User),
		leads: make(map[string][]*model.Lead),
		Now:   func() time.Time { return time.Now().UTC() },
	}
}

// nextTimestamp returns a strictly increasing timestamp. Callers hold mu.
func (s *LeadStore) nextTimestamp() time.Time {
	now := s.Now()
	if !now.After(s.last) {
		now = s.last.Add(time.Nanosecond)
	}
	s.last = now
	return now
}

func (s *LeadStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *LeadStore) UpsertUser(ctx context.Context, userID, webhookID string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, u := range s.users {
		if webhookID != "" && id != userID && u.WebhookID == webhookID {
			return nil, model.ErrWebhookIDTaken
		}
	}

	u := &model.User{ID: strings.Clone(userID), WebhookID: strings.Clone(webhookID), CreatedAt: s.nextTimestamp()}
	s.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (s *LeadStore) QueryUsersByWebhookID(ctx context.Context, webhookID string) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.User, 0)
	for _, u := range s.users {
		if u.WebhookID == webhookID {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *LeadStore) QueryLeadsByField(ctx context.Context, userID string, field model.LeadField, value string) ([]*model.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Lead, 0)
	for _, l := range s.leads[userID] {
		if l.Value(field) == value {
			out = append(out, cloneLead(l))
		}
	}
	return out, nil
}

func (s *LeadStore) InsertLead(ctx context.Context, userID string, lead *model.Lead) (*model.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, field := range []model.LeadField{model.LeadFieldEmail, model.LeadFieldPhone} {
		for _, existing := range s.leads[userID] {
			if existing.Value(field) == lead.Value(field) {
				return nil, &model.DuplicateError{Field: field}
			}
		}
	}

	stored := cloneLead(lead)
	stored.ID = uuid.NewString()
	stored.UserID = strings.Clone(userID)
	stored.Name = strings.Clone(lead.Name)
	stored.Email = strings.Clone(lead.Email)
	stored.Phone = strings.Clone(lead.Phone)
	stored.WebhookID = strings.Clone(lead.WebhookID)
	stored.CreatedAt = s.nextTimestamp()
	s.leads[stored.UserID] = append(s.leads[stored.UserID], stored)
	return cloneLead(stored), nil
}

func (s *LeadStore) QueryLeadsPage(ctx context.Context, userID string, page model.PageRequest) ([]*model.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*model.Lead, 0, len(s.leads[userID]))
	for _, l := range s.leads[userID] {
		if page.Contains(l.CreatedAt) {
			all = append(all, l)
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if page.Limit > 0 && len(all) > page.Limit {
		all = all[:page.Limit]
	}
	out := make([]*model.Lead, len(all))
	for i, l := range all {
		out[i] = cloneLead(l)
	}
	return out, nil
}

func (s *LeadStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// LeadCount reports how many leads a user has.
func (s *LeadStore) LeadCount(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leads[userID])
}

func cloneLead(l *model.Lead) *model.Lead {
	cp := *l
	if l.Other != nil {
		cp.Other = make(map[string]interface{}, len(l.Other))
		for k, v := range l.Other {
			cp.Other[k] = v
		}
	}
	return &cp
}
