package usecase_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/putuyoga/privyr-lead/internal/leads/domain/model"

	"github.com/stretchr/testify/mock"
)

// Mock lead store
type mockLeadStore struct {
	mock.Mock
}

func (m *mockLeadStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockLeadStore) UpsertUser(ctx context.Context, userID, webhookID string) (*model.User, error) {
	args := m.Called(ctx, userID, webhookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockLeadStore) QueryUsersByWebhookID(ctx context.Context, webhookID string) ([]*model.User, error) {
	args := m.Called(ctx, webhookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *mockLeadStore) QueryLeadsByField(ctx context.Context, userID string, field model.LeadField, value string) ([]*model.Lead, error) {
	args := m.Called(ctx, userID, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Lead), args.Error(1)
}

func (m *mockLeadStore) InsertLead(ctx context.Context, userID string, lead *model.Lead) (*model.Lead, error) {
	args := m.Called(ctx, userID, lead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *mockLeadStore) QueryLeadsPage(ctx context.Context, userID string, page model.PageRequest) ([]*model.Lead, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Lead), args.Error(1)
}

func (m *mockLeadStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Mock webhook cache
type mockWebhookCache struct {
	mock.Mock
}

func (m *mockWebhookCache) Get(ctx context.Context, webhookID string) (string, bool, error) {
	args := m.Called(ctx, webhookID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockWebhookCache) Set(ctx context.Context, webhookID, userID string) error {
	args := m.Called(ctx, webhookID, userID)
	return args.Error(0)
}

func (m *mockWebhookCache) Delete(ctx context.Context, webhookID string) error {
	args := m.Called(ctx, webhookID)
	return args.Error(0)
}

// sequenceGenerator hands out tokens from a fixed list, then numbered ones.
type sequenceGenerator struct {
	mu     sync.Mutex
	tokens []string
	n      int
	err    error
}

func (g *sequenceGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	g.n++
	if g.n <= len(g.tokens) {
		return g.tokens[g.n-1], nil
	}
	return fmt.Sprintf("token-%d", g.n), nil
}
