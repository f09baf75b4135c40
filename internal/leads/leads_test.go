package leads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/putuyoga/privyr-lead/internal/leads/adapter/persistence/memory"
	"github.com/putuyoga/privyr-lead/internal/leads/config"
	"github.com/putuyoga/privyr-lead/internal/leads/domain/model"
	"github.com/putuyoga/privyr-lead/internal/shared/eventbus"
	"github.com/putuyoga/privyr-lead/internal/shared/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	*memory.LeadStore
}

func (failingStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestNewLeadsModule_RequiresDependencies(t *testing.T) {
	_, err := NewLeadsModule(nil, memory.NewLeadStore(), nil, nil)
	assert.Error(t, err)

	_, err = NewLeadsModule(config.DefaultLeadsConfig(), nil, nil, nil)
	assert.Error(t, err)
}

func TestLeadsModule_EndToEnd(t *testing.T) {
	cfg := config.DefaultLeadsConfig()
	store := memory.NewLeadStore()
	module, err := NewLeadsModule(cfg, store, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, module.Cache)
	require.NoError(t, module.HealthCheck(context.Background()))

	var captured []model.LeadCapturedEvent
	module.EventBus.Subscribe(model.EventTypeLeadCaptured, func(ctx context.Context, event eventbus.Event) error {
		captured = append(captured, event.Data().(model.LeadCapturedEvent))
		return nil
	})

	app := fiber.New(fiber.Config{ErrorHandler: response.ErrorHandler(nil)})
	module.RegisterRoutes(app, nil)

	resp, err := app.Test(httptest.NewRequest("PUT", "/api/v1/users/u1/webhook", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var issued struct {
		Data struct {
			WebhookID string `json:"webhookId"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&issued))

	req := httptest.NewRequest("POST", "/api/v1/webhooks/"+issued.Data.WebhookID,
		strings.NewReader(`{"name":"Jane","email":"jane@example.com","phone":"+6281"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	assert.Equal(t, 1, store.LeadCount("u1"))
	require.Len(t, captured, 1)
	assert.Equal(t, "u1", captured[0].UserID)
	assert.Equal(t, "jane@example.com", captured[0].Lead.Email)
}

func TestLeadsModule_HealthCheckReportsStoreFailure(t *testing.T) {
	module, err := NewLeadsModule(config.DefaultLeadsConfig(), failingStore{memory.NewLeadStore()}, nil, nil)
	require.NoError(t, err)

	err = module.HealthCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lead store health check failed")
}
