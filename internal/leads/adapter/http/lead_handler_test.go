package http_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	leadhttp "github.com/putuyoga/privyr-lead/internal/leads/adapter/http"
	"github.com/putuyoga/privyr-lead/internal/leads/adapter/persistence/memory"
	"github.com/putuyoga/privyr-lead/internal/leads/domain/service"
	"github.com/putuyoga/privyr-lead/internal/leads/usecase"
	"github.com/putuyoga/privyr-lead/internal/shared/eventbus"
	"github.com/putuyoga/privyr-lead/internal/shared/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type envelope struct {
	Success bool                   `json:"success"`
	Data    json.RawMessage        `json:"data"`
	Message string                 `json:"message"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details"`
}

// newTestApp wires the handlers the way the leads module does, on top of the
// in-memory store.
func newTestApp(store *memory.LeadStore, bus eventbus.EventBusInterface) *fiber.App {
	resolver := usecase.NewWebhookResolver(store, nil, nil)
	handler := leadhttp.NewLeadHandler(
		usecase.NewIngestionUsecase(store, resolver, service.NewLeadValidator(), bus, nil),
		usecase.NewLeadQueryUsecase(store, usecase.DefaultPageSize, nil),
		usecase.NewWebhookUsecase(store, service.NewNanoIDGenerator(), nil, usecase.DefaultWebhookIDRetries, nil),
		nil,
	)

	app := fiber.New(fiber.Config{ErrorHandler: response.ErrorHandler(nil)})
	handler.RegisterRoutes(app.Group("/api/v1"), nil)
	return app
}

type LeadHandlerTestSuite struct {
	suite.Suite
	store *memory.LeadStore
	app   *fiber.App
}

func (s *LeadHandlerTestSuite) SetupTest() {
	s.store = memory.NewLeadStore()
	s.app = newTestApp(s.store, nil)
}

func (s *LeadHandlerTestSuite) do(method, path, body string) (int, envelope) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	s.Require().NoError(err)

	var env envelope
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (s *LeadHandlerTestSuite) issueToken(userID string) string {
	status, env := s.do(http.MethodPut, "/api/v1/users/"+userID+"/webhook", "")
	s.Require().Equal(http.StatusOK, status)

	var data leadhttp.WebhookResponse
	s.Require().NoError(json.Unmarshal(env.Data, &data))
	s.Require().Len(data.WebhookID, 21)
	return data.WebhookID
}

func (s *LeadHandlerTestSuite) TestWebhookLifecycle() {
	status, env := s.do(http.MethodGet, "/api/v1/users/u1/webhook", "")
	s.Equal(http.StatusNotFound, status)
	s.False(env.Success)
	s.Equal("user with id 'u1' does not exist", env.Message)

	first := s.issueToken("u1")

	status, env = s.do(http.MethodGet, "/api/v1/users/u1/webhook", "")
	s.Equal(http.StatusOK, status)
	s.True(env.Success)
	s.JSONEq(`"`+first+`"`, string(env.Data))

	second := s.issueToken("u1")
	s.NotEqual(first, second)

	status, env = s.do(http.MethodPost, "/api/v1/webhooks/"+first, `{"name":"Jane","email":"jane@example.com","phone":"+6281"}`)
	s.Equal(http.StatusNotFound, status)
	s.Equal("Webhook does not exist", env.Message)
}

func (s *LeadHandlerTestSuite) TestIngestAndList() {
	token := s.issueToken("u1")

	status, env := s.do(http.MethodPost, "/api/v1/webhooks/"+token,
		`{"name":"Jane","email":"jane@example.com","phone":"+6281","other":{"source":"fb"},"webhookId":"forged"}`)
	s.Require().Equal(http.StatusOK, status)
	s.True(env.Success)
	s.JSONEq(`{"name":"Jane","email":"jane@example.com","phone":"+6281","other":{"source":"fb"}}`, string(env.Data))

	status, _ = s.do(http.MethodPost, "/api/v1/webhooks/"+token, `{"name":"John","email":"john@example.com","phone":"+6282"}`)
	s.Require().Equal(http.StatusOK, status)

	status, env = s.do(http.MethodGet, "/api/v1/users/u1/leads", "")
	s.Require().Equal(http.StatusOK, status)

	var leads []map[string]interface{}
	s.Require().NoError(json.Unmarshal(env.Data, &leads))
	s.Require().Len(leads, 2)
	s.Equal("John", leads[0]["name"])
	s.Equal("Jane", leads[1]["name"])
	s.Equal(token, leads[1]["webhookId"])
	s.Equal(map[string]interface{}{"source": "fb"}, leads[1]["other"])
	s.NotContains(leads[0], "other")

	createdAt := leads[0]["createdAt"].(map[string]interface{})
	s.Contains(createdAt, "_seconds")
	s.Contains(createdAt, "_nanoseconds")

	status, env = s.do(http.MethodGet, "/api/v1/users/u1/leads?limit=1", "")
	s.Require().Equal(http.StatusOK, status)
	s.Require().NoError(json.Unmarshal(env.Data, &leads))
	s.Require().Len(leads, 1)
	s.Equal("John", leads[0]["name"])
}

func (s *LeadHandlerTestSuite) TestListEmpty() {
	s.issueToken("u1")

	status, env := s.do(http.MethodGet, "/api/v1/users/u1/leads", "")
	s.Equal(http.StatusOK, status)
	s.JSONEq(`[]`, string(env.Data))
}

func (s *LeadHandlerTestSuite) TestIngestRejections() {
	token := s.issueToken("u1")
	valid := `{"name":"Jane","email":"jane@example.com","phone":"+6281"}`
	status, _ := s.do(http.MethodPost, "/api/v1/webhooks/"+token, valid)
	s.Require().Equal(http.StatusOK, status)

	tests := []struct {
		name    string
		body    string
		status  int
		message string
		field   string
	}{
		{"duplicate email", valid, http.StatusConflict, "Email already exists", "email"},
		{"duplicate phone", `{"name":"Jane","email":"other@example.com","phone":"+6281"}`, http.StatusConflict, "Phone already exists", "phone"},
		{"short name", `{"name":"J","email":"j@example.com","phone":"1"}`, http.StatusBadRequest, `"name" length must be at least 2 characters long`, "name"},
		{"unknown key", `{"name":"Jo","email":"j@example.com","phone":"1","age":3}`, http.StatusBadRequest, `"age" is not allowed`, "age"},
		{"array body", `[1]`, http.StatusBadRequest, `"value" must be of type object`, "value"},
		{"empty body", ``, http.StatusBadRequest, `"value" must be of type object`, "value"},
		{"malformed json", `{"name":`, http.StatusBadRequest, response.MsgInvalidJSON, ""},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			status, env := s.do(http.MethodPost, "/api/v1/webhooks/"+token, tt.body)
			s.Equal(tt.status, status)
			s.False(env.Success)
			s.Equal(tt.message, env.Message)
			if tt.field != "" {
				s.Equal(tt.field, env.Details["field"])
			}
		})
	}

	s.Equal(1, s.store.LeadCount("u1"))
}

func (s *LeadHandlerTestSuite) TestListQueryErrors() {
	s.issueToken("u1")

	tests := []struct {
		query   string
		status  int
		message string
	}{
		{"after=abc", http.StatusBadRequest, `"after" with value "abc" fails to match the required pattern: /^\d+:\d+$/`},
		{"after=1:1000000000", http.StatusBadRequest, `"after" with value "1:1000000000" is out of range`},
		{"limit=0", http.StatusBadRequest, `"limit" must be greater than or equal to 1`},
		{"limit=x", http.StatusBadRequest, `"limit" must be a number`},
		{"sort=asc", http.StatusBadRequest, `"sort" is not allowed`},
	}

	for _, tt := range tests {
		s.Run(tt.query, func() {
			status, env := s.do(http.MethodGet, "/api/v1/users/u1/leads?"+tt.query, "")
			s.Equal(tt.status, status)
			s.Equal(tt.message, env.Message)
		})
	}

	status, env := s.do(http.MethodGet, "/api/v1/users/nobody/leads", "")
	s.Equal(http.StatusNotFound, status)
	s.Equal("user with id 'nobody' does not exist", env.Message)
}

func (s *LeadHandlerTestSuite) TestPathParamsOutliveRequest() {
	token := s.issueToken("alice")

	// Same-length ids make a reused request buffer overwrite the earlier one.
	status, env := s.do(http.MethodGet, "/api/v1/users/zzzzz/webhook", "")
	s.Equal(http.StatusNotFound, status)
	s.Equal("user with id 'zzzzz' does not exist", env.Message)

	status, env = s.do(http.MethodGet, "/api/v1/users/alice/webhook", "")
	s.Require().Equal(http.StatusOK, status)
	s.JSONEq(`"`+token+`"`, string(env.Data))

	for i := 0; i < 5; i++ {
		body := fmt.Sprintf(`{"name":"Lead %d","email":"l%d@example.com","phone":"+%d"}`, i, i, i)
		status, _ = s.do(http.MethodPost, "/api/v1/webhooks/"+token, body)
		s.Require().Equal(http.StatusOK, status)
		status, _ = s.do(http.MethodGet, "/api/v1/users/bobby/leads", "")
		s.Require().Equal(http.StatusNotFound, status)
	}

	status, env = s.do(http.MethodGet, "/api/v1/users/alice/leads?limit=10", "")
	s.Require().Equal(http.StatusOK, status)

	var leads []leadhttp.LeadResponse
	s.Require().NoError(json.Unmarshal(env.Data, &leads))
	s.Require().Len(leads, 5)
	for _, l := range leads {
		s.Equal(token, l.WebhookID)
	}
}

func TestLeadHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(LeadHandlerTestSuite))
}

func TestRegisterRoutes_OwnerGuard(t *testing.T) {
	store := memory.NewLeadStore()
	resolver := usecase.NewWebhookResolver(store, nil, nil)
	handler := leadhttp.NewLeadHandler(
		usecase.NewIngestionUsecase(store, resolver, service.NewLeadValidator(), nil, nil),
		usecase.NewLeadQueryUsecase(store, usecase.DefaultPageSize, nil),
		usecase.NewWebhookUsecase(store, service.NewNanoIDGenerator(), nil, 1, nil),
		nil,
	)

	app := fiber.New(fiber.Config{ErrorHandler: response.ErrorHandler(nil)})
	handler.RegisterRoutes(app, func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusForbidden, "blocked "+c.Params("userId"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPut, "/users/u1/webhook", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, store.LeadCount("u1"))

	// Ingestion stays public.
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/webhooks/unknown", strings.NewReader(`{}`)))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
