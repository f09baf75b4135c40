package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/putuyoga/privyr-lead/internal/auth/config"
	"github.com/putuyoga/privyr-lead/internal/shared/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(module *AuthModule) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: response.ErrorHandler(nil)})
	app.Get("/users/:userId", module.OwnerGuard("userId"), func(c *fiber.Ctx) error {
		return response.OK(c, nil)
	})
	return app
}

func TestAuthModule_Disabled(t *testing.T) {
	module, err := NewAuthModule(&config.Config{AccessTokenTTL: time.Minute})
	require.NoError(t, err)
	assert.False(t, module.Enabled())
	assert.Nil(t, module.GetTokenService())

	resp, err := newApp(module).Test(httptest.NewRequest("GET", "/users/u1", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestAuthModule_Enabled(t *testing.T) {
	module, err := NewAuthModule(&config.Config{
		JWTSecretKey:   "test-secret-key-32-characters-long-12345",
		AccessTokenTTL: time.Minute,
	})
	require.NoError(t, err)
	require.True(t, module.Enabled())

	app := newApp(module)

	resp, err := app.Test(httptest.NewRequest("GET", "/users/u1", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	token, err := module.GetTokenService().GenerateToken(context.Background(), "u1")
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/users/u1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
