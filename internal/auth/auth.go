package auth

import (
	"fmt"

	authhttp "github.com/putuyoga/privyr-lead/internal/auth/adapter/http"
	"github.com/putuyoga/privyr-lead/internal/auth/adapter/security"
	"github.com/putuyoga/privyr-lead/internal/auth/config"
	"github.com/putuyoga/privyr-lead/internal/auth/domain/repository"

	"github.com/gofiber/fiber/v2"
)

// AuthModule protects owner routes. A module built from a config without a
// secret lets every request through.
type AuthModule struct {
	tokenSvc   repository.TokenService
	middleware *authhttp.AuthMiddleware
	config     *config.Config
}

// NewAuthModule creates a new authentication module instance
func NewAuthModule(cfg *config.Config) (*AuthModule, error) {
	module := &AuthModule{config: cfg}
	if !cfg.Enabled() {
		return module, nil
	}

	tokenSvc, err := security.NewJWTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}
	module.tokenSvc = tokenSvc
	module.middleware = authhttp.NewAuthMiddleware(tokenSvc)
	return module, nil
}

// Enabled reports whether owner routes require a token.
func (am *AuthModule) Enabled() bool {
	return am.middleware != nil
}

// OwnerGuard returns middleware requiring the caller to own the user id in
// route parameter param.
func (am *AuthModule) OwnerGuard(param string) fiber.Handler {
	if !am.Enabled() {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return am.middleware.RequireOwner(param)
}

// GetTokenService returns the token service, or nil when disabled.
func (am *AuthModule) GetTokenService() repository.TokenService {
	return am.tokenSvc
}
