package http

import (
	"errors"
	"strings"

	"github.com/putuyoga/privyr-lead/internal/auth/domain/model"
	"github.com/putuyoga/privyr-lead/internal/auth/domain/repository"
	apperrors "github.com/putuyoga/privyr-lead/internal/shared/errors"
	"github.com/putuyoga/privyr-lead/internal/shared/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const (
	bearerPrefix = "Bearer "
	// tokenQueryParam carries the token for WebSocket clients, which cannot
	// set headers during the upgrade.
	tokenQueryParam = "access_token"
)

// AuthMiddleware guards owner routes with bearer tokens.
type AuthMiddleware struct {
	tokens repository.TokenService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokens repository.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireOwner returns middleware that requires a valid token whose subject
// equals the route parameter named param.
func (m *AuthMiddleware) RequireOwner(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := extractToken(c)
		if err != nil {
			return apperrors.NewAuthenticationError("Authentication required").WithCause(err)
		}

		claims, err := m.tokens.ValidateToken(c.UserContext(), token)
		if err != nil {
			message := "Invalid token"
			if errors.Is(err, model.ErrTokenExpired) {
				message = "Token expired"
			}
			return apperrors.NewAuthenticationError(message).WithCause(err)
		}

		if claims.UserID() != c.Params(param) {
			return apperrors.NewAuthorizationError("Access denied").WithCause(model.ErrNotOwner)
		}

		c.SetUserContext(utils.WithUserID(c.UserContext(), claims.UserID()))
		return c.Next()
	}
}

// extractToken reads the bearer token from the Authorization header or, for
// WebSocket upgrades, from the access_token query parameter.
func extractToken(c *fiber.Ctx) (string, error) {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		if !strings.HasPrefix(header, bearerPrefix) {
			return "", model.ErrTokenInvalid
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if token == "" {
			return "", model.ErrTokenMissing
		}
		return token, nil
	}

	if websocket.IsWebSocketUpgrade(c) {
		if token := c.Query(tokenQueryParam); token != "" {
			return token, nil
		}
	}
	return "", model.ErrTokenMissing
}
