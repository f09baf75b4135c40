package response

import (
	"encoding/json"

	apperrors "github.com/putuyoga/privyr-lead/internal/shared/errors"
	"github.com/putuyoga/privyr-lead/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

const requestIDLocal = "requestid"

// RequestID assigns an X-Request-ID to every request, keeping one supplied by
// the caller.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: requestIDLocal,
	})
}

// RequestContext lifts the request id into the user context. It must run
// after RequestID.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rid, ok := c.Locals(requestIDLocal).(string); ok && rid != "" {
			c.SetUserContext(utils.WithRequestID(c.UserContext(), rid))
		}
		return c.Next()
	}
}

// RequireJSONBody rejects non-empty bodies that are not well-formed JSON
// before they reach a handler.
func RequireJSONBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := c.Body()
		if len(body) > 0 && !json.Valid(body) {
			return apperrors.NewValidationError(MsgInvalidJSON).WithCode("INVALID_JSON")
		}
		return c.Next()
	}
}
