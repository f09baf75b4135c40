package response

import (
	"errors"

	apperrors "github.com/putuyoga/privyr-lead/internal/shared/errors"
	"github.com/putuyoga/privyr-lead/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// MsgInvalidJSON is returned for request bodies that are not valid JSON.
const MsgInvalidJSON = "Invalid JSON payload"

// SuccessResponse is the envelope of every successful response.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// ErrorResponse is the envelope of every failed response.
type ErrorResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// OK writes a 200 success envelope.
func OK(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(SuccessResponse{Success: true, Data: data})
}

// ErrorHandler renders any error returned by a handler or middleware as an
// error envelope. Unexpected errors are logged and reported generically.
func ErrorHandler(log logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return func(c *fiber.Ctx, err error) error {
		status, body := render(err)

		entry := log.WithContext(c.UserContext()).WithFields(map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
			"status": status,
		})
		switch {
		case apperrors.IsInfrastructure(err):
			entry.Errorf("store failure: %v", err)
		case status >= fiber.StatusInternalServerError:
			entry.Errorf("request failed: %v", err)
		case apperrors.IsAuthentication(err), apperrors.IsAuthorization(err):
			entry.Warnf("access denied: %v", err)
		case apperrors.IsValidation(err), apperrors.IsConflict(err), apperrors.IsNotFound(err):
			entry.Debugf("request rejected: %v", err)
		default:
			entry.Debugf("request failed: %v", err)
		}

		return c.Status(status).JSON(body)
	}
}

func render(err error) (int, ErrorResponse) {
	var appErr *apperrors.AppError
	var fiberErr *fiber.Error
	if !errors.As(err, &appErr) && errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
		return fiberErr.Code, ErrorResponse{Message: fiberErr.Message}
	}

	// Anything that is not an AppError becomes a generic internal error.
	appErr = apperrors.AsAppError(err)
	message := appErr.Message
	if appErr.HTTPCode >= fiber.StatusInternalServerError {
		message = apperrors.GenericMessage
	}
	var details map[string]interface{}
	if len(appErr.Details) > 0 {
		details = appErr.Details
	}
	return appErr.HTTPCode, ErrorResponse{Message: message, Code: appErr.Code, Details: details}
}
