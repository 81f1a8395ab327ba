// Package response renders the JSON envelope shared by every endpoint.
package response

import (
	"errors"

	"amethyst/internal/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Envelope is the body of every response. Data is omitted on errors.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 envelope. An empty message defaults to "Success".
func Success(c *fiber.Ctx, data interface{}, message string) error {
	if message == "" {
		message = "Success"
	}
	return c.Status(fiber.StatusOK).JSON(Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error writes a failure envelope with the given status. A zero status
// defaults to 500.
func Error(c *fiber.Ctx, message string, status int) error {
	if message == "" {
		message = "Error occurred"
	}
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(Envelope{
		Success: false,
		Message: message,
	})
}

// FromError maps err onto an envelope. Classified errors keep their own
// status and message; anything else is logged and reported as a 500 with
// fallback as the message.
func FromError(c *fiber.Ctx, err error, fallback string) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Kind != apperrors.KindInternal {
		return Error(c, appErr.Message, appErr.Status())
	}

	logrus.WithFields(logrus.Fields{
		"method":     c.Method(),
		"path":       c.Path(),
		"request_id": c.Locals("requestid"),
		"error":      err.Error(),
	}).Error(fallback)
	return Error(c, fallback, fiber.StatusInternalServerError)
}
