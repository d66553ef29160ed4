package serverutils

import (
	"errors"

	"ai-assistant-be/pkg/chatflow/session"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware translates handler errors into the generic failure
// envelope. Unknown session handles map to 404; everything unrecognized is a
// 500 with the error text.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError
		message := err.Error()

		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			message = fiberErr.Message
		case errors.Is(err, session.ErrSessionNotFound):
			status = fiber.StatusNotFound
			message = "session not found or already finalized"
		}

		return ctx.Status(status).JSON(fiber.Map{
			"success": false,
			"message": message,
		})
	}
}
