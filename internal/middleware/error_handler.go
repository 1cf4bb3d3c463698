package middleware

import (
	"github.com/checho03/granja-valencia/internal/pkg/apperrors"
	"github.com/checho03/granja-valencia/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the global error handler. Typed livestock errors keep their
// message and mapped status; everything else becomes a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	details := map[string]interface{}{}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}
	if kind := apperrors.KindOf(err); kind != "" {
		code = apperrors.HTTPStatus(err)
		message = err.Error()
		details["kind"] = string(kind)
	}

	return response.Error(c, message, code, details)
}
