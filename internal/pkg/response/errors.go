package response

import (
	"github.com/checho03/granja-valencia/internal/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
)

// FromError sends a typed service error with its mapped status and kind, or a
// plain 500 for anything unclassified.
func FromError(c *fiber.Ctx, err error) error {
	kind := apperrors.KindOf(err)
	if kind == "" {
		return Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return Error(c, err.Error(), apperrors.HTTPStatus(err), map[string]interface{}{
		"kind": string(kind),
	})
}
