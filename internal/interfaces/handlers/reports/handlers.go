package reports

import (
	reportsvc "github.com/checho03/granja-valencia/internal/application/reports"
	"github.com/checho03/granja-valencia/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *reportsvc.Service
}

// HerdSummary GET /api/v1/reports/herd-summary
func (h *Handlers) HerdSummary(c *fiber.Ctx) error {
	summary, err := h.Service.HerdSummary(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Herd summary retrieved successfully", summary, nil)
}
