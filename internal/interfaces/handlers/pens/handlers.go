package pens

import (
	pensvc "github.com/checho03/granja-valencia/internal/application/pens"
	"github.com/checho03/granja-valencia/internal/pkg/response"
	"github.com/checho03/granja-valencia/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *pensvc.Service
}

// CreatePen POST /api/v1/pens/create-pen
func (h *Handlers) CreatePen(c *fiber.Ctx) error {
	var body struct {
		Number   string `json:"number"`
		LotID    string `json:"lot_id"`
		Capacity int    `json:"capacity"`
		PenType  string `json:"pen_type"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.Number == "" || body.LotID == "" || body.Capacity == 0 || body.PenType == "" {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if !validation.IsValidPenNumber(body.Number) {
		return response.Error(c, "Invalid pen number format, expected A-01", 400, nil)
	}
	lotID, err := uuid.Parse(body.LotID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for lot_id", 400, nil)
	}
	if body.Capacity < 0 {
		return response.Error(c, "capacity must be a positive number", 400, nil)
	}

	pen, err := h.Service.CreatePen(c.Context(), pensvc.CreatePenInput{
		Number:   body.Number,
		LotID:    lotID,
		Capacity: body.Capacity,
		PenType:  body.PenType,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Pen created successfully", pen, nil)
}

// ViewPen GET /api/v1/pens/view-pen/:id
func (h *Handlers) ViewPen(c *fiber.Ctx) error {
	penID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for pen id", 400, nil)
	}
	pen, err := h.Service.GetPen(c.Context(), penID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Pen retrieved successfully", pen, fiber.Map{
		"occupancy_percent": pen.OccupancyPercent(),
	})
}

// ListPens GET /api/v1/pens/list-pens?lot_id=
func (h *Handlers) ListPens(c *fiber.Ctx) error {
	var lotID uuid.UUID
	if raw := c.Query("lot_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.Error(c, "Invalid UUID format for lot_id", 400, nil)
		}
		lotID = id
	}
	result, err := h.Service.ListPens(c.Context(), lotID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Pens retrieved successfully", result, fiber.Map{"count": len(result)})
}
