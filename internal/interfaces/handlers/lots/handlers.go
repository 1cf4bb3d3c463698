package lots

import (
	"time"

	lotsvc "github.com/checho03/granja-valencia/internal/application/lots"
	"github.com/checho03/granja-valencia/internal/pkg/response"
	"github.com/checho03/granja-valencia/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *lotsvc.Service
}

// CreateLot POST /api/v1/lots/create-lot
func (h *Handlers) CreateLot(c *fiber.Ctx) error {
	var body struct {
		Code             string  `json:"code"`
		AdmissionDate    string  `json:"admission_date"`
		InitialCount     int     `json:"initial_count"`
		InitialAvgWeight float64 `json:"initial_avg_weight"`
		InitialMinWeight float64 `json:"initial_min_weight"`
		InitialMaxWeight float64 `json:"initial_max_weight"`
		Site             string  `json:"site"`
		Notes            string  `json:"notes"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.Code == "" || body.InitialCount == 0 || body.Site == "" {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if !validation.IsValidLotCode(body.Code) {
		return response.Error(c, "Invalid lot code format, expected LOTE-YYYY-NNN", 400, nil)
	}
	if body.InitialCount < 0 {
		return response.Error(c, "initial_count must be a positive number", 400, nil)
	}

	var admissionDate time.Time
	if body.AdmissionDate != "" {
		parsed, err := time.Parse("2006-01-02", body.AdmissionDate)
		if err != nil {
			return response.Error(c, "Invalid admission_date, expected YYYY-MM-DD", 400, nil)
		}
		admissionDate = parsed
	}

	lot, err := h.Service.CreateLot(c.Context(), lotsvc.CreateLotInput{
		Code:             body.Code,
		AdmissionDate:    admissionDate,
		InitialCount:     body.InitialCount,
		InitialAvgWeight: body.InitialAvgWeight,
		InitialMinWeight: body.InitialMinWeight,
		InitialMaxWeight: body.InitialMaxWeight,
		Site:             body.Site,
		Notes:            body.Notes,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Lot created successfully", lot, nil)
}

// FinalizeLot POST /api/v1/lots/finalize-lot/:id
func (h *Handlers) FinalizeLot(c *fiber.Ctx) error {
	lotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for lot id", 400, nil)
	}
	lot, err := h.Service.FinalizeLot(c.Context(), lotID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Lot finalized successfully", lot, nil)
}

// ViewLot GET /api/v1/lots/view-lot/:id
func (h *Handlers) ViewLot(c *fiber.Ctx) error {
	lotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for lot id", 400, nil)
	}
	lot, err := h.Service.GetLot(c.Context(), lotID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Lot retrieved successfully", lot, nil)
}

// ListLots GET /api/v1/lots/list-lots?status=&site=
func (h *Handlers) ListLots(c *fiber.Ctx) error {
	result, err := h.Service.ListLots(c.Context(), lotsvc.ListLotsFilter{
		Status: c.Query("status"),
		Site:   c.Query("site"),
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Lots retrieved successfully", result, fiber.Map{"count": len(result)})
}

// LotStats GET /api/v1/lots/lot-stats/:id
func (h *Handlers) LotStats(c *fiber.Ctx) error {
	lotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for lot id", 400, nil)
	}
	stats, err := h.Service.Stats(c.Context(), lotID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Lot statistics retrieved successfully", stats, nil)
}
