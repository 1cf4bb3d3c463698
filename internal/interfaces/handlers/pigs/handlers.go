package pigs

import (
	"time"

	pigsvc "github.com/checho03/granja-valencia/internal/application/pigs"
	"github.com/checho03/granja-valencia/internal/domain"
	"github.com/checho03/granja-valencia/internal/pkg/response"
	"github.com/checho03/granja-valencia/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *pigsvc.Service
}

// AdmitPig POST /api/v1/pigs/admit-pig
func (h *Handlers) AdmitPig(c *fiber.Ctx) error {
	var body struct {
		LotID         string  `json:"lot_id"`
		PenID         string  `json:"pen_id"`
		Tag           string  `json:"tag"`
		InitialWeight float64 `json:"initial_weight"`
		AdmissionDate string  `json:"admission_date"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.LotID == "" || body.PenID == "" || body.Tag == "" || body.InitialWeight == 0 {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	lotID, err := uuid.Parse(body.LotID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for lot_id", 400, nil)
	}
	penID, err := uuid.Parse(body.PenID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for pen_id", 400, nil)
	}
	if !validation.IsValidTag(body.Tag) {
		return response.Error(c, "Invalid tag format, expected T-000000", 400, nil)
	}
	if body.InitialWeight <= 0 {
		return response.Error(c, "initial_weight must be a positive number", 400, nil)
	}
	admissionDate := parseDate(body.AdmissionDate)

	pig, err := h.Service.AdmitPig(c.Context(), pigsvc.AdmitPigInput{
		LotID:         lotID,
		PenID:         penID,
		Tag:           body.Tag,
		InitialWeight: body.InitialWeight,
		AdmissionDate: admissionDate,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Pig admitted successfully", pig, nil)
}

// RecordWeighing POST /api/v1/pigs/record-weighing
func (h *Handlers) RecordWeighing(c *fiber.Ctx) error {
	var body struct {
		PigID  string  `json:"pig_id"`
		Weight float64 `json:"weight"`
		At     string  `json:"at"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.PigID == "" || body.Weight == 0 {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	pigID, err := uuid.Parse(body.PigID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for pig_id", 400, nil)
	}
	if body.Weight <= 0 {
		return response.Error(c, "weight must be a positive number", 400, nil)
	}

	pig, err := h.Service.RecordWeighing(c.Context(), pigID, body.Weight, parseDate(body.At))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Weighing recorded successfully", pig, nil)
}

// ChangeState POST /api/v1/pigs/change-state
func (h *Handlers) ChangeState(c *fiber.Ctx) error {
	var body struct {
		PigID    string  `json:"pig_id"`
		NewState string  `json:"new_state"`
		Note     *string `json:"note"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.PigID == "" || body.NewState == "" {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	pigID, err := uuid.Parse(body.PigID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for pig_id", 400, nil)
	}

	pig, err := h.Service.ChangeLifeState(c.Context(), pigID, domain.LifeState(body.NewState), body.Note)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Life state changed successfully", pig, nil)
}

// TransferPig POST /api/v1/pigs/transfer-pig
func (h *Handlers) TransferPig(c *fiber.Ctx) error {
	var body struct {
		PigID       string `json:"pig_id"`
		TargetPenID string `json:"target_pen_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.PigID == "" || body.TargetPenID == "" {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	pigID, err := uuid.Parse(body.PigID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for pig_id", 400, nil)
	}
	targetPenID, err := uuid.Parse(body.TargetPenID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for target_pen_id", 400, nil)
	}

	pig, err := h.Service.TransferPig(c.Context(), pigID, targetPenID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Pig transferred successfully", pig, nil)
}

// ViewPig GET /api/v1/pigs/view-pig/:id
func (h *Handlers) ViewPig(c *fiber.Ctx) error {
	pigID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for pig id", 400, nil)
	}
	pig, err := h.Service.GetPig(c.Context(), pigID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Pig retrieved successfully", pig, nil)
}

// ListPigs GET /api/v1/pigs/list-pigs?lot_id=&pen_id=&state=
func (h *Handlers) ListPigs(c *fiber.Ctx) error {
	var f pigsvc.ListPigsFilter
	if raw := c.Query("lot_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.Error(c, "Invalid UUID format for lot_id", 400, nil)
		}
		f.LotID = id
	}
	if raw := c.Query("pen_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.Error(c, "Invalid UUID format for pen_id", 400, nil)
		}
		f.PenID = id
	}
	f.State = domain.LifeState(c.Query("state"))

	result, err := h.Service.ListPigs(c.Context(), f)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Pigs retrieved successfully", result, fiber.Map{"count": len(result)})
}

// ChangeLog GET /api/v1/pigs/change-log/:id
func (h *Handlers) ChangeLog(c *fiber.Ctx) error {
	pigID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for pig id", 400, nil)
	}
	events, err := h.Service.ChangeLog(c.Context(), pigID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Change log retrieved successfully", events, fiber.Map{"count": len(events)})
}

func parseDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t
	}
	return time.Time{}
}
