package lots

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	lotsvc "github.com/checho03/granja-valencia/internal/application/lots"
	"github.com/checho03/granja-valencia/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLotsTest(t *testing.T) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Lot{}, &domain.Pen{}, &domain.Pig{}, &domain.PigEvent{},
	))

	h := &Handlers{Service: &lotsvc.Service{DB: db}}
	app := fiber.New()
	app.Post("/create-lot", h.CreateLot)
	app.Post("/finalize-lot/:id", h.FinalizeLot)
	app.Get("/view-lot/:id", h.ViewLot)
	app.Get("/list-lots", h.ListLots)
	app.Get("/lot-stats/:id", h.LotStats)
	return app, db
}

func createLot(t *testing.T, app *fiber.App, code string) map[string]interface{} {
	body, _ := json.Marshal(map[string]interface{}{
		"code":          code,
		"initial_count": 10,
		"site":          "NURSERY",
	})
	req := httptest.NewRequest("POST", "/create-lot", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode)
	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	data, _ := result["data"].(map[string]interface{})
	return data
}

func TestCreateLot_Created(t *testing.T) {
	app, _ := setupLotsTest(t)
	data := createLot(t, app, "LOTE-2024-001")
	assert.Equal(t, "LOTE-2024-001", data["code"])
	assert.Equal(t, "ACTIVE", data["status"])
	assert.Equal(t, float64(0), data["current_live_count"])
}

func TestCreateLot_BadCodeFormat(t *testing.T) {
	app, _ := setupLotsTest(t)
	body, _ := json.Marshal(map[string]interface{}{
		"code": "BATCH-1", "initial_count": 10, "site": "NURSERY",
	})
	req := httptest.NewRequest("POST", "/create-lot", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestCreateLot_Duplicate(t *testing.T) {
	app, _ := setupLotsTest(t)
	createLot(t, app, "LOTE-2024-001")

	body, _ := json.Marshal(map[string]interface{}{
		"code": "LOTE-2024-001", "initial_count": 10, "site": "NURSERY",
	})
	req := httptest.NewRequest("POST", "/create-lot", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)
}

func TestFinalizeLot_Twice(t *testing.T) {
	app, _ := setupLotsTest(t)
	data := createLot(t, app, "LOTE-2024-001")
	lotID, _ := data["lot_id"].(string)

	req := httptest.NewRequest("POST", "/finalize-lot/"+lotID, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	req = httptest.NewRequest("POST", "/finalize-lot/"+lotID, nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)
}

func TestLotStats_Math(t *testing.T) {
	app, db := setupLotsTest(t)
	data := createLot(t, app, "LOTE-2024-001")
	lotID, _ := data["lot_id"].(string)
	require.NoError(t, db.Model(&domain.Lot{}).Where("code = ?", "LOTE-2024-001").
		UpdateColumn("current_live_count", 8).Error)

	req := httptest.NewRequest("GET", "/lot-stats/"+lotID, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	stats, _ := result["data"].(map[string]interface{})
	assert.Equal(t, float64(20), stats["mortality_percent"])
}
