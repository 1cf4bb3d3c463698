package lots

import (
	"context"
	"testing"
	"time"

	"github.com/checho03/granja-valencia/internal/domain"
	"github.com/checho03/granja-valencia/internal/pkg/apperrors"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLotsTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Lot{}, &domain.Pen{}, &domain.Pig{}, &domain.PigEvent{},
	))
	return &Service{DB: db}, db
}

func TestCreateLot_StartsEmpty(t *testing.T) {
	svc, _ := setupLotsTest(t)

	lot, err := svc.CreateLot(context.Background(), CreateLotInput{
		Code:             "LOTE-2024-001",
		AdmissionDate:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		InitialCount:     120,
		InitialAvgWeight: 21.4,
		InitialMinWeight: 18.0,
		InitialMaxWeight: 25.5,
		Site:             domain.SiteNursery,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LotActive, lot.Status)
	assert.Equal(t, 0, lot.CurrentLiveCount)
	assert.Equal(t, 120, lot.InitialCount)
}

func TestCreateLot_DuplicateCode(t *testing.T) {
	svc, _ := setupLotsTest(t)
	_, err := svc.CreateLot(context.Background(), CreateLotInput{
		Code: "LOTE-2024-001", InitialCount: 10, Site: domain.SiteNursery,
	})
	require.NoError(t, err)

	_, err = svc.CreateLot(context.Background(), CreateLotInput{
		Code: "LOTE-2024-001", InitialCount: 20, Site: domain.SiteFinishing,
	})
	assert.Equal(t, apperrors.KindDuplicateIdentifier, apperrors.KindOf(err))
}

func TestCreateLot_UnknownSite(t *testing.T) {
	svc, _ := setupLotsTest(t)
	_, err := svc.CreateLot(context.Background(), CreateLotInput{
		Code: "LOTE-2024-001", InitialCount: 10, Site: "PASTURE",
	})
	assert.Equal(t, apperrors.KindInconsistentReference, apperrors.KindOf(err))
}

func TestFinalizeLot_OneWay(t *testing.T) {
	svc, _ := setupLotsTest(t)
	lot, err := svc.CreateLot(context.Background(), CreateLotInput{
		Code: "LOTE-2024-001", InitialCount: 10, Site: domain.SiteNursery,
	})
	require.NoError(t, err)

	finalized, err := svc.FinalizeLot(context.Background(), lot.LotID)
	require.NoError(t, err)
	assert.Equal(t, domain.LotFinalized, finalized.Status)

	_, err = svc.FinalizeLot(context.Background(), lot.LotID)
	assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))
}

func TestFinalizeLot_NotFound(t *testing.T) {
	svc, _ := setupLotsTest(t)
	_, err := svc.FinalizeLot(context.Background(), uuid.New())
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestStats_Mortality(t *testing.T) {
	svc, db := setupLotsTest(t)
	lot, err := svc.CreateLot(context.Background(), CreateLotInput{
		Code: "LOTE-2024-001", InitialCount: 10, Site: domain.SiteNursery,
	})
	require.NoError(t, err)
	// 9 of 10 still alive: one dead, mortality 10%.
	require.NoError(t, db.Model(&domain.Lot{}).Where("lot_id = ?", lot.LotID).
		UpdateColumn("current_live_count", 9).Error)
	require.NoError(t, db.Create(&domain.Pen{
		Number: "A-01", LotID: lot.LotID, Capacity: 10, Occupancy: 9,
		AvgWeight: 24.5, PenType: domain.PenNursery,
	}).Error)

	stats, err := svc.Stats(context.Background(), lot.LotID)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.InitialCount)
	assert.Equal(t, 9, stats.CurrentLiveCount)
	assert.InDelta(t, 10.0, stats.MortalityPercent, 0.001)
	require.Len(t, stats.Pens, 1)
	assert.Equal(t, "A-01", stats.Pens[0].Number)
	assert.InDelta(t, 90.0, stats.Pens[0].OccupancyPercent, 0.001)
	assert.Equal(t, 24.5, stats.Pens[0].AvgWeight)
}

func TestListLots_Filters(t *testing.T) {
	svc, _ := setupLotsTest(t)
	_, err := svc.CreateLot(context.Background(), CreateLotInput{
		Code: "LOTE-2024-001", InitialCount: 10, Site: domain.SiteNursery,
	})
	require.NoError(t, err)
	fin, err := svc.CreateLot(context.Background(), CreateLotInput{
		Code: "LOTE-2024-002", InitialCount: 10, Site: domain.SiteFinishing,
	})
	require.NoError(t, err)
	_, err = svc.FinalizeLot(context.Background(), fin.LotID)
	require.NoError(t, err)

	active, err := svc.ListLots(context.Background(), ListLotsFilter{Status: domain.LotActive})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "LOTE-2024-001", active[0].Code)

	finishing, err := svc.ListLots(context.Background(), ListLotsFilter{Site: domain.SiteFinishing})
	require.NoError(t, err)
	require.Len(t, finishing, 1)
	assert.Equal(t, "LOTE-2024-002", finishing[0].Code)
}
