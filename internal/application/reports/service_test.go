package reports

import (
	"context"
	"testing"
	"time"

	"github.com/checho03/granja-valencia/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReportsTest(t *testing.T) (*Service, *gorm.DB, *miniredis.Miniredis) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Lot{}, &domain.Pen{}, &domain.Pig{}, &domain.PigEvent{},
	))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return &Service{DB: db, Rdb: rdb, TTL: time.Minute}, db, mr
}

func seedHerd(t *testing.T, db *gorm.DB) {
	lot := domain.Lot{
		Code: "LOTE-2024-001", InitialCount: 10, CurrentLiveCount: 8,
		Site: domain.SiteNursery, Status: domain.LotActive,
	}
	require.NoError(t, db.Create(&lot).Error)
	pen := domain.Pen{
		Number: "A-01", LotID: lot.LotID, Capacity: 2, Occupancy: 2,
		AvgWeight: 22.0, PenType: domain.PenNursery,
	}
	require.NoError(t, db.Create(&pen).Error)
	for _, p := range []domain.Pig{
		{Tag: "T-000001", LotID: lot.LotID, PenID: pen.PenID, InitialWeight: 20, CurrentWeight: 21, LifeState: domain.StateActive},
		{Tag: "T-000002", LotID: lot.LotID, PenID: pen.PenID, InitialWeight: 20, CurrentWeight: 23, LifeState: domain.StateSick},
		{Tag: "T-000003", LotID: lot.LotID, PenID: pen.PenID, InitialWeight: 20, CurrentWeight: 24, LifeState: domain.StateDead},
	} {
		pig := p
		require.NoError(t, db.Create(&pig).Error)
	}
}

func TestHerdSummary_Computes(t *testing.T) {
	svc, db, _ := setupReportsTest(t)
	seedHerd(t, db)

	summary, err := svc.HerdSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalPigs)
	assert.Equal(t, int64(1), summary.PigsByState[string(domain.StateActive)])
	assert.Equal(t, int64(1), summary.PigsByState[string(domain.StateSick)])
	assert.Equal(t, int64(1), summary.PigsByState[string(domain.StateDead)])
	assert.Equal(t, int64(1), summary.TotalLots)
	assert.Equal(t, int64(1), summary.ActiveLots)
	assert.Equal(t, int64(1), summary.TotalPens)
	assert.Equal(t, int64(1), summary.PensAtCapacity)
	assert.InDelta(t, 20.0, summary.MortalityPercent, 0.001)
}

func TestHerdSummary_ServesFromCache(t *testing.T) {
	svc, db, mr := setupReportsTest(t)
	seedHerd(t, db)

	first, err := svc.HerdSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, mr.Exists("reports:herd-summary"))

	// Mutate the store behind the cache; within the TTL the stale snapshot
	// is still served.
	require.NoError(t, db.Create(&domain.Lot{
		Code: "LOTE-2024-002", InitialCount: 5,
		Site: domain.SiteFinishing, Status: domain.LotActive,
	}).Error)

	second, err := svc.HerdSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.TotalLots, second.TotalLots)

	mr.FastForward(2 * time.Minute)
	third, err := svc.HerdSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), third.TotalLots)
}

func TestHerdSummary_NoRedisConfigured(t *testing.T) {
	svc, db, _ := setupReportsTest(t)
	svc.Rdb = nil
	seedHerd(t, db)

	summary, err := svc.HerdSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalPigs)
}
