package reports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/checho03/granja-valencia/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const summaryCacheKey = "reports:herd-summary"

// DefaultTTL is how long a computed herd summary stays cached.
const DefaultTTL = 60 * time.Second

// Service computes farm-wide read-only reports, cached in Redis.
type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
	TTL time.Duration
}

// HerdSummary is a snapshot of the whole farm.
type HerdSummary struct {
	TotalPigs        int64            `json:"total_pigs"`
	PigsByState      map[string]int64 `json:"pigs_by_state"`
	TotalLots        int64            `json:"total_lots"`
	ActiveLots       int64            `json:"active_lots"`
	TotalPens        int64            `json:"total_pens"`
	PensAtCapacity   int64            `json:"pens_at_capacity"`
	MortalityPercent float64          `json:"mortality_percent"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// HerdSummary returns the cached summary when fresh, otherwise computes it
// from the store and caches the JSON. A missing or failing Redis is treated
// as a cache miss, never an error.
func (s *Service) HerdSummary(ctx context.Context) (*HerdSummary, error) {
	if s.Rdb != nil {
		if raw, err := s.Rdb.Get(ctx, summaryCacheKey).Bytes(); err == nil {
			var cached HerdSummary
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	summary, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.Rdb != nil {
		ttl := s.TTL
		if ttl <= 0 {
			ttl = DefaultTTL
		}
		raw, _ := json.Marshal(summary)
		if err := s.Rdb.Set(ctx, summaryCacheKey, raw, ttl).Err(); err != nil {
			log.Warn().Err(err).Msg("herd summary cache write failed")
		}
	}
	return summary, nil
}

func (s *Service) compute(ctx context.Context) (*HerdSummary, error) {
	db := s.DB.WithContext(ctx)
	summary := &HerdSummary{
		PigsByState: map[string]int64{},
		GeneratedAt: time.Now(),
	}

	var stateCounts []struct {
		LifeState string
		Count     int64
	}
	err := db.Model(&domain.Pig{}).
		Select("life_state, COUNT(*) as count").
		Group("life_state").
		Scan(&stateCounts).Error
	if err != nil {
		return nil, err
	}
	for _, sc := range stateCounts {
		summary.PigsByState[sc.LifeState] = sc.Count
		summary.TotalPigs += sc.Count
	}

	if err := db.Model(&domain.Lot{}).Count(&summary.TotalLots).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Lot{}).Where("status = ?", domain.LotActive).Count(&summary.ActiveLots).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Pen{}).Count(&summary.TotalPens).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Pen{}).Where("occupancy >= capacity").Count(&summary.PensAtCapacity).Error; err != nil {
		return nil, err
	}

	var totals struct {
		Initial int64
		Current int64
	}
	err = db.Model(&domain.Lot{}).
		Select("COALESCE(SUM(initial_count), 0) as initial, COALESCE(SUM(current_live_count), 0) as current").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	if totals.Initial > 0 {
		summary.MortalityPercent = float64(totals.Initial-totals.Current) / float64(totals.Initial) * 100
	}

	return summary, nil
}
