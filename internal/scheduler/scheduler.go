package scheduler

import (
	"context"
	"time"

	"github.com/checho03/granja-valencia/internal/config"
	"github.com/checho03/granja-valencia/internal/domain"
	"github.com/checho03/granja-valencia/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Scheduler runs the nightly aggregate audit.
type Scheduler struct {
	cron *cron.Cron
	db   *gorm.DB
	cfg  *config.Config
}

// NewScheduler creates a scheduler instance.
func NewScheduler(cfg *config.Config, db *gorm.DB) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		db:   db,
		cfg:  cfg,
	}
}

// Start registers the audit job and starts the cron loop.
func (s *Scheduler) Start() {
	log.Info().Str("cron", s.cfg.AuditCron).Msg("starting aggregate audit scheduler")
	_, err := s.cron.AddFunc(s.cfg.AuditCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := s.RunAudit(ctx); err != nil {
			log.Error().Err(err).Msg("aggregate audit failed")
		}
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to schedule aggregate audit")
		return
	}
	s.cron.Start()
}

// Stop stops the cron loop.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunAudit recomputes every pen's occupancy and average weight and every
// lot's live count from the pig rows, repairing any drift. The engine keeps
// these correct transactionally; the audit is the safety net that reports
// when they diverged anyway (manual SQL, restored backups).
func (s *Scheduler) RunAudit(ctx context.Context) (int, error) {
	repaired := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		onSite := []string{string(domain.StateActive), string(domain.StateSick)}

		var pens []domain.Pen
		if err := tx.Find(&pens).Error; err != nil {
			return err
		}
		for _, pen := range pens {
			var actual struct {
				Count int
				Avg   float64
			}
			err := tx.Model(&domain.Pig{}).
				Select("COUNT(*) as count, COALESCE(AVG(current_weight), 0) as avg").
				Where("pen_id = ? AND life_state IN ?", pen.PenID, onSite).
				Scan(&actual).Error
			if err != nil {
				return err
			}
			if actual.Count == pen.Occupancy && actual.Avg == pen.AvgWeight {
				continue
			}
			log.Warn().Str("pen", pen.Number).
				Int("stored_occupancy", pen.Occupancy).Int("actual_occupancy", actual.Count).
				Float64("stored_avg", pen.AvgWeight).Float64("actual_avg", actual.Avg).
				Msg("pen aggregates drifted, repairing")
			err = tx.Model(&domain.Pen{}).Where("pen_id = ?", pen.PenID).
				UpdateColumns(map[string]interface{}{
					"occupancy":  actual.Count,
					"avg_weight": actual.Avg,
				}).Error
			if err != nil {
				return err
			}
			repaired++
		}

		var lots []domain.Lot
		if err := tx.Find(&lots).Error; err != nil {
			return err
		}
		for _, lot := range lots {
			var live int64
			err := tx.Model(&domain.Pig{}).
				Where("lot_id = ? AND life_state IN ?", lot.LotID, onSite).
				Count(&live).Error
			if err != nil {
				return err
			}
			if int(live) == lot.CurrentLiveCount {
				continue
			}
			log.Warn().Str("lot", lot.Code).
				Int("stored_live_count", lot.CurrentLiveCount).Int64("actual_live_count", live).
				Msg("lot live count drifted, repairing")
			err = tx.Model(&domain.Lot{}).Where("lot_id = ?", lot.LotID).
				UpdateColumn("current_live_count", live).Error
			if err != nil {
				return err
			}
			repaired++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	metrics.AuditRepairs.Add(float64(repaired))
	log.Info().Int("repaired", repaired).Msg("aggregate audit finished")
	return repaired, nil
}
