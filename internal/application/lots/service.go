package lots

import (
	"context"
	"errors"
	"time"

	"github.com/checho03/granja-valencia/internal/domain"
	"github.com/checho03/granja-valencia/internal/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service encapsulates lot operations.
type Service struct {
	DB *gorm.DB
}

// CreateLotInput is the creation payload for a lot.
type CreateLotInput struct {
	Code             string    `json:"code"`
	AdmissionDate    time.Time `json:"admission_date"`
	InitialCount     int       `json:"initial_count"`
	InitialAvgWeight float64   `json:"initial_avg_weight"`
	InitialMinWeight float64   `json:"initial_min_weight"`
	InitialMaxWeight float64   `json:"initial_max_weight"`
	Site             string    `json:"site"`
	Notes            string    `json:"notes"`
}

// ListLotsFilter narrows ListLots; empty values mean no filter.
type ListLotsFilter struct {
	Status string
	Site   string
}

// PenStats is the per-pen slice of LotStats.
type PenStats struct {
	Number           string  `json:"number"`
	Capacity         int     `json:"capacity"`
	Occupancy        int     `json:"occupancy"`
	OccupancyPercent float64 `json:"occupancy_percent"`
	AvgWeight        float64 `json:"avg_weight"`
}

// LotStats aggregates a lot's counters and its pens.
type LotStats struct {
	Code             string     `json:"code"`
	Status           string     `json:"status"`
	InitialCount     int        `json:"initial_count"`
	CurrentLiveCount int        `json:"current_live_count"`
	MortalityPercent float64    `json:"mortality_percent"`
	Pens             []PenStats `json:"pens"`
}

// CreateLot creates an ACTIVE lot with a live count of zero; admissions fill
// it up to the initial count.
func (s *Service) CreateLot(ctx context.Context, in CreateLotInput) (*domain.Lot, error) {
	if in.Site != domain.SiteNursery && in.Site != domain.SiteFinishing {
		return nil, apperrors.InconsistentReference("unknown site classification %q", in.Site)
	}

	var existing domain.Lot
	err := s.DB.WithContext(ctx).Where("code = ?", in.Code).First(&existing).Error
	if err == nil {
		return nil, apperrors.Duplicate("lot code %s is already in use", in.Code)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	admissionDate := in.AdmissionDate
	if admissionDate.IsZero() {
		admissionDate = time.Now()
	}
	lot := &domain.Lot{
		Code:             in.Code,
		AdmissionDate:    admissionDate,
		InitialCount:     in.InitialCount,
		CurrentLiveCount: 0,
		InitialAvgWeight: in.InitialAvgWeight,
		InitialMinWeight: in.InitialMinWeight,
		InitialMaxWeight: in.InitialMaxWeight,
		Site:             in.Site,
		Status:           domain.LotActive,
		Notes:            in.Notes,
	}
	if err := s.DB.WithContext(ctx).Create(lot).Error; err != nil {
		return nil, apperrors.FromStore(err)
	}
	return lot, nil
}

// FinalizeLot moves a lot to FINALIZED. One-way: a finalized lot accepts no
// further admissions or state changes.
func (s *Service) FinalizeLot(ctx context.Context, lotID uuid.UUID) (*domain.Lot, error) {
	var lot domain.Lot

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lot_id = ?", lotID).First(&lot).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("lot %s not found", lotID)
			}
			return err
		}
		if lot.Status == domain.LotFinalized {
			return apperrors.InvalidTransition("lot %s is already FINALIZED", lot.Code)
		}
		if err := tx.Model(&lot).Update("status", domain.LotFinalized).Error; err != nil {
			return err
		}
		lot.Status = domain.LotFinalized
		return nil
	})
	if err != nil {
		return nil, apperrors.FromStore(err)
	}
	return &lot, nil
}

// GetLot returns the lot with its pens and pigs.
func (s *Service) GetLot(ctx context.Context, lotID uuid.UUID) (*domain.Lot, error) {
	var lot domain.Lot
	err := s.DB.WithContext(ctx).
		Preload("Pens", func(db *gorm.DB) *gorm.DB { return db.Order("number ASC") }).
		Preload("Pigs", func(db *gorm.DB) *gorm.DB { return db.Order("tag ASC") }).
		Where("lot_id = ?", lotID).First(&lot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("lot %s not found", lotID)
		}
		return nil, err
	}
	return &lot, nil
}

// ListLots returns lots matching the filter, newest first.
func (s *Service) ListLots(ctx context.Context, f ListLotsFilter) ([]domain.Lot, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Lot{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Site != "" {
		q = q.Where("site = ?", f.Site)
	}
	var out []domain.Lot
	if err := q.Order("admission_date DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Stats computes the lot's mortality percentage and per-pen occupancy.
// Mortality % = (initial_count - current_live_count) / initial_count * 100.
func (s *Service) Stats(ctx context.Context, lotID uuid.UUID) (*LotStats, error) {
	var lot domain.Lot
	err := s.DB.WithContext(ctx).
		Preload("Pens", func(db *gorm.DB) *gorm.DB { return db.Order("number ASC") }).
		Where("lot_id = ?", lotID).First(&lot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("lot %s not found", lotID)
		}
		return nil, err
	}

	stats := &LotStats{
		Code:             lot.Code,
		Status:           lot.Status,
		InitialCount:     lot.InitialCount,
		CurrentLiveCount: lot.CurrentLiveCount,
		Pens:             make([]PenStats, 0, len(lot.Pens)),
	}
	if lot.InitialCount > 0 {
		stats.MortalityPercent = float64(lot.InitialCount-lot.CurrentLiveCount) / float64(lot.InitialCount) * 100
	}
	for _, pen := range lot.Pens {
		stats.Pens = append(stats.Pens, PenStats{
			Number:           pen.Number,
			Capacity:         pen.Capacity,
			Occupancy:        pen.Occupancy,
			OccupancyPercent: pen.OccupancyPercent(),
			AvgWeight:        pen.AvgWeight,
		})
	}
	return stats, nil
}
