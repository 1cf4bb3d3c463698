package pigs

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/checho03/granja-valencia/internal/domain"
	"github.com/checho03/granja-valencia/internal/pkg/apperrors"
	"github.com/checho03/granja-valencia/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaxWeighingVariation is the relative weight change above which a weighing is
// rejected as suspicious. Hard rejection, no override path.
const MaxWeighingVariation = 0.30

// Service is the consistency engine: every command runs as one transaction,
// validates all preconditions before the first write, keeps pen occupancy,
// lot live count and pen average weight in step, and appends a change-log
// entry on the committed path only.
type Service struct {
	DB *gorm.DB
}

// AdmitPigInput is the creation payload for a pig.
type AdmitPigInput struct {
	LotID         uuid.UUID `json:"lot_id"`
	PenID         uuid.UUID `json:"pen_id"`
	Tag           string    `json:"tag"`
	InitialWeight float64   `json:"initial_weight"`
	AdmissionDate time.Time `json:"admission_date"`
}

// AdmitPig creates an ACTIVE pig in the given pen and bumps the pen and lot
// counters in the same transaction.
func (s *Service) AdmitPig(ctx context.Context, in AdmitPigInput) (*domain.Pig, error) {
	var pig *domain.Pig

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.InitialWeight <= 0 {
			return apperrors.InvalidWeight("initial weight must be greater than 0")
		}

		var lot domain.Lot
		if err := tx.Where("lot_id = ?", in.LotID).First(&lot).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("lot %s not found", in.LotID)
			}
			return err
		}
		if lot.Status != domain.LotActive {
			return apperrors.InvalidTransition("lot %s is %s, no further admissions permitted", lot.Code, lot.Status)
		}
		if lot.CurrentLiveCount >= lot.InitialCount {
			return apperrors.CapacityExceeded("lot %s already holds its initial count of %d pigs", lot.Code, lot.InitialCount)
		}

		var pen domain.Pen
		if err := tx.Where("pen_id = ?", in.PenID).First(&pen).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("pen %s not found", in.PenID)
			}
			return err
		}
		if pen.LotID != lot.LotID {
			return apperrors.InconsistentReference("pen %s does not belong to lot %s", pen.Number, lot.Code)
		}
		if pen.PenType != lot.Site {
			return apperrors.InconsistentReference("pen %s type %s is not compatible with lot site %s", pen.Number, pen.PenType, lot.Site)
		}
		if pen.Occupancy >= pen.Capacity {
			return apperrors.CapacityExceeded("pen %s is at capacity (%d)", pen.Number, pen.Capacity)
		}

		var existing domain.Pig
		err := tx.Where("tag = ?", in.Tag).First(&existing).Error
		if err == nil {
			return apperrors.Duplicate("tag %s is already in use", in.Tag)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		admissionDate := in.AdmissionDate
		if admissionDate.IsZero() {
			admissionDate = time.Now()
		}
		pig = &domain.Pig{
			Tag:           in.Tag,
			LotID:         lot.LotID,
			PenID:         pen.PenID,
			InitialWeight: in.InitialWeight,
			CurrentWeight: in.InitialWeight,
			AdmissionDate: admissionDate,
			LifeState:     domain.StateActive,
		}
		if err := tx.Create(pig).Error; err != nil {
			return err
		}

		if err := adjustPenOccupancy(tx, pen.PenID, +1); err != nil {
			return err
		}
		if err := adjustLotLiveCount(tx, lot.LotID, +1); err != nil {
			return err
		}
		if err := recomputePenAvgWeight(tx, pen.PenID); err != nil {
			return err
		}
		return appendEvent(tx, pig.PigID, domain.EventFieldWeight, "0", formatWeight(in.InitialWeight), nil)
	})

	metrics.RecordOp(metrics.OpAdmitPig, err)
	if err != nil {
		return nil, apperrors.FromStore(err)
	}
	return pig, nil
}

// RecordWeighing updates the pig's current weight and the pen average.
// Variations above MaxWeighingVariation relative to the previous weight are
// rejected as suspicious.
func (s *Service) RecordWeighing(ctx context.Context, pigID uuid.UUID, newWeight float64, at time.Time) (*domain.Pig, error) {
	var pig domain.Pig

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pig_id = ?", pigID).First(&pig).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("pig %s not found", pigID)
			}
			return err
		}
		if !pig.LifeState.OnSite() {
			return apperrors.InvalidTransition("cannot weigh pig %s in state %s", pig.Tag, string(pig.LifeState))
		}
		if newWeight <= 0 {
			return apperrors.InvalidWeight("weight must be greater than 0")
		}
		prev := pig.CurrentWeight
		if prev > 0 {
			variation := math.Abs(newWeight-prev) / prev
			if variation > MaxWeighingVariation {
				log.Warn().Str("tag", pig.Tag).Float64("previous", prev).Float64("new", newWeight).
					Msg("suspicious weight variation rejected")
				return apperrors.InvalidWeight("suspicious weight variation for pig %s: %.0f%% exceeds %.0f%%",
					pig.Tag, variation*100, MaxWeighingVariation*100)
			}
		}

		weighedAt := at
		if weighedAt.IsZero() {
			weighedAt = time.Now()
		}
		if err := tx.Model(&pig).Updates(map[string]interface{}{
			"current_weight":  newWeight,
			"last_weighed_at": weighedAt,
		}).Error; err != nil {
			return err
		}
		pig.CurrentWeight = newWeight
		pig.LastWeighedAt = &weighedAt

		if err := recomputePenAvgWeight(tx, pig.PenID); err != nil {
			return err
		}
		return appendEvent(tx, pig.PigID, domain.EventFieldWeight, formatWeight(prev), formatWeight(newWeight), nil)
	})

	metrics.RecordOp(metrics.OpRecordWeighing, err)
	if err != nil {
		return nil, apperrors.FromStore(err)
	}
	return &pig, nil
}

// ChangeLifeState applies a life-state transition and, when the pig leaves the
// site (SOLD/DEAD), releases its pen slot and lot live count exactly once.
func (s *Service) ChangeLifeState(ctx context.Context, pigID uuid.UUID, newState domain.LifeState, note *string) (*domain.Pig, error) {
	var pig domain.Pig

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pig_id = ?", pigID).First(&pig).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("pig %s not found", pigID)
			}
			return err
		}

		var lot domain.Lot
		if err := tx.Where("lot_id = ?", pig.LotID).First(&lot).Error; err != nil {
			return err
		}
		if lot.Status != domain.LotActive {
			return apperrors.InvalidTransition("lot %s is %s, no further state changes permitted", lot.Code, lot.Status)
		}

		if err := domain.Transition(pig.LifeState, newState); err != nil {
			return err
		}

		prev := pig.LifeState
		if err := tx.Model(&pig).Update("life_state", string(newState)).Error; err != nil {
			return err
		}
		pig.LifeState = newState

		// Leaving the site releases the counters; SICK<->ACTIVE keeps them.
		if prev.OnSite() && !newState.OnSite() {
			if err := adjustPenOccupancy(tx, pig.PenID, -1); err != nil {
				return err
			}
			if err := adjustLotLiveCount(tx, pig.LotID, -1); err != nil {
				return err
			}
			if err := recomputePenAvgWeight(tx, pig.PenID); err != nil {
				return err
			}
		}
		return appendEvent(tx, pig.PigID, domain.EventFieldState, string(prev), string(newState), note)
	})

	metrics.RecordOp(metrics.OpChangeLifeState, err)
	if err != nil {
		return nil, apperrors.FromStore(err)
	}
	return &pig, nil
}

// TransferPig moves a live pig to another pen of the same lot, keeping both
// pens' occupancy and average weight correct in the same transaction.
func (s *Service) TransferPig(ctx context.Context, pigID, targetPenID uuid.UUID) (*domain.Pig, error) {
	var pig domain.Pig

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pig_id = ?", pigID).First(&pig).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("pig %s not found", pigID)
			}
			return err
		}
		if !pig.LifeState.OnSite() {
			return apperrors.InvalidTransition("cannot transfer pig %s in state %s", pig.Tag, string(pig.LifeState))
		}

		var target domain.Pen
		if err := tx.Where("pen_id = ?", targetPenID).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("pen %s not found", targetPenID)
			}
			return err
		}
		if target.PenID == pig.PenID {
			return apperrors.InconsistentReference("pig %s is already in pen %s", pig.Tag, target.Number)
		}
		if target.LotID != pig.LotID {
			return apperrors.InconsistentReference("pen %s does not belong to the pig's lot", target.Number)
		}
		if target.Occupancy >= target.Capacity {
			return apperrors.CapacityExceeded("pen %s is at capacity (%d)", target.Number, target.Capacity)
		}

		var origin domain.Pen
		if err := tx.Where("pen_id = ?", pig.PenID).First(&origin).Error; err != nil {
			return err
		}

		if err := tx.Model(&pig).Update("pen_id", target.PenID).Error; err != nil {
			return err
		}
		pig.PenID = target.PenID

		if err := adjustPenOccupancy(tx, origin.PenID, -1); err != nil {
			return err
		}
		if err := adjustPenOccupancy(tx, target.PenID, +1); err != nil {
			return err
		}
		// Both averages move before commit; no intermediate state is visible.
		if err := recomputePenAvgWeight(tx, origin.PenID); err != nil {
			return err
		}
		if err := recomputePenAvgWeight(tx, target.PenID); err != nil {
			return err
		}
		return appendEvent(tx, pig.PigID, domain.EventFieldPen, origin.Number, target.Number, nil)
	})

	metrics.RecordOp(metrics.OpTransferPig, err)
	if err != nil {
		return nil, apperrors.FromStore(err)
	}
	return &pig, nil
}

// adjustPenOccupancy applies a relative, bounds-guarded occupancy update.
// Zero rows affected means a concurrent transaction consumed the slot after
// our precondition read; surfaced as a retryable conflict.
func adjustPenOccupancy(tx *gorm.DB, penID uuid.UUID, delta int) error {
	q := tx.Model(&domain.Pen{})
	if delta > 0 {
		q = q.Where("pen_id = ? AND occupancy < capacity", penID)
	} else {
		q = q.Where("pen_id = ? AND occupancy > 0", penID)
	}
	res := q.UpdateColumn("occupancy", gorm.Expr("occupancy + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.TransactionConflict("concurrent occupancy update on pen %s, retry the command", penID)
	}
	return nil
}

func adjustLotLiveCount(tx *gorm.DB, lotID uuid.UUID, delta int) error {
	q := tx.Model(&domain.Lot{})
	if delta > 0 {
		q = q.Where("lot_id = ? AND current_live_count < initial_count", lotID)
	} else {
		q = q.Where("lot_id = ? AND current_live_count > 0", lotID)
	}
	res := q.UpdateColumn("current_live_count", gorm.Expr("current_live_count + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.TransactionConflict("concurrent live-count update on lot %s, retry the command", lotID)
	}
	return nil
}

// recomputePenAvgWeight rewrites avg_weight from the pigs currently on site in
// the pen (0 when empty). Never adjusted incrementally.
func recomputePenAvgWeight(tx *gorm.DB, penID uuid.UUID) error {
	var avg float64
	err := tx.Model(&domain.Pig{}).
		Select("COALESCE(AVG(current_weight), 0)").
		Where("pen_id = ? AND life_state IN ?", penID, []string{string(domain.StateActive), string(domain.StateSick)}).
		Scan(&avg).Error
	if err != nil {
		return err
	}
	return tx.Model(&domain.Pen{}).Where("pen_id = ?", penID).
		UpdateColumn("avg_weight", avg).Error
}

func appendEvent(tx *gorm.DB, pigID uuid.UUID, field, oldValue, newValue string, note *string) error {
	eventData, _ := json.Marshal(map[string]interface{}{
		"field":     field,
		"old_value": oldValue,
		"new_value": newValue,
	})
	return tx.Create(&domain.PigEvent{
		PigID:     pigID,
		Field:     field,
		OldValue:  oldValue,
		NewValue:  newValue,
		Note:      note,
		EventData: datatypes.JSON(eventData),
	}).Error
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
