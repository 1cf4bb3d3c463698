package pens

import (
	"context"
	"errors"

	"github.com/checho03/granja-valencia/internal/domain"
	"github.com/checho03/granja-valencia/internal/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service encapsulates pen operations.
type Service struct {
	DB *gorm.DB
}

// CreatePenInput is the creation payload for a pen.
type CreatePenInput struct {
	Number   string    `json:"number"`
	LotID    uuid.UUID `json:"lot_id"`
	Capacity int       `json:"capacity"`
	PenType  string    `json:"pen_type"`
}

// CreatePen creates an empty pen in the given lot. The pen type must match
// the lot's site classification.
func (s *Service) CreatePen(ctx context.Context, in CreatePenInput) (*domain.Pen, error) {
	var pen *domain.Pen

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lot domain.Lot
		if err := tx.Where("lot_id = ?", in.LotID).First(&lot).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("lot %s not found", in.LotID)
			}
			return err
		}
		if lot.Status != domain.LotActive {
			return apperrors.InvalidTransition("lot %s is %s, cannot add pens", lot.Code, lot.Status)
		}
		if in.PenType != lot.Site {
			return apperrors.InconsistentReference("pen type %s is not compatible with lot site %s", in.PenType, lot.Site)
		}

		var existing domain.Pen
		err := tx.Where("number = ?", in.Number).First(&existing).Error
		if err == nil {
			return apperrors.Duplicate("pen number %s is already in use", in.Number)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		pen = &domain.Pen{
			Number:    in.Number,
			LotID:     lot.LotID,
			Capacity:  in.Capacity,
			Occupancy: 0,
			AvgWeight: 0,
			PenType:   in.PenType,
		}
		return tx.Create(pen).Error
	})
	if err != nil {
		return nil, apperrors.FromStore(err)
	}
	return pen, nil
}

// GetPen returns the pen with its pigs.
func (s *Service) GetPen(ctx context.Context, penID uuid.UUID) (*domain.Pen, error) {
	var pen domain.Pen
	err := s.DB.WithContext(ctx).
		Preload("Pigs", func(db *gorm.DB) *gorm.DB { return db.Order("tag ASC") }).
		Where("pen_id = ?", penID).First(&pen).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("pen %s not found", penID)
		}
		return nil, err
	}
	return &pen, nil
}

// ListPens returns pens, optionally filtered by lot, ordered by number.
func (s *Service) ListPens(ctx context.Context, lotID uuid.UUID) ([]domain.Pen, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Pen{})
	if lotID != uuid.Nil {
		q = q.Where("lot_id = ?", lotID)
	}
	var out []domain.Pen
	if err := q.Order("number ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
