package pigs

import (
	"context"
	"errors"

	"github.com/checho03/granja-valencia/internal/domain"
	"github.com/checho03/granja-valencia/internal/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListPigsFilter narrows ListPigs; zero values mean no filter.
type ListPigsFilter struct {
	LotID uuid.UUID
	PenID uuid.UUID
	State domain.LifeState
}

// GetPig returns the pig with its change log preloaded oldest first.
func (s *Service) GetPig(ctx context.Context, pigID uuid.UUID) (*domain.Pig, error) {
	var pig domain.Pig
	err := s.DB.WithContext(ctx).
		Preload("Events", func(db *gorm.DB) *gorm.DB { return db.Order("event_id ASC") }).
		Where("pig_id = ?", pigID).First(&pig).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("pig %s not found", pigID)
		}
		return nil, err
	}
	return &pig, nil
}

// GetPigByTag looks a pig up by its ear tag.
func (s *Service) GetPigByTag(ctx context.Context, tag string) (*domain.Pig, error) {
	var pig domain.Pig
	err := s.DB.WithContext(ctx).
		Preload("Events", func(db *gorm.DB) *gorm.DB { return db.Order("event_id ASC") }).
		Where("tag = ?", tag).First(&pig).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("pig with tag %s not found", tag)
		}
		return nil, err
	}
	return &pig, nil
}

// ListPigs returns pigs matching the filter, ordered by tag.
func (s *Service) ListPigs(ctx context.Context, f ListPigsFilter) ([]domain.Pig, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Pig{})
	if f.LotID != uuid.Nil {
		q = q.Where("lot_id = ?", f.LotID)
	}
	if f.PenID != uuid.Nil {
		q = q.Where("pen_id = ?", f.PenID)
	}
	if f.State != "" {
		q = q.Where("life_state = ?", string(f.State))
	}
	var out []domain.Pig
	if err := q.Order("tag ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ChangeLog returns the pig's ordered change log (oldest first).
func (s *Service) ChangeLog(ctx context.Context, pigID uuid.UUID) ([]domain.PigEvent, error) {
	var pig domain.Pig
	if err := s.DB.WithContext(ctx).Select("pig_id").Where("pig_id = ?", pigID).First(&pig).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("pig %s not found", pigID)
		}
		return nil, err
	}
	var events []domain.PigEvent
	err := s.DB.WithContext(ctx).
		Where("pig_id = ?", pigID).
		Order("event_id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
