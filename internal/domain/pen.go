package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pen types mirror lot sites; a pen can only host pigs from a lot whose site
// matches its type.
const (
	PenNursery   = "NURSERY"
	PenFinishing = "FINISHING"
)

// Pen is a physical enclosure belonging to exactly one lot. Occupancy and
// AvgWeight are derived: occupancy mutated only by admit/transfer/state-change
// operations (relative updates), AvgWeight always recomputed from the active
// pigs currently assigned, never written independently.
type Pen struct {
	PenID     uuid.UUID `gorm:"column:pen_id;type:uuid;primaryKey" json:"pen_id"`
	Number    string    `gorm:"column:number;type:varchar(20);not null;uniqueIndex" json:"number"`
	LotID     uuid.UUID `gorm:"column:lot_id;type:uuid;not null;index" json:"lot_id"`
	Capacity  int       `gorm:"column:capacity;not null" json:"capacity"`
	Occupancy int       `gorm:"column:occupancy;not null;default:0" json:"occupancy"`
	AvgWeight float64   `gorm:"column:avg_weight;not null;default:0" json:"avg_weight"`
	PenType   string    `gorm:"column:pen_type;type:varchar(20);not null" json:"pen_type"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`

	Pigs []Pig `gorm:"foreignKey:PenID;references:PenID" json:"pigs,omitempty"`
}

func (Pen) TableName() string {
	return "pens"
}

func (p *Pen) BeforeCreate(tx *gorm.DB) error {
	if p.PenID == uuid.Nil {
		p.PenID = uuid.New()
	}
	return nil
}

// OccupancyPercent is occupancy over capacity, 0 for a zero-capacity pen
// (which the services never create).
func (p *Pen) OccupancyPercent() float64 {
	if p.Capacity <= 0 {
		return 0
	}
	return float64(p.Occupancy) / float64(p.Capacity) * 100
}
