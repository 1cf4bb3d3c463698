package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pig is one animal, owned by one lot and located in exactly one pen of that
// lot. CurrentWeight > 0 always; it starts at InitialWeight and moves only
// through weighings. PenID moves only through transfers while the pig is
// alive on site.
type Pig struct {
	PigID         uuid.UUID  `gorm:"column:pig_id;type:uuid;primaryKey" json:"pig_id"`
	Tag           string     `gorm:"column:tag;type:varchar(40);not null;uniqueIndex" json:"tag"`
	LotID         uuid.UUID  `gorm:"column:lot_id;type:uuid;not null;index" json:"lot_id"`
	PenID         uuid.UUID  `gorm:"column:pen_id;type:uuid;not null;index" json:"pen_id"`
	InitialWeight float64    `gorm:"column:initial_weight;not null" json:"initial_weight"`
	CurrentWeight float64    `gorm:"column:current_weight;not null" json:"current_weight"`
	AdmissionDate time.Time  `gorm:"column:admission_date;not null" json:"admission_date"`
	LifeState     LifeState  `gorm:"column:life_state;type:varchar(10);not null;default:ACTIVE" json:"life_state"`
	LastWeighedAt *time.Time `gorm:"column:last_weighed_at" json:"last_weighed_at"`
	CreatedAt     time.Time  `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"column:updatedAt" json:"updatedAt"`

	Events []PigEvent `gorm:"foreignKey:PigID;references:PigID" json:"events,omitempty"`
}

func (Pig) TableName() string {
	return "pigs"
}

func (p *Pig) BeforeCreate(tx *gorm.DB) error {
	if p.PigID == uuid.Nil {
		p.PigID = uuid.New()
	}
	return nil
}
