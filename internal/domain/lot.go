package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lot site classifications.
const (
	SiteNursery   = "NURSERY"
	SiteFinishing = "FINISHING"
)

// Lot statuses.
const (
	LotActive    = "ACTIVE"
	LotFinalized = "FINALIZED"
)

// Lot is a cohort of pigs admitted together. CurrentLiveCount starts at 0 and
// is moved only by admissions and terminal life-state changes, always relative
// to InitialCount: 0 <= current_live_count <= initial_count.
type Lot struct {
	LotID            uuid.UUID `gorm:"column:lot_id;type:uuid;primaryKey" json:"lot_id"`
	Code             string    `gorm:"column:code;type:varchar(40);not null;uniqueIndex" json:"code"`
	AdmissionDate    time.Time `gorm:"column:admission_date;not null" json:"admission_date"`
	InitialCount     int       `gorm:"column:initial_count;not null" json:"initial_count"`
	CurrentLiveCount int       `gorm:"column:current_live_count;not null;default:0" json:"current_live_count"`
	InitialAvgWeight float64   `gorm:"column:initial_avg_weight;not null;default:0" json:"initial_avg_weight"`
	InitialMinWeight float64   `gorm:"column:initial_min_weight;not null;default:0" json:"initial_min_weight"`
	InitialMaxWeight float64   `gorm:"column:initial_max_weight;not null;default:0" json:"initial_max_weight"`
	Site             string    `gorm:"column:site;type:varchar(20);not null" json:"site"`
	Status           string    `gorm:"column:status;type:varchar(20);not null;default:ACTIVE" json:"status"`
	Notes            string    `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt        time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"column:updatedAt" json:"updatedAt"`

	Pens []Pen `gorm:"foreignKey:LotID;references:LotID" json:"pens,omitempty"`
	Pigs []Pig `gorm:"foreignKey:LotID;references:LotID" json:"pigs,omitempty"`
}

func (Lot) TableName() string {
	return "lots"
}

func (l *Lot) BeforeCreate(tx *gorm.DB) error {
	if l.LotID == uuid.Nil {
		l.LotID = uuid.New()
	}
	return nil
}
