package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Change-log fields.
const (
	EventFieldWeight = "WEIGHT"
	EventFieldState  = "STATE"
	EventFieldPen    = "PEN"
)

// PigEvent is one entry of a pig's append-only change log. Entries are written
// only inside committed engine transactions and never mutated afterwards; the
// autoincrement EventID gives a stable oldest-first order.
type PigEvent struct {
	EventID   int64          `gorm:"column:event_id;primaryKey;autoIncrement" json:"event_id"`
	PigID     uuid.UUID      `gorm:"column:pig_id;type:uuid;not null;index" json:"pig_id"`
	Field     string         `gorm:"column:field;type:varchar(10);not null" json:"field"`
	OldValue  string         `gorm:"column:old_value;type:varchar(60);not null" json:"old_value"`
	NewValue  string         `gorm:"column:new_value;type:varchar(60);not null" json:"new_value"`
	Note      *string        `gorm:"column:note" json:"note"`
	EventData datatypes.JSON `gorm:"column:event_data" json:"event_data"`
	CreatedAt time.Time      `gorm:"column:createdAt" json:"createdAt"`
}

func (PigEvent) TableName() string {
	return "pig_events"
}
