package database

import (
	"github.com/checho03/granja-valencia/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN.
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when using connection poolers (e.g. PgBouncer).
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
}

// AutoMigrate runs migrations for the livestock models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Lot{},
		&domain.Pen{},
		&domain.Pig{},
		&domain.PigEvent{},
	)
}
