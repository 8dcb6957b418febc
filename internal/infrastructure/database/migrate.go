package database

import (
	"fmt"

	"opd-booking/internal/domain/entity"

	"gorm.io/gorm"
)

// MigrationModels lists every table this service owns, in creation order.
func MigrationModels() []interface{} {
	return []interface{}{
		&entity.Doctor{},
		&entity.Appointment{},
		&entity.Prescription{},
	}
}

// Migrate creates or updates the schema for all owned tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(MigrationModels()...); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}
	return nil
}
