// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"

	"gorm.io/gorm"

	authentity "messagely/internal/feature/auth/domain/entity"
	msgadapters "messagely/internal/feature/messages/adapters"
	"messagely/internal/platform/db"
)

// Migrate creates or updates the users and messages tables.
// users must be migrated first because messages references it.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&authentity.User{}, &msgadapters.MessageModel{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// OpenDatabase connects to the configured database and migrates it when enabled.
func OpenDatabase(cfg db.Config) (*gorm.DB, error) {
	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.RunMigrations {
		if err := Migrate(gdb); err != nil {
			return nil, err
		}
	}
	return gdb, nil
}
