package database

import (
	"fmt"
	"log"

	"task-tracker-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens (creating if needed) the SQLite snapshot database at path and runs migrations.
// Using glebarez/sqlite which is a pure Go implementation (no CGO required)
func Open(path string, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database %s: %w", path, err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Printf("Database %s connected and migrated", path)
	return db, nil
}

// Migrate creates or updates the tables used by the snapshot backend.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.ItemRecord{}); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}
