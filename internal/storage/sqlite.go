package storage

import (
	"fmt"

	"task-tracker-api/internal/models"

	"gorm.io/gorm"
)

// SQLite stores the snapshot in the items table of a gorm database.
type SQLite struct {
	db *gorm.DB
}

func NewSQLite(db *gorm.DB) *SQLite {
	return &SQLite{db: db}
}

// Load returns the stored items in the order they were saved.
func (s *SQLite) Load() ([]models.Item, error) {
	var records []models.ItemRecord
	if err := s.db.Order("position asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	items := make([]models.Item, 0, len(records))
	for _, rec := range records {
		it, err := rec.Item()
		if err != nil {
			return nil, fmt.Errorf("load items: %w", err)
		}
		items = append(items, it)
	}
	return items, nil
}

// Save replaces the table contents in one transaction.
func (s *SQLite) Save(items []models.Item) error {
	records := toRecords(items)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ItemRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, 100).Error
	})
	if err != nil {
		return fmt.Errorf("save items: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
