package storage

import (
	"fmt"
	"strings"

	"task-tracker-api/internal/database"
	"task-tracker-api/internal/models"

	"gorm.io/gorm/logger"
)

// Backend persists full snapshots of the store. Implementations own their I/O; the store never
// touches files itself.
type Backend interface {
	Load() ([]models.Item, error)
	Save(items []models.Item) error
	Close() error
}

const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open builds the backend named by kind at path.
func Open(kind, path string) (Backend, error) {
	switch strings.ToLower(kind) {
	case BackendCSV:
		return NewCSVFile(path), nil
	case BackendSQLite:
		db, err := database.Open(path, logger.Warn)
		if err != nil {
			return nil, err
		}
		return NewSQLite(db), nil
	case BackendMemory:
		return Memory{}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", kind)
}

// Memory keeps nothing; it is the backend for throwaway runs.
type Memory struct{}

func (Memory) Load() ([]models.Item, error) { return nil, nil }
func (Memory) Save([]models.Item) error     { return nil }
func (Memory) Close() error                 { return nil }

func toRecords(items []models.Item) []models.ItemRecord {
	out := make([]models.ItemRecord, 0, len(items))
	for i, it := range items {
		out = append(out, models.NewItemRecord(it, i))
	}
	return out
}
