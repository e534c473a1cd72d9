package database

import (
	"path/filepath"
	"testing"

	"task-tracker-api/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestOpen_CreatesItemsTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	db, err := Open(path, logger.Silent)
	require.NoError(t, err)

	require.True(t, db.Migrator().HasTable(&models.ItemRecord{}))
	require.True(t, db.Migrator().HasColumn(&models.ItemRecord{}, "duration_minutes"))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}
