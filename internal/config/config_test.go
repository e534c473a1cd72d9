package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "csv", cfg.Storage.Backend)
	require.Equal(t, "kanban_backup.csv", cfg.Storage.Path)
	require.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	require.False(t, cfg.Auth.Enabled)
	require.Equal(t, 5, cfg.Auth.MaxFailedLogins)
	require.Equal(t, 15*time.Minute, cfg.Auth.LockoutWindow)
	require.NoError(t, cfg.Validate())
	require.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
storage:
  backend: sqlite
  path: /tmp/tasks.db
history:
  capacity: 10
auth:
  token_ttl: 2h
`), 0o644))
	t.Setenv("TASKTRACKER_SERVER_PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "sqlite", cfg.Storage.Backend)
	require.Equal(t, "/tmp/tasks.db", cfg.Storage.Path)
	require.Equal(t, 10, cfg.History.Capacity)
	require.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 0
	cfg.Storage.Backend = "postgres"
	cfg.History.Capacity = -1
	cfg.Auth.Enabled = true
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "server.port")
	require.Contains(t, err.Error(), "storage.backend")
	require.Contains(t, err.Error(), "history.capacity")
	require.Contains(t, err.Error(), "auth.password_hash")

	mem := Default()
	mem.Storage.Backend = "memory"
	mem.Storage.Path = ""
	require.NoError(t, mem.Validate())
}

func TestValidate_AuthSecret(t *testing.T) {
	t.Setenv("TASKTRACKER_AUTH_ENABLED", "true")
	t.Setenv("TASKTRACKER_AUTH_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")

	cfg, err := Load("")
	require.NoError(t, err)
	require.True(t, cfg.Auth.Enabled)
	require.Equal(t, DefaultJWTSecret, cfg.Auth.JWTSecret)
	err = cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "auth.jwt_secret")

	cfg.Auth.JWTSecret = "too-short"
	err = cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "at least 32 bytes")

	cfg.Auth.JWTSecret = "0123456789abcdef0123456789abcdef"
	require.NoError(t, cfg.Validate())
}
