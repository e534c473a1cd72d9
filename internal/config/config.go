package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultJWTSecret only serves runs with auth disabled; Validate refuses it once auth is on.
const DefaultJWTSecret = "development-insecure-secret-change-me"

// MinJWTSecretLen is the shortest HS256 secret accepted with auth enabled.
const MinJWTSecretLen = 32

// EnvPrefix prefixes every environment override, e.g. TASKTRACKER_SERVER_PORT.
const EnvPrefix = "TASKTRACKER"

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	History HistoryConfig `mapstructure:"history"`
	Auth    AuthConfig    `mapstructure:"auth"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release or test
}

type StorageConfig struct {
	Backend string `mapstructure:"backend"` // csv, sqlite or memory
	Path    string `mapstructure:"path"`
}

type HistoryConfig struct {
	Capacity int `mapstructure:"capacity"` // 0 keeps every viewed item
}

type AuthConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Username     string        `mapstructure:"username"`
	PasswordHash string        `mapstructure:"password_hash"` // bcrypt
	JWTSecret    string        `mapstructure:"jwt_secret"`
	Issuer       string        `mapstructure:"issuer"`
	Audience     string        `mapstructure:"audience"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`

	// Failed logins per username and client before further attempts are refused.
	MaxFailedLogins int           `mapstructure:"max_failed_logins"`
	LockoutWindow   time.Duration `mapstructure:"lockout_window"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("storage.backend", "csv")
	v.SetDefault("storage.path", "kanban_backup.csv")
	v.SetDefault("history.capacity", 0)
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.username", "admin")
	v.SetDefault("auth.password_hash", "")
	v.SetDefault("auth.jwt_secret", DefaultJWTSecret)
	v.SetDefault("auth.issuer", "task-tracker-api")
	v.SetDefault("auth.audience", "task-tracker-clients")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.max_failed_logins", 5)
	v.SetDefault("auth.lockout_window", 15*time.Minute)
}

// Default returns the configuration used when no file or environment overrides are present.
func Default() Config {
	cfg, _ := Load("")
	return cfg
}

// Load reads the optional YAML file at path, then applies TASKTRACKER_* environment
// overrides on top of the defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	switch strings.ToLower(c.Storage.Backend) {
	case "csv", "sqlite":
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path is required"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("storage.backend %q is not one of csv, sqlite, memory", c.Storage.Backend))
	}
	if c.History.Capacity < 0 {
		errs = append(errs, errors.New("history.capacity must not be negative"))
	}
	if c.Auth.Enabled {
		if c.Auth.PasswordHash == "" {
			errs = append(errs, errors.New("auth.password_hash is required when auth is enabled"))
		}
		switch {
		case c.Auth.JWTSecret == "":
			errs = append(errs, errors.New("auth.jwt_secret is required when auth is enabled"))
		case c.Auth.JWTSecret == DefaultJWTSecret:
			errs = append(errs, errors.New("auth.jwt_secret must be changed from the built-in default when auth is enabled"))
		case len(c.Auth.JWTSecret) < MinJWTSecretLen:
			errs = append(errs, fmt.Errorf("auth.jwt_secret must be at least %d bytes", MinJWTSecretLen))
		}
		if c.Auth.TokenTTL <= 0 {
			errs = append(errs, errors.New("auth.token_ttl must be positive"))
		}
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
