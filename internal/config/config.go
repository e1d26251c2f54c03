package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/reflekt/internal/constants"
	"github.com/julianstephens/reflekt/internal/utils"
)

// Config holds all application configuration
type Config struct {
	ConfigDir string
	UserID    string
	Timezone  string
	Debug     bool
	LogLevel  string
	Store     StoreConfig
	Engine    EngineConfig
}

// StoreConfig selects and addresses the persistence backend
type StoreConfig struct {
	Kind       string
	Path       string
	Connection string
	Surreal    SurrealConfig
}

// SurrealConfig holds SurrealDB connection settings
type SurrealConfig struct {
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// EngineConfig holds limits applied to every engine operation
type EngineConfig struct {
	StoreTimeout       time.Duration
	MaxConflictRetries int
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	configDir, err := expandHome(getEnv("REFLEKT_CONFIG_DIR", "~/.config/"+constants.AppName))
	if err != nil {
		return nil, err
	}

	return &Config{
		ConfigDir: configDir,
		UserID:    getEnv("REFLEKT_USER", getEnv("USER", "default")),
		Timezone:  getEnv("REFLEKT_TIMEZONE", "Local"),
		Debug:     getBoolEnv("REFLEKT_DEBUG", false),
		LogLevel:  getEnv("REFLEKT_LOG_LEVEL", ""),
		Store: StoreConfig{
			Kind:       getEnv("REFLEKT_STORE", constants.StoreSQLite),
			Path:       getEnv("REFLEKT_DB_PATH", filepath.Join(configDir, constants.AppName+".db")),
			Connection: getEnv("REFLEKT_DB_CONNECTION", ""),
			Surreal: SurrealConfig{
				Host:      getEnv("REFLEKT_SURREAL_HOST", "localhost"),
				Port:      getEnv("REFLEKT_SURREAL_PORT", "8000"),
				Namespace: getEnv("REFLEKT_SURREAL_NAMESPACE", constants.AppName),
				Database:  getEnv("REFLEKT_SURREAL_DATABASE", "main"),
				User:      getEnv("REFLEKT_SURREAL_USER", "root"),
				Password:  getEnv("REFLEKT_SURREAL_PASSWORD", ""),
			},
		},
		Engine: EngineConfig{
			StoreTimeout:       getDurationEnv("REFLEKT_STORE_TIMEOUT", constants.DefaultStoreTimeout),
			MaxConflictRetries: getIntEnv("REFLEKT_MAX_CONFLICT_RETRIES", constants.DefaultMaxConflictRetries),
		},
	}, nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.UserID) == "" {
		errs = append(errs, errors.New("REFLEKT_USER is required"))
	}
	if !utils.ValidateTimezone(c.Timezone) {
		errs = append(errs, fmt.Errorf("REFLEKT_TIMEZONE %q is not a valid IANA timezone", c.Timezone))
	}

	switch c.Store.Kind {
	case constants.StoreSQLite:
		if c.Store.Path == "" {
			errs = append(errs, errors.New("REFLEKT_DB_PATH is required for sqlite storage"))
		}
	case constants.StorePostgres:
		// The connection string may still come from the keyring
	case constants.StoreSurreal:
		if err := c.Store.Surreal.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("SurrealDB: %w", err))
		}
	case constants.StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("REFLEKT_STORE must be one of sqlite, postgres, surreal or memory, got '%s'", c.Store.Kind))
	}

	if c.Engine.StoreTimeout <= 0 {
		errs = append(errs, errors.New("REFLEKT_STORE_TIMEOUT must be positive"))
	}
	if c.Engine.MaxConflictRetries < 0 {
		errs = append(errs, errors.New("REFLEKT_MAX_CONFLICT_RETRIES must not be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks that all required SurrealDB fields are present
func (s SurrealConfig) Validate() error {
	var missing []string
	if s.Host == "" {
		missing = append(missing, "REFLEKT_SURREAL_HOST")
	}
	if s.Port == "" {
		missing = append(missing, "REFLEKT_SURREAL_PORT")
	}
	if s.Namespace == "" {
		missing = append(missing, "REFLEKT_SURREAL_NAMESPACE")
	}
	if s.Database == "" {
		missing = append(missing, "REFLEKT_SURREAL_DATABASE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Endpoint returns the websocket URL of the SurrealDB server.
func (s SurrealConfig) Endpoint() string {
	return fmt.Sprintf("ws://%s:%s", s.Host, s.Port)
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
