// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dgs-kpis/fmd-dashboard/internal/fiscal"
)

// Config holds the application configuration.
type Config struct {
	DataworldToken  string
	Dataset         string
	Table           string
	GeocodePath     string
	DatabasePath    string
	FiscalYearStart time.Month
	RefreshInterval time.Duration

	// OnTimeAlertThreshold is the on-time percentage below which a desktop
	// notification fires for a category.
	OnTimeAlertThreshold float64
}

// Default values
const (
	defaultDataset              = "dgs-kpis/fmd-maintenance"
	defaultTable                = "archibus_maintenance_data"
	defaultRefreshInterval      = 15 * time.Minute
	defaultOnTimeAlertThreshold = 50.0
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		DataworldToken:       os.Getenv("DATAWORLD_API_TOKEN"),
		Dataset:              getEnvString("DATAWORLD_DATASET", defaultDataset),
		Table:                getEnvString("DATAWORLD_TABLE", defaultTable),
		GeocodePath:          getEnvString("GEOCODE_XLSX_PATH", getDefaultGeocodePath()),
		DatabasePath:         getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		FiscalYearStart:      time.Month(getEnvInt("FISCAL_YEAR_START_MONTH", int(fiscal.DefaultStartMonth))),
		RefreshInterval:      getEnvDuration("REFRESH_INTERVAL", defaultRefreshInterval),
		OnTimeAlertThreshold: getEnvFloat("ONTIME_ALERT_THRESHOLD", defaultOnTimeAlertThreshold),
	}

	if cfg.DataworldToken == "" {
		return nil, fmt.Errorf("DATAWORLD_API_TOKEN is required (create one at data.world settings)")
	}

	if err := fiscal.ValidStart(cfg.FiscalYearStart); err != nil {
		return nil, fmt.Errorf("invalid FISCAL_YEAR_START_MONTH: %w", err)
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "fmd-dashboard", ".env"),
			filepath.Join(home, ".fmd-dashboard", ".env"),
		)
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite cache.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "workorders.db"
	}
	return filepath.Join(home, ".config", "fmd-dashboard", "workorders.db")
}

// getDefaultGeocodePath returns the default path for the building workbook.
func getDefaultGeocodePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "buildings.xlsx"
	}
	return filepath.Join(home, ".config", "fmd-dashboard", "buildings.xlsx")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns the default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "15m", or bare seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
