package config

import (
	"path/filepath"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATAWORLD_API_TOKEN", "test-token")
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "cache", "workorders.db"))
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATAWORLD_DATASET", "")
	t.Setenv("DATAWORLD_TABLE", "")
	t.Setenv("FISCAL_YEAR_START_MONTH", "")
	t.Setenv("REFRESH_INTERVAL", "")
	t.Setenv("ONTIME_ALERT_THRESHOLD", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Dataset != defaultDataset {
		t.Errorf("Expected default dataset, got %q", cfg.Dataset)
	}
	if cfg.Table != defaultTable {
		t.Errorf("Expected default table, got %q", cfg.Table)
	}
	if cfg.FiscalYearStart != time.July {
		t.Errorf("Expected July fiscal year start, got %d", cfg.FiscalYearStart)
	}
	if cfg.RefreshInterval != defaultRefreshInterval {
		t.Errorf("Expected default refresh interval, got %v", cfg.RefreshInterval)
	}
	if cfg.OnTimeAlertThreshold != defaultOnTimeAlertThreshold {
		t.Errorf("Expected default alert threshold, got %v", cfg.OnTimeAlertThreshold)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATAWORLD_DATASET", "city/facilities")
	t.Setenv("DATAWORLD_TABLE", "work_orders")
	t.Setenv("FISCAL_YEAR_START_MONTH", "10")
	t.Setenv("REFRESH_INTERVAL", "5m")
	t.Setenv("ONTIME_ALERT_THRESHOLD", "65")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Dataset != "city/facilities" || cfg.Table != "work_orders" {
		t.Errorf("Expected overridden dataset/table, got %q/%q", cfg.Dataset, cfg.Table)
	}
	if cfg.FiscalYearStart != time.October {
		t.Errorf("Expected October start, got %d", cfg.FiscalYearStart)
	}
	if cfg.RefreshInterval != 5*time.Minute {
		t.Errorf("Expected 5m refresh interval, got %v", cfg.RefreshInterval)
	}
	if cfg.OnTimeAlertThreshold != 65 {
		t.Errorf("Expected threshold 65, got %v", cfg.OnTimeAlertThreshold)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("DATAWORLD_API_TOKEN", "")
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "workorders.db"))

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when DATAWORLD_API_TOKEN is missing")
	}
}

func TestLoadRejectsBadFiscalStart(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FISCAL_YEAR_START_MONTH", "13")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for out-of-range fiscal year start month")
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "45s")
	if got := getEnvDuration("TEST_DURATION", time.Minute); got != 45*time.Second {
		t.Errorf("Expected 45s, got %v", got)
	}

	t.Setenv("TEST_DURATION", "90")
	if got := getEnvDuration("TEST_DURATION", time.Minute); got != 90*time.Second {
		t.Errorf("Expected bare seconds parsing, got %v", got)
	}

	t.Setenv("TEST_DURATION", "garbage")
	if got := getEnvDuration("TEST_DURATION", time.Minute); got != time.Minute {
		t.Errorf("Expected fallback to default, got %v", got)
	}
}
