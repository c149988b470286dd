package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnv_defaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "LOG_FORMAT", "CATALOG_PATH", "CATALOG_WATCH", "CATALOG_DEBOUNCE_MS", "SWITCH_TIMEOUT", "REFRESH_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	if cfg.Port != "8080" || cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.CatalogPath != "configs/catalog.yaml" || !cfg.CatalogWatch {
		t.Errorf("unexpected catalog defaults: %+v", cfg)
	}
	if cfg.CatalogDebounce != 500*time.Millisecond || cfg.SwitchTimeout != 5*time.Second || cfg.RefreshTimeout != 5*time.Second {
		t.Errorf("unexpected duration defaults: %+v", cfg)
	}
}

func TestFromEnv_overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CATALOG_WATCH", "false")
	t.Setenv("CATALOG_DEBOUNCE_MS", "50")
	t.Setenv("SWITCH_TIMEOUT", "750ms")
	t.Setenv("REFRESH_TIMEOUT", "nonsense")

	cfg := FromEnv()
	if cfg.Port != "9090" {
		t.Errorf("PORT: got %s", cfg.Port)
	}
	if cfg.CatalogWatch {
		t.Error("CATALOG_WATCH=false should disable watching")
	}
	if cfg.CatalogDebounce != 50*time.Millisecond {
		t.Errorf("CATALOG_DEBOUNCE_MS: got %s", cfg.CatalogDebounce)
	}
	if cfg.SwitchTimeout != 750*time.Millisecond {
		t.Errorf("SWITCH_TIMEOUT: got %s", cfg.SwitchTimeout)
	}
	if cfg.RefreshTimeout != 5*time.Second {
		t.Errorf("invalid REFRESH_TIMEOUT should fall back, got %s", cfg.RefreshTimeout)
	}
}

func TestGetEnvInt_invalid(t *testing.T) {
	t.Setenv("SOME_INT", "twelve")
	if got := GetEnvInt("SOME_INT", 12); got != 12 {
		t.Errorf("expected fallback 12, got %d", got)
	}
}

func TestLoad_dotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TRACKSELECT_TEST_KEY=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TRACKSELECT_TEST_KEY", "")
	os.Unsetenv("TRACKSELECT_TEST_KEY")

	if err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := GetEnv("TRACKSELECT_TEST_KEY", "fallback"); got != "from-file" {
		t.Errorf("expected value from .env, got %s", got)
	}
}

func TestLoad_missing_file(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Error("expected error for missing file")
	}
}
