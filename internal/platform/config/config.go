package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the server configuration resolved from the environment.
type Config struct {
	Port            string
	LogLevel        string
	LogFormat       string
	CatalogPath     string
	CatalogWatch    bool
	// CatalogDebounce coalesces bursts of catalog file writes.
	CatalogDebounce time.Duration
	SwitchTimeout   time.Duration
	RefreshTimeout  time.Duration
}

// Load reads the .env file from the current working directory and sets
// environment variables. If .env does not exist, Load returns an error but
// callers can ignore it and use system env or defaults. Pass one or more paths
// to load from specific files (e.g. ".env"); with no paths, ".env" is used.
func Load(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	return godotenv.Load(paths...)
}

// FromEnv builds a Config from environment variables, applying defaults.
func FromEnv() Config {
	return Config{
		Port:            GetEnv("PORT", "8080"),
		LogLevel:        GetEnv("LOG_LEVEL", "info"),
		LogFormat:       GetEnv("LOG_FORMAT", "json"),
		CatalogPath:     GetEnv("CATALOG_PATH", "configs/catalog.yaml"),
		CatalogWatch:    GetEnvBool("CATALOG_WATCH", true),
		CatalogDebounce: time.Duration(GetEnvInt("CATALOG_DEBOUNCE_MS", 500)) * time.Millisecond,
		SwitchTimeout:   GetEnvDuration("SWITCH_TIMEOUT", 5*time.Second),
		RefreshTimeout:  GetEnvDuration("REFRESH_TIMEOUT", 5*time.Second),
	}
}

// GetEnv returns the value of the environment variable named by key, or fallback
// if the variable is unset or empty.
func GetEnv(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}

// GetEnvInt returns the integer value of the environment variable named by key,
// or fallback if the variable is unset, empty, or not a valid integer.
func GetEnvInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return fallback
}

// GetEnvBool is GetEnvInt for booleans ("1", "true", "false", ...).
func GetEnvBool(key string, fallback bool) bool {
	if s := os.Getenv(key); s != "" {
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	return fallback
}

// GetEnvDuration is GetEnvInt for durations such as "750ms" or "5s".
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return fallback
}
