// Package config provides configuration settings for the link shortener service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers understood by the storage setup.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the configuration settings for the application.
type Config struct {
	// HTTP surface
	ServerPort     string
	BaseURL        string
	RequestTimeout time.Duration

	// Storage
	DatabaseDriver  string
	DatabaseDSN     string
	SQLitePath      string
	MigrationsDir   string
	StorageCapacity int

	// Verdict cache, empty disables caching
	RedisURL string

	// Reachability probe
	ProbeTimeout time.Duration

	// Reputation checker, empty API key disables the stage
	ReputationAPIURL   string
	ReputationAPIKey   string
	ReputationTimeout  time.Duration
	ReputationRPS      float64
	ReputationBurst    int
	ReputationCacheTTL time.Duration

	// Short codes the generator must never issue
	ReservedCodes []string
}

// DefaultConfig returns the default configuration settings.
func DefaultConfig() *Config {
	return &Config{
		ServerPort:         ":3000",
		BaseURL:            "http://localhost:3000/",
		RequestTimeout:     5 * time.Second,
		DatabaseDriver:     DriverMemory,
		SQLitePath:         "shortener.db",
		MigrationsDir:      "migrations",
		StorageCapacity:    1000000,
		ProbeTimeout:       10 * time.Second,
		ReputationAPIURL:   "http://api.mywot.com/0.4/public_link_json2",
		ReputationTimeout:  5 * time.Second,
		ReputationRPS:      10,
		ReputationBurst:    10,
		ReputationCacheTTL: time.Hour,
		ReservedCodes:      []string{"api", "health", "metrics"},
	}
}

// LoadConfig builds the configuration from the environment, reading a .env
// file first when one exists.
func LoadConfig() (*Config, error) {
	// A missing .env file is fine; the process environment still applies.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.BaseURL = getEnv("BASE_URL", cfg.BaseURL)
	cfg.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", cfg.RequestTimeout)

	cfg.DatabaseDriver = getEnv("DATABASE_DRIVER", cfg.DatabaseDriver)
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
	cfg.MigrationsDir = getEnv("MIGRATIONS_DIR", cfg.MigrationsDir)
	cfg.StorageCapacity = getEnvInt("STORAGE_CAPACITY", cfg.StorageCapacity)

	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)

	cfg.ProbeTimeout = getEnvDuration("PROBE_TIMEOUT", cfg.ProbeTimeout)

	cfg.ReputationAPIURL = getEnv("REPUTATION_API_URL", cfg.ReputationAPIURL)
	cfg.ReputationAPIKey = getEnv("REPUTATION_API_KEY", cfg.ReputationAPIKey)
	cfg.ReputationTimeout = getEnvDuration("REPUTATION_TIMEOUT", cfg.ReputationTimeout)
	cfg.ReputationRPS = getEnvFloat("REPUTATION_RPS", cfg.ReputationRPS)
	cfg.ReputationBurst = getEnvInt("REPUTATION_BURST", cfg.ReputationBurst)
	cfg.ReputationCacheTTL = getEnvDuration("REPUTATION_CACHE_TTL", cfg.ReputationCacheTTL)

	cfg.ReservedCodes = getEnvList("RESERVED_CODES", cfg.ReservedCodes)

	cfg.BaseURL = normalizeBaseURL(cfg.BaseURL)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DatabaseDriver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown database driver %q", c.DatabaseDriver)
	}
	if c.DatabaseDriver == DriverPostgres && c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required for the postgres driver")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe timeout must be positive")
	}
	if !strings.Contains(c.BaseURL, "://") {
		return fmt.Errorf("base URL %q must be absolute", c.BaseURL)
	}
	return nil
}

// normalizeBaseURL guarantees exactly one trailing slash so that short URLs
// concatenate cleanly and self-reference checks match prefixes reliably.
func normalizeBaseURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
