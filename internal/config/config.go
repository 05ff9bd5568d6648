// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mbd888/peerpay/internal/addressbook"
	"github.com/mbd888/peerpay/internal/chains"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port      string
	Env       string // "development", "staging", "production"
	LogLevel  string
	LogFormat string // "json" or "text"

	// Database
	DatabaseURL string // PostgreSQL connection string (optional, sessions stay in memory if not set)

	// Simulated wallet identity handed out on connect
	MockAddress    string
	MockENS        string
	DefaultChainID int64

	// Sessions
	SessionCookie string
	SessionTTL    time.Duration

	// Security
	RateLimitRPS   int
	RateLimitBurst int
	CORSOrigins    []string

	// Observability
	OTLPEndpoint string
}

// Defaults mirror the mock wallet the UI has always shown.
const (
	DefaultPort           = "8080"
	DefaultEnv            = "development"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultMockAddress    = "0x1234567890123456789012345678901234567890"
	DefaultMockENS        = "demo.eth"
	DefaultChainID        = chains.EthereumMainnet
	DefaultSessionCookie  = "peerpay_session"
	DefaultSessionTTL     = 24 * time.Hour
	DefaultRateLimitRPS   = 20
	DefaultRateLimitBurst = 40
)

// Load reads configuration from environment variables
// It loads .env file if present (for local development)
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", DefaultPort),
		Env:            getEnv("ENV", DefaultEnv),
		LogLevel:       getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:      getEnv("LOG_FORMAT", DefaultLogFormat),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MockAddress:    getEnv("MOCK_ADDRESS", DefaultMockAddress),
		MockENS:        getEnv("MOCK_ENS", DefaultMockENS),
		DefaultChainID: getEnvInt64("DEFAULT_CHAIN_ID", DefaultChainID),
		SessionCookie:  getEnv("SESSION_COOKIE", DefaultSessionCookie),
		SessionTTL:     getEnvDuration("SESSION_TTL", DefaultSessionTTL),
		RateLimitRPS:   int(getEnvInt64("RATE_LIMIT_RPS", DefaultRateLimitRPS)),
		RateLimitBurst: int(getEnvInt64("RATE_LIMIT_BURST", DefaultRateLimitBurst)),
		CORSOrigins:    getEnvList("CORS_ORIGINS"),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the mock identity and limits are usable
func (c *Config) Validate() error {
	if addressbook.Classify(c.MockAddress) != addressbook.KindAddress {
		return fmt.Errorf("MOCK_ADDRESS must be 0x followed by 40 characters")
	}
	if addressbook.Classify(c.MockENS) != addressbook.KindENS {
		return fmt.Errorf("MOCK_ENS must end with .eth")
	}
	if _, ok := chains.Lookup(c.DefaultChainID); !ok {
		return fmt.Errorf("DEFAULT_CHAIN_ID %d is not a known chain", c.DefaultChainID)
	}
	if c.SessionCookie == "" {
		return fmt.Errorf("SESSION_COOKIE is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping blanks.
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
