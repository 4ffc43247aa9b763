package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	DBDriver           string
	DBConn             string
	LogLevel           string
	JWTSecret          string
	TokenTTL           time.Duration
	TokenPruneSchedule string
	EnforceOwnership   bool
	PostIDRecompaction bool
	MigrateOnStart     bool
	CORSOrigins        []string
	RateLimitRPS       int
	RateLimitBurst     int
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DBDriver:           getEnv("DB_DRIVER", "postgres"),
		DBConn:             getEnv("DB_CONN", "host=localhost port=5432 user=test password=test dbname=posts sslmode=disable"),
		LogLevel:           getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:          getEnv("JWT_SECRET", "secret"),
		TokenPruneSchedule: getEnv("TOKEN_PRUNE_SCHEDULE", ""),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "0s")); err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if cfg.TokenTTL < 0 {
		return nil, fmt.Errorf("TOKEN_TTL must not be negative")
	}
	if cfg.EnforceOwnership, err = strconv.ParseBool(getEnv("ENFORCE_OWNERSHIP", "true")); err != nil {
		return nil, fmt.Errorf("invalid ENFORCE_OWNERSHIP: %w", err)
	}
	if cfg.PostIDRecompaction, err = strconv.ParseBool(getEnv("POST_ID_RECOMPACTION", "true")); err != nil {
		return nil, fmt.Errorf("invalid POST_ID_RECOMPACTION: %w", err)
	}
	if cfg.MigrateOnStart, err = strconv.ParseBool(getEnv("MIGRATE_ON_START", "true")); err != nil {
		return nil, fmt.Errorf("invalid MIGRATE_ON_START: %w", err)
	}
	if cfg.RateLimitRPS, err = strconv.Atoi(getEnv("RATE_LIMIT_RPS", "10")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(getEnv("RATE_LIMIT_BURST", "20")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be positive when RATE_LIMIT_RPS is set")
	}
	if cfg.DBDriver == "" {
		return nil, fmt.Errorf("DB_DRIVER is required")
	}
	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
