package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default: 8080)

	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-session cleanup interval (default: 1h)
	SessionTTL           time.Duration // Session lifetime (default: 24h)

	DatabaseDriver string // "sqlite" or "postgres" (default: sqlite)
	DatabaseFile   string // Path to SQLite database file (default: ./portal.db)
	DatabaseURL    string // Postgres connection string (required for postgres driver)

	GoogleClientID     string // Required: OAuth client id
	GoogleClientSecret string // Required: OAuth client secret
	GoogleCallbackURL  string // OAuth redirect URL (default: http://localhost:8080/auth/google/callback)

	AdminEmails      []string // Emails granted the admin role
	FinanceEmails    []string // Emails granted the finance role
	OrgDomainKeyword string   // Substring of the org's email domains (default: ingenia)
}

// LoadConfig reads configuration from the environment, loading a local
// .env file first when one exists. All of this is read once at process
// start; nothing is hot-reloadable.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
		Port:      getEnvIntOrDefault("PORT", 8080),

		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		SessionTTL:           getEnvDurationOrDefault("SESSION_TTL", 24*time.Hour),

		DatabaseDriver: getEnvOrDefault("DATABASE_DRIVER", "sqlite"),
		DatabaseFile:   getEnvOrDefault("DATABASE_FILE", "portal.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL: getEnvOrDefault(
			"GOOGLE_CALLBACK_URL",
			"http://localhost:8080/auth/google/callback",
		),

		AdminEmails:      splitList(os.Getenv("ADMIN_EMAILS")),
		FinanceEmails:    splitList(os.Getenv("FINANCE_EMAILS")),
		OrgDomainKeyword: getEnvOrDefault("ORG_DOMAIN_KEYWORD", "ingenia"),
	}
}

// splitList parses a comma-separated env value, dropping empty entries.
func splitList(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
