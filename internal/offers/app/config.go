package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	StoreDriver  string // Optional: storage backend (sqlite, flatfile) (default: sqlite)
	DatabaseFile string // Optional: path to SQLite database file (default: ./offers.db)
	SnapshotFile string // Optional: path to flat-file snapshot (default: ./offers.json)

	TenantsFile string // Optional: path to a tenants JSON file; built-in tenants when empty

	PublicBaseURL string // Required for SMTP mode: frontend address embedded in mail links
	SMTPHost      string // Optional: SMTP relay host; mails are logged instead when empty
	SMTPPort      int    // Optional: SMTP relay port (default: 587)
	SMTPUsername  string // Optional: SMTP auth username
	SMTPPassword  string // Optional: SMTP auth password
	SMTPFrom      string // Required for SMTP mode: sender address

	AdminKeyHash string // Optional: argon2id hash of the admin key; admin API disabled when empty

	DurationUnit time.Duration // Optional: length of one duration unit (default: 24h)
	Retention    time.Duration // Optional: purge offers this long after expiry; 0 disables purging

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		StoreDriver:  getEnvOrDefault("STORE_DRIVER", "sqlite"),
		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "offers.db"),
		SnapshotFile: getEnvOrDefault("SNAPSHOT_FILE", "offers.json"),

		TenantsFile: os.Getenv("TENANTS_FILE"),

		PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:      os.Getenv("SMTP_FROM"),

		AdminKeyHash: os.Getenv("ADMIN_KEY_HASH"),

		DurationUnit: getEnvDurationOrDefault("DURATION_UNIT", 24*time.Hour),
		Retention:    getEnvDurationOrDefault("RETENTION", 0),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
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
