// Package config provides configuration management functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
)

// Environment names accepted in APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds application configuration
type Config struct {
	DataDir              string // Base directory for all databases (always absolute)
	Port                 int
	LogLevel             string
	LogPretty            bool
	Environment          string
	DevMode              bool // Disables authentication redirects; never allowed in a release
	SessionTTL           time.Duration
	SessionPurgeSchedule string
	DisplayCurrency      string
	SeedDemoData         bool
	LoginRatePerMinute   int
	TrustProxy           bool // Honour X-Forwarded-For / X-Real-IP from a reverse proxy
	Backup               BackupConfig
}

// BackupConfig configures off-site database backups to S3-compatible
// storage. Backups are disabled while Bucket is empty.
type BackupConfig struct {
	Bucket          string
	Endpoint        string // empty for AWS, set for R2, MinIO and friends
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Schedule        string
	RetentionDays   int // 0 keeps every backup
}

// Enabled reports whether a bucket is configured.
func (b BackupConfig) Enabled() bool {
	return b.Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir, err := filepath.Abs(getEnv("AETHER_DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:              dataDir,
		Port:                 getEnvAsInt("PORT", 8080),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogPretty:            getEnvAsBool("LOG_PRETTY", true),
		Environment:          strings.ToLower(getEnv("APP_ENV", EnvDevelopment)),
		DevMode:              getEnvAsBool("DEV_MODE", false),
		SessionTTL:           getEnvAsDuration("SESSION_TTL", 7*24*time.Hour),
		SessionPurgeSchedule: getEnv("SESSION_PURGE_SCHEDULE", "@every 15m"),
		DisplayCurrency:      strings.ToUpper(getEnv("DISPLAY_CURRENCY", money.USD)),
		SeedDemoData:         getEnvAsBool("SEED_DEMO_DATA", false),
		LoginRatePerMinute:   getEnvAsInt("LOGIN_RATE_PER_MIN", 5),
		TrustProxy:           getEnvAsBool("TRUST_PROXY", false),
		Backup: BackupConfig{
			Bucket:          getEnv("BACKUP_S3_BUCKET", ""),
			Endpoint:        getEnv("BACKUP_S3_ENDPOINT", ""),
			Region:          getEnv("BACKUP_S3_REGION", "auto"),
			AccessKeyID:     getEnv("BACKUP_S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("BACKUP_S3_SECRET_ACCESS_KEY", ""),
			Schedule:        getEnv("BACKUP_SCHEDULE", "@daily"),
			RetentionDays:   getEnvAsInt("BACKUP_RETENTION_DAYS", 30),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present and sane
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		errs = append(errs, fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Environment))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL))
	}
	if money.GetCurrency(c.DisplayCurrency) == nil {
		errs = append(errs, fmt.Errorf("DISPLAY_CURRENCY %q is not a known currency code", c.DisplayCurrency))
	}
	if c.LoginRatePerMinute <= 0 {
		errs = append(errs, fmt.Errorf("LOGIN_RATE_PER_MIN must be positive, got %d", c.LoginRatePerMinute))
	}

	if c.Backup.Enabled() {
		if c.Backup.AccessKeyID == "" || c.Backup.SecretAccessKey == "" {
			errs = append(errs, errors.New("BACKUP_S3_ACCESS_KEY_ID and BACKUP_S3_SECRET_ACCESS_KEY are required when BACKUP_S3_BUCKET is set"))
		}
		if c.Backup.RetentionDays < 0 {
			errs = append(errs, fmt.Errorf("BACKUP_RETENTION_DAYS must not be negative, got %d", c.Backup.RetentionDays))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// DatabasePath returns the file path of a named database inside DataDir.
func (c *Config) DatabasePath(name string) string {
	return filepath.Join(c.DataDir, name+".db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
