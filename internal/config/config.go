package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config keeps runtime settings for the service. Loaded once at process
// start and read-only afterwards.
type Config struct {
	Addr               string
	DatabaseURL        string
	SessionSecret      string
	TokenTTL           time.Duration
	CloudinaryURL      string
	UploadFolder       string
	AuditRetention     time.Duration
	AuditSweepInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		Addr:               strings.TrimSpace(os.Getenv("ADDR")),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SessionSecret:      strings.TrimSpace(os.Getenv("SESSION_SECRET")),
		TokenTTL:           parseHours(os.Getenv("TOKEN_TTL_HOURS")),
		CloudinaryURL:      strings.TrimSpace(os.Getenv("CLOUDINARY_URL")),
		UploadFolder:       strings.TrimSpace(os.Getenv("UPLOAD_FOLDER")),
		AuditRetention:     parseDays(os.Getenv("AUDIT_RETENTION_DAYS")),
		AuditSweepInterval: parseHours(os.Getenv("AUDIT_SWEEP_INTERVAL_HOURS")),
	}

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "taskflow.db"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 72 * time.Hour
	}
	if cfg.UploadFolder == "" {
		cfg.UploadFolder = "taskflow"
	}
	if cfg.AuditRetention == 0 {
		cfg.AuditRetention = 90 * 24 * time.Hour
	}
	if cfg.AuditSweepInterval == 0 {
		cfg.AuditSweepInterval = 24 * time.Hour
	}

	if cfg.SessionSecret == "" {
		return cfg, fmt.Errorf("SESSION_SECRET is required")
	}

	return cfg, nil
}

func parseHours(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}

func parseDays(raw string) time.Duration {
	return parseHours(raw) * 24
}
