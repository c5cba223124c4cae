// Package config provides environment-based application configuration.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// AuthServiceConfig provides settings needed by the auth service.
type AuthServiceConfig interface {
	JWTConfig
	GetAccessTokenTTL() time.Duration
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// EmailConfig provides settings for email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetAppBaseURL() string
}

// SchedulerConfig provides settings for the asynq scheduler and worker.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetStatusSweepInterval() time.Duration
}

// StorageConfig provides settings for MinIO S3-compatible attachment storage.
type StorageConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinIOBucketAttachments() string
	IsMinIOEnabled() bool
}

// Config holds the full application configuration loaded from the environment.
type Config struct {
	Env             string
	HTTPAddr        string
	DatabaseURL     string
	JWTAccessSecret string
	AccessTokenTTL  time.Duration

	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool

	AppBaseURL string

	EmailEnabled     bool
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string

	RedisURL            string
	RedisTLSInsecure    bool
	AsynqQueueName      string
	AsynqConcurrency    int
	StatusSweepInterval time.Duration

	MinIOEndpoint          string
	MinIOAccessKey         string
	MinIOSecretKey         string
	MinIOUseSSL            bool
	MinIOMaxFileSize       int64
	MinIOBucketAttachments string
}

// Load reads configuration from the environment, with .env support for
// local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		JWTAccessSecret: getEnv("JWT_ACCESS_SECRET", ""),
		AccessTokenTTL:  mustDuration(getEnv("JWT_ACCESS_TTL", "24h")),

		CORSAllowAll:   corsAllowAll,
		CORSOrigins:    corsOrigins,
		CORSAllowCreds: strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),

		AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:3000"),

		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Sales CRM"),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),

		RedisURL:            getEnv("REDIS_URL", ""),
		RedisTLSInsecure:    strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:      getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:    getEnvInt("ASYNQ_CONCURRENCY", 10),
		StatusSweepInterval: mustDuration(getEnv("STATUS_SWEEP_INTERVAL", "1h")),

		MinIOEndpoint:          getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:         getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:         getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:            strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxFileSize:       int64(getEnvInt("MINIO_MAX_FILE_SIZE_MB", 25)) * 1024 * 1024,
		MinIOBucketAttachments: getEnv("MINIO_BUCKET_ATTACHMENTS", "crm-attachments"),
	}

	cfg.EmailEnabled = strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true") && cfg.SMTPHost != ""

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}

	return cfg, nil
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// AuthServiceConfig implementation
func (c *Config) GetAccessTokenTTL() time.Duration { return c.AccessTokenTTL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) GetAppBaseURL() string       { return c.AppBaseURL }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string                   { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool             { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string             { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int              { return c.AsynqConcurrency }
func (c *Config) GetStatusSweepInterval() time.Duration { return c.StatusSweepInterval }

// StorageConfig implementation
func (c *Config) GetMinIOEndpoint() string          { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string         { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string         { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool              { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64        { return c.MinIOMaxFileSize }
func (c *Config) GetMinIOBucketAttachments() string { return c.MinIOBucketAttachments }
func (c *Config) IsMinIOEnabled() bool {
	return c.MinIOEndpoint != "" && c.MinIOAccessKey != "" && c.MinIOSecretKey != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var value int
	if _, err := fmt.Sscanf(raw, "%d", &value); err != nil {
		return fallback
	}
	return value
}

func mustDuration(raw string) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return d
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
