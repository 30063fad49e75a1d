// Package config provides configuration management for the magnet server.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/inkspire/magnet/internal/notifications"
)

// Environment represents the deployment environment.
type Environment string

const (
	// EnvDevelopment is the default local development environment.
	EnvDevelopment Environment = "development"
	// EnvStaging is the staging/pre-production environment.
	EnvStaging Environment = "staging"
	// EnvProduction is the production environment.
	EnvProduction Environment = "production"
)

// ServerConfig holds server-level configuration loaded from environment variables.
type ServerConfig struct {
	Environment Environment
	Port        int
	// SiteURL is the public base URL of the site; asset and download links in
	// dispatched emails are built against it.
	SiteURL string
	// AllowedOrigins for CORS. Empty means all origins allowed in dev mode.
	AllowedOrigins []string

	// Global router-wide rate limit.
	RateLimitRequests int64
	RateLimitPeriod   string

	// Intake endpoint rate limit: at most IntakeRateLimitRequests per client
	// key within IntakeRateLimitWindow.
	IntakeRateLimitRequests int
	IntakeRateLimitWindow   time.Duration

	// RedisURL, when set, backs the intake limiter with a shared store so
	// replicas draw from one budget. Empty means process-local memory.
	RedisURL string

	SMTP notifications.SMTPConfig
}

// LoadServerConfig reads server configuration from environment variables.
func LoadServerConfig() ServerConfig {
	env := Environment(os.Getenv("ENV"))
	switch env {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// valid
	default:
		env = EnvDevelopment
	}

	port := getEnvInt("PORT", 8080)
	if port <= 0 || port > 65535 {
		port = 8080
	}

	siteURL := strings.TrimRight(getEnvStr("SITE_URL", "http://localhost:8080"), "/")

	var origins []string
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}

	intakeWindow := getEnvDuration("INTAKE_RATE_LIMIT_WINDOW", time.Minute)

	return ServerConfig{
		Environment:             env,
		Port:                    port,
		SiteURL:                 siteURL,
		AllowedOrigins:          origins,
		RateLimitRequests:       int64(getEnvInt("RATE_LIMIT_REQUESTS", 100)),
		RateLimitPeriod:         getEnvStr("RATE_LIMIT_PERIOD", "1m"),
		IntakeRateLimitRequests: getEnvInt("INTAKE_RATE_LIMIT_REQUESTS", 6),
		IntakeRateLimitWindow:   intakeWindow,
		RedisURL:                os.Getenv("REDIS_URL"),
		SMTP: notifications.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
			TLS:      getEnvBool("SMTP_TLS", true),
		},
	}
}

// getEnvStr reads a string from an environment variable, returning the default if unset.
func getEnvStr(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvBool reads a boolean from an environment variable, returning the default if unset or invalid.
func getEnvBool(key string, defaultVal bool) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch val {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultVal
	}
}

// getEnvInt reads an integer from an environment variable, returning the default if unset or invalid.
func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// getEnvDuration reads a duration from an environment variable, returning the default if unset or invalid.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
