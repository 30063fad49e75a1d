package config

import (
	"testing"
	"time"
)

func TestLoadServerConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"ENV", "PORT", "SITE_URL", "CORS_ORIGINS",
		"RATE_LIMIT_REQUESTS", "RATE_LIMIT_PERIOD",
		"INTAKE_RATE_LIMIT_REQUESTS", "INTAKE_RATE_LIMIT_WINDOW",
		"REDIS_URL", "SMTP_HOST", "SMTP_PORT", "SMTP_FROM", "SMTP_TLS",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadServerConfig()

	if cfg.Environment != EnvDevelopment {
		t.Errorf("expected development environment, got %s", cfg.Environment)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.SiteURL != "http://localhost:8080" {
		t.Errorf("expected default site URL, got %s", cfg.SiteURL)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("expected no allowed origins, got %v", cfg.AllowedOrigins)
	}
	if cfg.RateLimitRequests != 100 {
		t.Errorf("expected default rate limit 100, got %d", cfg.RateLimitRequests)
	}
	if cfg.RateLimitPeriod != "1m" {
		t.Errorf("expected default rate limit period 1m, got %s", cfg.RateLimitPeriod)
	}
	if cfg.IntakeRateLimitRequests != 6 {
		t.Errorf("expected default intake rate limit 6, got %d", cfg.IntakeRateLimitRequests)
	}
	if cfg.IntakeRateLimitWindow != time.Minute {
		t.Errorf("expected default intake window 1m, got %s", cfg.IntakeRateLimitWindow)
	}
	if cfg.RedisURL != "" {
		t.Errorf("expected empty redis URL, got %s", cfg.RedisURL)
	}
	if cfg.SMTP.Port != 587 {
		t.Errorf("expected default SMTP port 587, got %d", cfg.SMTP.Port)
	}
	if !cfg.SMTP.TLS {
		t.Error("expected SMTP TLS enabled by default")
	}
}

func TestLoadServerConfig_Environment(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want Environment
	}{
		{"production", "production", EnvProduction},
		{"staging", "staging", EnvStaging},
		{"development", "development", EnvDevelopment},
		{"invalid falls back to development", "banana", EnvDevelopment},
		{"empty falls back to development", "", EnvDevelopment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENV", tt.env)
			cfg := LoadServerConfig()
			if cfg.Environment != tt.want {
				t.Errorf("expected %s, got %s", tt.want, cfg.Environment)
			}
		})
	}
}

func TestLoadServerConfig_InvalidPort(t *testing.T) {
	tests := []struct {
		name string
		port string
	}{
		{"not a number", "abc"},
		{"zero", "0"},
		{"negative", "-1"},
		{"too large", "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", tt.port)
			cfg := LoadServerConfig()
			if cfg.Port != 8080 {
				t.Errorf("expected fallback port 8080, got %d", cfg.Port)
			}
		})
	}
}

func TestLoadServerConfig_SiteURLTrailingSlash(t *testing.T) {
	t.Setenv("SITE_URL", "https://example.com/")
	cfg := LoadServerConfig()
	if cfg.SiteURL != "https://example.com" {
		t.Errorf("expected trailing slash stripped, got %s", cfg.SiteURL)
	}
}

func TestLoadServerConfig_CORSOrigins(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://example.com,https://www.example.com")
	cfg := LoadServerConfig()
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %d", len(cfg.AllowedOrigins))
	}
	if cfg.AllowedOrigins[0] != "https://example.com" {
		t.Errorf("unexpected first origin: %s", cfg.AllowedOrigins[0])
	}
}

func TestLoadServerConfig_IntakeRateLimit(t *testing.T) {
	t.Setenv("INTAKE_RATE_LIMIT_REQUESTS", "10")
	t.Setenv("INTAKE_RATE_LIMIT_WINDOW", "30s")
	cfg := LoadServerConfig()
	if cfg.IntakeRateLimitRequests != 10 {
		t.Errorf("expected 10 intake requests, got %d", cfg.IntakeRateLimitRequests)
	}
	if cfg.IntakeRateLimitWindow != 30*time.Second {
		t.Errorf("expected 30s intake window, got %s", cfg.IntakeRateLimitWindow)
	}
}

func TestLoadServerConfig_InvalidIntakeWindow(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not a duration", "soon"},
		{"negative", "-1m"},
		{"zero", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("INTAKE_RATE_LIMIT_WINDOW", tt.value)
			cfg := LoadServerConfig()
			if cfg.IntakeRateLimitWindow != time.Minute {
				t.Errorf("expected fallback window 1m, got %s", cfg.IntakeRateLimitWindow)
			}
		})
	}
}

func TestLoadServerConfig_SMTP(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_USERNAME", "mailer")
	t.Setenv("SMTP_PASSWORD", "secret")
	t.Setenv("SMTP_FROM", "hello@example.com")
	t.Setenv("SMTP_TLS", "false")

	cfg := LoadServerConfig()

	if cfg.SMTP.Host != "smtp.example.com" {
		t.Errorf("unexpected SMTP host: %s", cfg.SMTP.Host)
	}
	if cfg.SMTP.Port != 465 {
		t.Errorf("unexpected SMTP port: %d", cfg.SMTP.Port)
	}
	if cfg.SMTP.Username != "mailer" {
		t.Errorf("unexpected SMTP username: %s", cfg.SMTP.Username)
	}
	if cfg.SMTP.From != "hello@example.com" {
		t.Errorf("unexpected SMTP from: %s", cfg.SMTP.From)
	}
	if cfg.SMTP.TLS {
		t.Error("expected SMTP TLS disabled")
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"yes", true},
		{" TRUE ", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"maybe", true}, // falls back to default
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			if got := getEnvBool("TEST_BOOL", true); got != tt.want {
				t.Errorf("getEnvBool(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
