// SPDX-License-Identifier: MIT

package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.ListenAddr != ":10000" {
		t.Errorf("ListenAddr = %q, want :10000", cfg.ListenAddr)
	}
	if cfg.DefaultUTCOffset != "+10:00" {
		t.Errorf("DefaultUTCOffset = %q, want +10:00", cfg.DefaultUTCOffset)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.CacheTTL != 24*time.Hour {
		t.Errorf("CacheTTL = %v, want 24h", cfg.CacheTTL)
	}
	if !cfg.RateLimitEnabled {
		t.Error("RateLimitEnabled should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestMergeEnv(t *testing.T) {
	t.Setenv("ASTROD_LISTEN", ":9999")
	t.Setenv("ASTROD_GEO_API_KEY", "secret")
	t.Setenv("ASTROD_GEO_TIMEOUT", "3s")
	t.Setenv("ASTROD_GEO_RPS", "2.5")
	t.Setenv("ASTROD_RATE_LIMIT_ENABLED", "false")
	t.Setenv("ASTROD_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ASTROD_REDIS_DB", "3")

	cfg := mergeEnv(Defaults())

	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.GeoAPIKey != "secret" {
		t.Errorf("GeoAPIKey = %q", cfg.GeoAPIKey)
	}
	if cfg.GeoTimeout != 3*time.Second {
		t.Errorf("GeoTimeout = %v", cfg.GeoTimeout)
	}
	if cfg.GeoRequestsPerSec != 2.5 {
		t.Errorf("GeoRequestsPerSec = %v", cfg.GeoRequestsPerSec)
	}
	if cfg.RateLimitEnabled {
		t.Error("RateLimitEnabled should be false")
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://a.example" || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %d", cfg.RedisDB)
	}
}

func TestMergeEnvInvalidValuesFallBack(t *testing.T) {
	t.Setenv("ASTROD_GEO_TIMEOUT", "not-a-duration")
	t.Setenv("ASTROD_RATE_LIMIT_RPM", "abc")

	cfg := mergeEnv(Defaults())

	if cfg.GeoTimeout != 10*time.Second {
		t.Errorf("GeoTimeout = %v, want default 10s", cfg.GeoTimeout)
	}
	if cfg.RateLimitRPM != 60 {
		t.Errorf("RateLimitRPM = %d, want default 60", cfg.RateLimitRPM)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"valid defaults", func(c *AppConfig) {}, ""},
		{"empty listen addr", func(c *AppConfig) { c.ListenAddr = "" }, "listen address"},
		{"bad listen addr", func(c *AppConfig) { c.ListenAddr = "no-port" }, "invalid listen address"},
		{"port-only listen addr", func(c *AppConfig) { c.ListenAddr = ":10000" }, ""},
		{"bad metrics addr", func(c *AppConfig) { c.MetricsAddr = "also-no-port" }, "invalid metrics address"},
		{"empty geo base URL", func(c *AppConfig) { c.GeoBaseURL = "" }, "geocoder base URL"},
		{"negative geo budget", func(c *AppConfig) { c.GeoRequestsPerSec = -1 }, "must not be negative"},
		{"zero rpm while enabled", func(c *AppConfig) { c.RateLimitRPM = 0 }, "rate limit"},
		{"zero rpm while disabled", func(c *AppConfig) { c.RateLimitRPM = 0; c.RateLimitEnabled = false }, ""},
		{"bad UTC offset", func(c *AppConfig) { c.DefaultUTCOffset = "+25:00" }, "UTC offset"},
		{"garbage UTC offset", func(c *AppConfig) { c.DefaultUTCOffset = "sydney" }, "UTC offset"},
		{"tracing without endpoint", func(c *AppConfig) { c.TracingEnabled = true }, "tracing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate: expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeHostPort(t *testing.T) {
	if got := normalizeHostPort(":8080"); got != "0.0.0.0:8080" {
		t.Errorf("normalizeHostPort(:8080) = %q", got)
	}
	if got := normalizeHostPort("localhost:8080"); got != "localhost:8080" {
		t.Errorf("normalizeHostPort(localhost:8080) = %q", got)
	}
}
