// SPDX-License-Identifier: MIT

// Package config loads and validates the daemon configuration with the
// precedence ENV > file > defaults.
package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/astrochart/astrod/internal/ephemeris"
)

// AppConfig is the resolved daemon configuration.
type AppConfig struct {
	// HTTP
	ListenAddr     string   `yaml:"listenAddr"`
	MetricsAddr    string   `yaml:"metricsAddr"` // empty disables the metrics listener
	AllowedOrigins []string `yaml:"allowedOrigins"`

	// Logging
	LogLevel   string `yaml:"logLevel"`
	LogService string `yaml:"logService"`

	// Geocoding provider
	GeoBaseURL          string        `yaml:"geoBaseURL"`
	GeoAPIKey           string        `yaml:"geoAPIKey"`
	GeoTimeout          time.Duration `yaml:"geoTimeout"`
	GeoRequestsPerSec   float64       `yaml:"geoRequestsPerSec"`
	GeoBurst            int           `yaml:"geoBurst"`
	GeoBreakerThreshold int           `yaml:"geoBreakerThreshold"`
	GeoBreakerReset     time.Duration `yaml:"geoBreakerReset"`

	// Chart computation
	DefaultUTCOffset string `yaml:"defaultUTCOffset"`

	// Cache
	RedisAddr     string        `yaml:"redisAddr"` // empty selects the in-memory cache
	RedisPassword string        `yaml:"redisPassword"`
	RedisDB       int           `yaml:"redisDB"`
	CacheTTL      time.Duration `yaml:"cacheTTL"`

	// Chart archive
	DBPath string `yaml:"dbPath"` // empty disables the archive

	// Rate limiting
	RateLimitEnabled bool `yaml:"rateLimitEnabled"`
	RateLimitRPM     int  `yaml:"rateLimitRPM"`

	// Readiness
	ReadyStrict bool `yaml:"readyStrict"` // probe the geocoder in /readyz

	// Tracing
	TracingEnabled  bool    `yaml:"tracingEnabled"`
	TracingExporter string  `yaml:"tracingExporter"`
	TracingEndpoint string  `yaml:"tracingEndpoint"`
	TracingSampling float64 `yaml:"tracingSampling"`
	Environment     string  `yaml:"environment"`

	// Version is injected by the loader, not configurable.
	Version string `yaml:"-"`
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		ListenAddr:          ":10000",
		LogLevel:            "info",
		LogService:          "astrod",
		GeoBaseURL:          "https://maps.googleapis.com",
		GeoTimeout:          10 * time.Second,
		GeoRequestsPerSec:   5,
		GeoBurst:            5,
		GeoBreakerThreshold: 5,
		GeoBreakerReset:     30 * time.Second,
		DefaultUTCOffset:    "+10:00",
		CacheTTL:            24 * time.Hour,
		DBPath:              "astrod.db",
		RateLimitEnabled:    true,
		RateLimitRPM:        60,
		TracingExporter:     "grpc",
		TracingSampling:     0.1,
		Environment:         "production",
	}
}

// mergeEnv overlays ASTROD_* environment variables onto cfg.
func mergeEnv(cfg AppConfig) AppConfig {
	cfg.ListenAddr = ParseString("ASTROD_LISTEN", cfg.ListenAddr)
	cfg.MetricsAddr = ParseString("ASTROD_METRICS_ADDR", cfg.MetricsAddr)
	if origins := ParseString("ASTROD_ALLOWED_ORIGINS", ""); origins != "" {
		cfg.AllowedOrigins = splitCSV(origins)
	}

	cfg.LogLevel = ParseString("ASTROD_LOG_LEVEL", cfg.LogLevel)
	cfg.LogService = ParseString("ASTROD_LOG_SERVICE", cfg.LogService)

	cfg.GeoBaseURL = ParseString("ASTROD_GEO_BASE_URL", cfg.GeoBaseURL)
	cfg.GeoAPIKey = ParseString("ASTROD_GEO_API_KEY", cfg.GeoAPIKey)
	cfg.GeoTimeout = ParseDuration("ASTROD_GEO_TIMEOUT", cfg.GeoTimeout)
	cfg.GeoRequestsPerSec = ParseFloat("ASTROD_GEO_RPS", cfg.GeoRequestsPerSec)
	cfg.GeoBurst = ParseInt("ASTROD_GEO_BURST", cfg.GeoBurst)
	cfg.GeoBreakerThreshold = ParseInt("ASTROD_GEO_BREAKER_THRESHOLD", cfg.GeoBreakerThreshold)
	cfg.GeoBreakerReset = ParseDuration("ASTROD_GEO_BREAKER_RESET", cfg.GeoBreakerReset)

	cfg.DefaultUTCOffset = ParseString("ASTROD_TZ_OFFSET", cfg.DefaultUTCOffset)

	cfg.RedisAddr = ParseString("ASTROD_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = ParseString("ASTROD_REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = ParseInt("ASTROD_REDIS_DB", cfg.RedisDB)
	cfg.CacheTTL = ParseDuration("ASTROD_CACHE_TTL", cfg.CacheTTL)

	cfg.DBPath = ParseString("ASTROD_DB_PATH", cfg.DBPath)

	cfg.RateLimitEnabled = ParseBool("ASTROD_RATE_LIMIT_ENABLED", cfg.RateLimitEnabled)
	cfg.RateLimitRPM = ParseInt("ASTROD_RATE_LIMIT_RPM", cfg.RateLimitRPM)

	cfg.ReadyStrict = ParseBool("ASTROD_READY_STRICT", cfg.ReadyStrict)

	cfg.TracingEnabled = ParseBool("ASTROD_TRACING_ENABLED", cfg.TracingEnabled)
	cfg.TracingExporter = ParseString("ASTROD_TRACING_EXPORTER", cfg.TracingExporter)
	cfg.TracingEndpoint = ParseString("ASTROD_TRACING_ENDPOINT", cfg.TracingEndpoint)
	cfg.TracingSampling = ParseFloat("ASTROD_TRACING_SAMPLING", cfg.TracingSampling)
	cfg.Environment = ParseString("ASTROD_ENVIRONMENT", cfg.Environment)

	return cfg
}

// Validate rejects configurations the daemon cannot run with.
func (c AppConfig) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if _, _, err := net.SplitHostPort(normalizeHostPort(c.ListenAddr)); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", c.ListenAddr, err)
	}
	if c.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(normalizeHostPort(c.MetricsAddr)); err != nil {
			return fmt.Errorf("invalid metrics address %q: %w", c.MetricsAddr, err)
		}
	}
	if c.GeoBaseURL == "" {
		return fmt.Errorf("geocoder base URL must not be empty")
	}
	if c.GeoRequestsPerSec < 0 {
		return fmt.Errorf("geocoder request budget must not be negative")
	}
	if c.RateLimitRPM <= 0 && c.RateLimitEnabled {
		return fmt.Errorf("rate limit must be positive when enabled")
	}
	if _, err := ephemeris.ParseBirthInstant("2000-01-01", "12:00", c.DefaultUTCOffset); err != nil {
		return fmt.Errorf("invalid default UTC offset %q: %w", c.DefaultUTCOffset, err)
	}
	if c.TracingEnabled && c.TracingEndpoint == "" {
		return fmt.Errorf("tracing enabled but no endpoint configured")
	}
	return nil
}

// normalizeHostPort makes ":8080" parseable by net.SplitHostPort.
func normalizeHostPort(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "0.0.0.0" + addr
	}
	return addr
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
