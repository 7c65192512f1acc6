// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader resolves configuration with the precedence ENV > file > defaults.
type Loader struct {
	path    string // optional YAML file
	version string
}

// NewLoader creates a loader. An empty path skips the file layer.
func NewLoader(path, version string) *Loader {
	return &Loader{path: path, version: version}
}

// Load builds and validates the effective configuration.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.path != "" {
		fileCfg, err := loadFile(l.path)
		if err != nil {
			return AppConfig{}, err
		}
		cfg, err = mergeFile(cfg, fileCfg)
		if err != nil {
			return AppConfig{}, err
		}
	}

	cfg = mergeEnv(cfg)
	cfg.Version = l.version

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// fileConfig is the YAML schema. Durations are Go duration strings ("10s").
type fileConfig struct {
	ListenAddr     string   `yaml:"listenAddr"`
	MetricsAddr    string   `yaml:"metricsAddr"`
	AllowedOrigins []string `yaml:"allowedOrigins"`

	LogLevel   string `yaml:"logLevel"`
	LogService string `yaml:"logService"`

	GeoBaseURL          string  `yaml:"geoBaseURL"`
	GeoAPIKey           string  `yaml:"geoAPIKey"`
	GeoTimeout          string  `yaml:"geoTimeout"`
	GeoRequestsPerSec   float64 `yaml:"geoRequestsPerSec"`
	GeoBurst            int     `yaml:"geoBurst"`
	GeoBreakerThreshold int     `yaml:"geoBreakerThreshold"`
	GeoBreakerReset     string  `yaml:"geoBreakerReset"`

	DefaultUTCOffset string `yaml:"defaultUTCOffset"`

	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	CacheTTL      string `yaml:"cacheTTL"`

	DBPath string `yaml:"dbPath"`

	RateLimitEnabled *bool `yaml:"rateLimitEnabled"`
	RateLimitRPM     int   `yaml:"rateLimitRPM"`

	ReadyStrict *bool `yaml:"readyStrict"`

	TracingEnabled  *bool   `yaml:"tracingEnabled"`
	TracingExporter string  `yaml:"tracingExporter"`
	TracingEndpoint string  `yaml:"tracingEndpoint"`
	TracingSampling float64 `yaml:"tracingSampling"`
	Environment     string  `yaml:"environment"`
}

// loadFile reads a YAML config file. Unknown keys are rejected so typos
// surface at startup instead of silently using defaults.
func loadFile(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return fileConfig{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// mergeFile overlays set file values onto the defaults.
func mergeFile(base AppConfig, file fileConfig) (AppConfig, error) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setString(&base.ListenAddr, file.ListenAddr)
	setString(&base.MetricsAddr, file.MetricsAddr)
	if len(file.AllowedOrigins) > 0 {
		base.AllowedOrigins = file.AllowedOrigins
	}
	setString(&base.LogLevel, file.LogLevel)
	setString(&base.LogService, file.LogService)
	setString(&base.GeoBaseURL, file.GeoBaseURL)
	setString(&base.GeoAPIKey, file.GeoAPIKey)
	setString(&base.DefaultUTCOffset, file.DefaultUTCOffset)
	setString(&base.RedisAddr, file.RedisAddr)
	setString(&base.RedisPassword, file.RedisPassword)
	setString(&base.DBPath, file.DBPath)
	setString(&base.TracingExporter, file.TracingExporter)
	setString(&base.TracingEndpoint, file.TracingEndpoint)
	setString(&base.Environment, file.Environment)

	if file.GeoRequestsPerSec > 0 {
		base.GeoRequestsPerSec = file.GeoRequestsPerSec
	}
	if file.GeoBurst > 0 {
		base.GeoBurst = file.GeoBurst
	}
	if file.GeoBreakerThreshold > 0 {
		base.GeoBreakerThreshold = file.GeoBreakerThreshold
	}
	if file.RedisDB != 0 {
		base.RedisDB = file.RedisDB
	}
	if file.RateLimitRPM > 0 {
		base.RateLimitRPM = file.RateLimitRPM
	}
	if file.TracingSampling > 0 {
		base.TracingSampling = file.TracingSampling
	}

	if file.RateLimitEnabled != nil {
		base.RateLimitEnabled = *file.RateLimitEnabled
	}
	if file.ReadyStrict != nil {
		base.ReadyStrict = *file.ReadyStrict
	}
	if file.TracingEnabled != nil {
		base.TracingEnabled = *file.TracingEnabled
	}

	var err error
	if base.GeoTimeout, err = mergeDuration(base.GeoTimeout, file.GeoTimeout, "geoTimeout"); err != nil {
		return AppConfig{}, err
	}
	if base.GeoBreakerReset, err = mergeDuration(base.GeoBreakerReset, file.GeoBreakerReset, "geoBreakerReset"); err != nil {
		return AppConfig{}, err
	}
	if base.CacheTTL, err = mergeDuration(base.CacheTTL, file.CacheTTL, "cacheTTL"); err != nil {
		return AppConfig{}, err
	}
	return base, nil
}

func mergeDuration(base time.Duration, v, key string) (time.Duration, error) {
	if v == "" {
		return base, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}
