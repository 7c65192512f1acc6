// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "astrod.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadDefaultsOnly(t *testing.T) {
	cfg, err := NewLoader("", "1.2.3").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":10000" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.Version != "1.2.3" {
		t.Errorf("Version = %q, want 1.2.3", cfg.Version)
	}
}

func TestLoadFileOverlay(t *testing.T) {
	path := writeConfigFile(t, `
listenAddr: ":8080"
logLevel: debug
geoTimeout: 5s
cacheTTL: 1h
rateLimitEnabled: false
allowedOrigins:
  - https://astro.example
`)

	cfg, err := NewLoader(path, "dev").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.GeoTimeout != 5*time.Second {
		t.Errorf("GeoTimeout = %v", cfg.GeoTimeout)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if cfg.RateLimitEnabled {
		t.Error("RateLimitEnabled should be false")
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://astro.example" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}

	// File keys the overlay left unset keep their defaults.
	if cfg.DefaultUTCOffset != "+10:00" {
		t.Errorf("DefaultUTCOffset = %q", cfg.DefaultUTCOffset)
	}
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := writeConfigFile(t, "listenAddr: \":8080\"\n")
	t.Setenv("ASTROD_LISTEN", ":7070")

	cfg, err := NewLoader(path, "dev").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":7070" {
		t.Errorf("ListenAddr = %q, want env value :7070", cfg.ListenAddr)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfigFile(t, "listenAdr: \":8080\"\n")

	_, err := NewLoader(path, "dev").Load()
	if err == nil {
		t.Fatal("Load: expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "parse config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfigFile(t, "cacheTTL: soon\n")

	_, err := NewLoader(path, "dev").Load()
	if err == nil {
		t.Fatal("Load: expected error for bad duration")
	}
	if !strings.Contains(err.Error(), "cacheTTL") {
		t.Errorf("error %q does not name the bad key", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml"), "dev").Load()
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoadInvalidConfigRejected(t *testing.T) {
	path := writeConfigFile(t, "defaultUTCOffset: \"sideways\"\n")

	_, err := NewLoader(path, "dev").Load()
	if err == nil {
		t.Fatal("Load: expected validation error")
	}
	if !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("unexpected error: %v", err)
	}
}
