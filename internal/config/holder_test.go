// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestHolderReload(t *testing.T) {
	path := writeConfigFile(t, "logLevel: info\n")
	loader := NewLoader(path, "dev")

	initial, err := loader.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	h := NewHolder(initial, loader, path)
	defer h.Stop()

	updates := make(chan AppConfig, 1)
	h.RegisterListener(updates)

	if err := os.WriteFile(path, []byte("logLevel: debug\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := h.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := h.Get().LogLevel; got != "debug" {
		t.Errorf("LogLevel after reload = %q, want debug", got)
	}

	select {
	case cfg := <-updates:
		if cfg.LogLevel != "debug" {
			t.Errorf("listener got LogLevel %q", cfg.LogLevel)
		}
	case <-time.After(time.Second):
		t.Error("listener was not notified")
	}
}

func TestHolderReloadKeepsOldConfigOnError(t *testing.T) {
	path := writeConfigFile(t, "logLevel: warn\n")
	loader := NewLoader(path, "dev")

	initial, err := loader.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	h := NewHolder(initial, loader, path)
	defer h.Stop()

	if err := os.WriteFile(path, []byte("listenAddr: \"\"\nlistenAdr: typo\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := h.Reload(context.Background()); err == nil {
		t.Fatal("Reload: expected error for broken file")
	}
	if got := h.Get().LogLevel; got != "warn" {
		t.Errorf("LogLevel = %q, want previous value warn", got)
	}
}
