// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	astlog "github.com/astrochart/astrod/internal/log"
)

// Holder keeps the active configuration and supports hot reloading from
// file (fsnotify) or manual trigger (SIGHUP, admin endpoint).
type Holder struct {
	mu      sync.RWMutex
	current AppConfig
	loader  *Loader
	path    string
	watcher *fsnotify.Watcher
	logger  zerolog.Logger

	listenersMu sync.RWMutex
	listeners   []chan<- AppConfig
}

// NewHolder creates a holder seeded with the initial configuration.
func NewHolder(initial AppConfig, loader *Loader, path string) *Holder {
	return &Holder{
		current: initial,
		loader:  loader,
		path:    path,
		logger:  astlog.WithComponent("config"),
	}
}

// Get returns the current configuration snapshot.
func (h *Holder) Get() AppConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Reload loads and validates a fresh configuration. On any error the
// previous configuration stays active, so a broken file edit cannot take
// the service down.
func (h *Holder) Reload(_ context.Context) error {
	h.logger.Info().Str(astlog.FieldEvent, "config.reload_start").Msg("reloading configuration")

	newCfg, err := h.loader.Load()
	if err != nil {
		h.logger.Error().
			Err(err).
			Str(astlog.FieldEvent, "config.reload_failed").
			Msg("failed to load new configuration")
		return fmt.Errorf("load config: %w", err)
	}

	h.mu.Lock()
	oldCfg := h.current
	h.current = newCfg
	h.mu.Unlock()

	h.notifyListeners(newCfg)
	h.logChanges(oldCfg, newCfg)

	h.logger.Info().
		Str(astlog.FieldEvent, "config.reload_success").
		Msg("configuration reloaded")
	return nil
}

// StartWatcher watches the config file for changes. A no-op when the
// service runs ENV-only without a file.
func (h *Holder) StartWatcher(ctx context.Context) error {
	if h.path == "" {
		h.logger.Info().
			Str(astlog.FieldEvent, "config.watcher_disabled").
			Msg("config file watcher disabled (ENV-only configuration)")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	h.watcher = watcher

	if err := watcher.Add(h.path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config file: %w", err)
	}

	h.logger.Info().
		Str(astlog.FieldEvent, "config.watcher_started").
		Str("path", h.path).
		Msg("watching config file for changes")

	go h.watchLoop(ctx)
	return nil
}

func (h *Holder) watchLoop(ctx context.Context) {
	// Debounce rapid successive writes from editors into one reload.
	var debounceTimer *time.Timer
	const debounce = 500 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str(astlog.FieldEvent, "config.watcher_stopped").Msg("config watcher stopped")
			if h.watcher != nil {
				_ = h.watcher.Close()
			}
			return

		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			// Write and Create cover vim, nano and atomic-rename saves.
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				h.logger.Debug().
					Str(astlog.FieldEvent, "config.file_changed").
					Str("op", event.Op.String()).
					Msg("config file changed")

				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounce, func() {
					if err := h.Reload(ctx); err != nil {
						h.logger.Error().
							Err(err).
							Str(astlog.FieldEvent, "config.auto_reload_failed").
							Msg("automatic config reload failed")
					}
				})
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().
				Err(err).
				Str(astlog.FieldEvent, "config.watcher_error").
				Msg("config watcher error")
		}
	}
}

// Stop closes the file watcher if one is running.
func (h *Holder) Stop() {
	if h.watcher != nil {
		_ = h.watcher.Close()
	}
}

// RegisterListener registers a channel that receives every successfully
// reloaded configuration. The caller owns the channel.
func (h *Holder) RegisterListener(ch chan<- AppConfig) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()
	h.listeners = append(h.listeners, ch)
}

func (h *Holder) notifyListeners(newCfg AppConfig) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, ch := range h.listeners {
		select {
		case ch <- newCfg:
		default:
			h.logger.Warn().
				Str(astlog.FieldEvent, "config.listener_skip").
				Msg("skipped notifying listener (channel full)")
		}
	}
}

func (h *Holder) logChanges(old, newCfg AppConfig) {
	if old.LogLevel != newCfg.LogLevel {
		h.logger.Info().
			Str("old", old.LogLevel).
			Str("new", newCfg.LogLevel).
			Msg("config changed: LogLevel")
	}
	if old.DefaultUTCOffset != newCfg.DefaultUTCOffset {
		h.logger.Info().
			Str("old", old.DefaultUTCOffset).
			Str("new", newCfg.DefaultUTCOffset).
			Msg("config changed: DefaultUTCOffset")
	}
	if old.CacheTTL != newCfg.CacheTTL {
		h.logger.Info().
			Dur("old", old.CacheTTL).
			Dur("new", newCfg.CacheTTL).
			Msg("config changed: CacheTTL")
	}
	if old.RateLimitRPM != newCfg.RateLimitRPM {
		h.logger.Info().
			Int("old", old.RateLimitRPM).
			Int("new", newCfg.RateLimitRPM).
			Msg("config changed: RateLimitRPM")
	}
	if old.GeoBaseURL != newCfg.GeoBaseURL {
		h.logger.Info().
			Str(astlog.FieldEvent, "config.geo_base_changed").
			Msg("config changed: GeoBaseURL")
	}
}
