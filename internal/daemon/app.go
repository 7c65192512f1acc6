// SPDX-License-Identifier: MIT

package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/astrochart/astrod/internal/config"
	astlog "github.com/astrochart/astrod/internal/log"
)

// App owns the long-lived runtime lifecycle (config watcher, reload
// wiring) and delegates server management to Manager.
type App struct {
	logger       zerolog.Logger
	manager      Manager
	cfgHolder    *config.Holder
	reloadSignal os.Signal
}

// NewApp creates the app orchestrator. The config holder is optional.
func NewApp(logger zerolog.Logger, manager Manager, cfgHolder *config.Holder) *App {
	return &App{
		logger:       logger,
		manager:      manager,
		cfgHolder:    cfgHolder,
		reloadSignal: syscall.SIGHUP,
	}
}

// Run starts the background subsystems and blocks until ctx is cancelled
// or a fatal error occurs.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, ctx := errgroup.WithContext(ctx)

	// Config watcher is best effort: startup must not fail because the
	// watcher could not be created.
	if a.cfgHolder != nil {
		if err := a.cfgHolder.StartWatcher(ctx); err != nil {
			a.logger.Warn().Err(err).Str(astlog.FieldEvent, "config.watcher_start_failed").Msg("failed to start config watcher")
		}
	}

	// Apply reloaded settings that take effect without a restart.
	if a.cfgHolder != nil {
		updates := make(chan config.AppConfig, 1)
		a.cfgHolder.RegisterListener(updates)

		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case cfg := <-updates:
					a.applyRuntimeConfig(cfg)
				}
			}
		})
	}

	// SIGHUP trigger for manual reload.
	if a.cfgHolder != nil && a.reloadSignal != nil {
		g.Go(func() error {
			hupChan := make(chan os.Signal, 1)
			signal.Notify(hupChan, a.reloadSignal)
			defer signal.Stop(hupChan)

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-hupChan:
					a.logger.Info().
						Str(astlog.FieldEvent, "config.reload_signal").
						Str("signal", a.reloadSignal.String()).
						Msg("received reload signal, reloading config")

					if err := a.cfgHolder.Reload(context.Background()); err != nil {
						a.logger.Warn().
							Err(err).
							Str(astlog.FieldEvent, "config.reload_failed").
							Msg("config reload failed")
					}
				}
			}
		})
	}

	// Main server lifecycle.
	g.Go(func() error {
		err := a.manager.Start(ctx)
		if err != nil {
			_ = a.manager.Shutdown(context.Background())
		}
		return err
	})

	return g.Wait()
}

// applyRuntimeConfig adjusts the settings a reload can change in-process.
// Currently that is the log level; listener addresses need a restart.
func (a *App) applyRuntimeConfig(cfg config.AppConfig) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		a.logger.Warn().
			Str(astlog.FieldEvent, "config.bad_log_level").
			Str("level", cfg.LogLevel).
			Msg("reloaded log level is invalid, keeping current")
		return
	}
	if level == zerolog.GlobalLevel() {
		return
	}
	zerolog.SetGlobalLevel(level)
	a.logger.Info().
		Str(astlog.FieldEvent, "config.log_level_applied").
		Str("level", level.String()).
		Msg("log level updated")
}
