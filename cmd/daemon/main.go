// SPDX-License-Identifier: MIT

// Command daemon runs the natal chart HTTP service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/astrochart/astrod/internal/api"
	"github.com/astrochart/astrod/internal/cache"
	"github.com/astrochart/astrod/internal/config"
	"github.com/astrochart/astrod/internal/daemon"
	"github.com/astrochart/astrod/internal/geocode"
	"github.com/astrochart/astrod/internal/health"
	astlog "github.com/astrochart/astrod/internal/log"
	"github.com/astrochart/astrod/internal/store"
	"github.com/astrochart/astrod/internal/telemetry"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	versionFlag := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("astrod %s\n", version)
		return
	}

	loader := config.NewLoader(*configPath, version)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "astrod: %v\n", err)
		os.Exit(1)
	}

	astlog.Configure(astlog.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: version,
	})
	logger := astlog.WithComponent("main")

	logger.Info().
		Str("version", version).
		Str("listen", cfg.ListenAddr).
		Str("environment", cfg.Environment).
		Msg("starting astrod")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	holder := config.NewHolder(cfg, loader, *configPath)
	defer holder.Stop()

	tracing, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.TracingEnabled,
		ServiceName:    "astrod",
		ServiceVersion: version,
		Environment:    cfg.Environment,
		ExporterType:   cfg.TracingExporter,
		Endpoint:       cfg.TracingEndpoint,
		SamplingRate:   cfg.TracingSampling,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	// Cache: Redis when configured, otherwise in-memory with a janitor.
	var (
		geoCache   cache.Cache
		redisCache *cache.RedisCache
	)
	if cfg.RedisAddr != "" {
		redisCache, err = cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, astlog.WithComponent("cache"))
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, falling back to in-memory cache")
		} else {
			geoCache = redisCache
		}
	}
	if geoCache == nil {
		geoCache = cache.NewMemoryCache(5 * time.Minute)
	}

	var charts *store.ChartStore
	if cfg.DBPath != "" {
		charts, err = store.NewChartStore(cfg.DBPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open chart store")
		}
	}

	geoClient := geocode.New(cfg.GeoBaseURL, geocode.Options{
		APIKey:            cfg.GeoAPIKey,
		Timeout:           cfg.GeoTimeout,
		RequestsPerSecond: cfg.GeoRequestsPerSec,
		Burst:             cfg.GeoBurst,
		BreakerThreshold:  cfg.GeoBreakerThreshold,
		BreakerReset:      cfg.GeoBreakerReset,
	})
	resolver := geocode.NewResolver(geoClient, geoCache, cfg.CacheTTL)

	healthManager := health.NewManager(version)
	if charts != nil {
		healthManager.RegisterChecker(health.NewPingChecker("store", 2*time.Second, charts.Ping))
	}
	if redisCache != nil {
		healthManager.RegisterChecker(health.NewPingChecker("redis", 2*time.Second, redisCache.HealthCheck))
	}
	if cfg.ReadyStrict {
		healthManager.RegisterChecker(health.NewPingChecker("geocoder", 3*time.Second, resolver.Ping))
	}

	server := api.New(api.Options{
		Config:   cfg,
		Resolver: resolver,
		Charts:   charts,
		Health:   healthManager,
	})

	manager, err := daemon.NewManager(config.ServerDefaults(cfg.ListenAddr), daemon.Deps{
		Logger:         astlog.Base(),
		APIHandler:     server.Router(),
		MetricsAddr:    cfg.MetricsAddr,
		MetricsHandler: promhttp.Handler(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create daemon manager")
	}

	if charts != nil {
		manager.RegisterShutdownHook("chart-store", func(context.Context) error {
			return charts.Close()
		})
	}
	if redisCache != nil {
		manager.RegisterShutdownHook("redis-cache", func(context.Context) error {
			return redisCache.Close()
		})
	}
	if stopper, ok := geoCache.(interface{ Stop() }); ok {
		manager.RegisterShutdownHook("memory-cache", func(context.Context) error {
			stopper.Stop()
			return nil
		})
	}
	manager.RegisterShutdownHook("tracing", tracing.Shutdown)

	app := daemon.NewApp(astlog.Base(), manager, holder)
	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("daemon exited with error")
		os.Exit(1)
	}

	logger.Info().Msg("astrod stopped")
}
