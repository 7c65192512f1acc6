// SPDX-License-Identifier: MIT

// Package api implements the HTTP surface of the chart service.
package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/astrochart/astrod/internal/api/middleware"
	"github.com/astrochart/astrod/internal/config"
	"github.com/astrochart/astrod/internal/geocode"
	"github.com/astrochart/astrod/internal/health"
	astlog "github.com/astrochart/astrod/internal/log"
	"github.com/astrochart/astrod/internal/store"
)

// Server holds the handler dependencies. All fields except the chart
// store are required; a nil store disables the archive endpoints.
type Server struct {
	cfg      config.AppConfig
	resolver *geocode.Resolver
	charts   *store.ChartStore
	health   *health.Manager
	started  time.Time
	logger   zerolog.Logger
}

// Options collects the dependencies for New.
type Options struct {
	Config   config.AppConfig
	Resolver *geocode.Resolver
	Charts   *store.ChartStore
	Health   *health.Manager
}

// New constructs a Server. It does not start listening; the caller mounts
// Router on an http.Server.
func New(opts Options) *Server {
	return &Server{
		cfg:      opts.Config,
		resolver: opts.Resolver,
		charts:   opts.Charts,
		health:   opts.Health,
		started:  time.Now(),
		logger:   astlog.WithComponent("api"),
	}
}

// Router builds the chi router with the full middleware stack and all
// routes mounted.
func (s *Server) Router() *chi.Mux {
	tracing := ""
	if s.cfg.TracingEnabled {
		tracing = "astrod-api"
	}

	r := middleware.NewRouter(middleware.StackConfig{
		EnableCORS:            true,
		AllowedOrigins:        s.cfg.AllowedOrigins,
		EnableSecurityHeaders: true,
		EnableMetrics:         true,
		TracingService:        tracing,
		EnableLogging:         true,
		EnableRateLimit:       s.cfg.RateLimitEnabled,
		RateLimitPerMin:       s.cfg.RateLimitRPM,
	})

	r.Route("/astrology", func(r chi.Router) {
		r.Get("/chart", s.handleChart)
		r.Get("/positions", s.handlePositions)
		r.Get("/charts", s.handleChartList)
		r.Get("/charts/{id}", s.handleChartByID)
	})

	r.Get("/api/status", s.handleStatus)
	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)

	return r
}
