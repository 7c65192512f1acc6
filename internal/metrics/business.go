// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus counters for the chart pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chartsComputedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astrod_charts_computed_total",
		Help: "Natal chart computations by outcome",
	}, []string{"outcome"}) // outcome=success|invalid_input|geocode_error|ephemeris_error

	chartComputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "astrod_chart_compute_duration_seconds",
		Help:    "Time spent computing a natal chart (geocoding excluded)",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	geocodeLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astrod_geocode_lookups_total",
		Help: "Outbound geocoding lookups by outcome",
	}, []string{"outcome"}) // outcome=success|error|rate_limited

	geocodeCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astrod_geocode_cache_total",
		Help: "Geocode cache lookups by result",
	}, []string{"result"}) // result=hit|miss

	geocodeBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "astrod_geocode_breaker_state",
		Help: "Geocoder circuit breaker state (1 = current state)",
	}, []string{"state"}) // state=closed|open|half_open

	chartsStoredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astrod_charts_stored_total",
		Help: "Chart archive writes by outcome",
	}, []string{"outcome"}) // outcome=success|failure
)

func IncChartComputed(outcome string)     { chartsComputedTotal.WithLabelValues(outcome).Inc() }
func ObserveChartCompute(seconds float64) { chartComputeDuration.Observe(seconds) }

func IncGeocodeLookup(outcome string) { geocodeLookupsTotal.WithLabelValues(outcome).Inc() }
func IncGeocodeCache(result string)   { geocodeCacheTotal.WithLabelValues(result).Inc() }

// SetBreakerState marks the given state as current and clears the others.
func SetBreakerState(state string) {
	for _, s := range []string{"closed", "open", "half_open"} {
		v := 0.0
		if s == state {
			v = 1.0
		}
		geocodeBreakerState.WithLabelValues(s).Set(v)
	}
}

func IncChartStored(outcome string) { chartsStoredTotal.WithLabelValues(outcome).Inc() }
