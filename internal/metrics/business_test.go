// SPDX-License-Identifier: MIT

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gatherFamily(t *testing.T, name string) *dto.MetricFamily {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric family %q not registered", name)
	return nil
}

func counterValue(mf *dto.MetricFamily, label, value string) float64 {
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == label && lp.GetValue() == value {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestChartComputedCounter(t *testing.T) {
	before := counterValue(gatherFamily(t, "astrod_charts_computed_total"), "outcome", "success")

	IncChartComputed("success")
	IncChartComputed("success")
	IncChartComputed("failure")

	mf := gatherFamily(t, "astrod_charts_computed_total")
	if got := counterValue(mf, "outcome", "success"); got != before+2 {
		t.Errorf("success count = %v, want %v", got, before+2)
	}
	if counterValue(mf, "outcome", "failure") < 1 {
		t.Error("failure count not incremented")
	}
}

func TestChartComputeHistogram(t *testing.T) {
	ObserveChartCompute(0.005)

	mf := gatherFamily(t, "astrod_chart_compute_duration_seconds")
	if mf.GetType() != dto.MetricType_HISTOGRAM {
		t.Fatalf("type = %v, want histogram", mf.GetType())
	}
	if mf.GetMetric()[0].GetHistogram().GetSampleCount() < 1 {
		t.Error("histogram has no samples")
	}
}

func TestBreakerStateGauge(t *testing.T) {
	SetBreakerState("open")

	mf := gatherFamily(t, "astrod_geocode_breaker_state")
	for _, m := range mf.GetMetric() {
		state := m.GetLabel()[0].GetValue()
		want := 0.0
		if state == "open" {
			want = 1.0
		}
		if got := m.GetGauge().GetValue(); got != want {
			t.Errorf("state %q = %v, want %v", state, got, want)
		}
	}

	// Exactly one state is current after a transition.
	SetBreakerState("closed")
	mf = gatherFamily(t, "astrod_geocode_breaker_state")
	sum := 0.0
	for _, m := range mf.GetMetric() {
		sum += m.GetGauge().GetValue()
	}
	if sum != 1.0 {
		t.Errorf("gauge sum = %v, want 1", sum)
	}
}

func TestCacheAndStoreCounters(t *testing.T) {
	IncGeocodeCache("hit")
	IncGeocodeLookup("success")
	IncChartStored("success")

	if counterValue(gatherFamily(t, "astrod_geocode_cache_total"), "result", "hit") < 1 {
		t.Error("cache hit not counted")
	}
	if counterValue(gatherFamily(t, "astrod_geocode_lookups_total"), "outcome", "success") < 1 {
		t.Error("lookup not counted")
	}
	if counterValue(gatherFamily(t, "astrod_charts_stored_total"), "outcome", "success") < 1 {
		t.Error("store write not counted")
	}
}
