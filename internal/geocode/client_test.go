// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func TestClientLookup(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	client := New(mock.URL, Options{APIKey: "test-key"})

	coords, err := client.Lookup(context.Background(), "Sydney")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if math.Abs(coords.Latitude-(-33.8688)) > 1e-9 || math.Abs(coords.Longitude-151.2093) > 1e-9 {
		t.Errorf("coords = %+v, want Sydney", coords)
	}
	if coords.Address == "" {
		t.Error("expected formatted address")
	}
}

func TestClientLookupNotFound(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	client := New(mock.URL, Options{})

	_, err := client.Lookup(context.Background(), "Atlantis")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProviderError, got %T", err)
	}
	if pe.Location != "Atlantis" {
		t.Errorf("Location = %q, want Atlantis", pe.Location)
	}
}

func TestClientLookupProviderStatuses(t *testing.T) {
	tests := []struct {
		status string
		want   error
	}{
		{"ZERO_RESULTS", ErrNotFound},
		{"REQUEST_DENIED", ErrDenied},
		{"OVER_QUERY_LIMIT", ErrQuotaExceeded},
		{"OVER_DAILY_LIMIT", ErrQuotaExceeded},
		{"UNKNOWN_ERROR", ErrUpstreamBadResponse},
	}

	mock := NewMockServer()
	defer mock.Close()
	client := New(mock.URL, Options{})

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			mock.ForceStatus(tt.status)
			_, err := client.Lookup(context.Background(), "London")
			if !errors.Is(err, tt.want) {
				t.Errorf("status %s: got %v, want %v", tt.status, err, tt.want)
			}
		})
	}
}

func TestClientLookupServerError(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	client := New(mock.URL, Options{})
	mock.FailTimes(1)

	_, err := client.Lookup(context.Background(), "London")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}

	// Next request succeeds again.
	if _, err := client.Lookup(context.Background(), "London"); err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
}

func TestClientOutboundBudget(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	// One request per hour, burst 1: the second immediate call must be
	// rejected locally without reaching the provider.
	client := New(mock.URL, Options{RequestsPerSecond: 1.0 / 3600, Burst: 1})

	if _, err := client.Lookup(context.Background(), "Sydney"); err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	_, err := client.Lookup(context.Background(), "Sydney")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if mock.Requests() != 1 {
		t.Errorf("provider requests = %d, want 1", mock.Requests())
	}
}

func TestClientBreakerOpensAfterFailures(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	client := New(mock.URL, Options{BreakerThreshold: 2, BreakerReset: time.Hour})
	mock.FailTimes(10)

	for i := 0; i < 2; i++ {
		if _, err := client.Lookup(context.Background(), "Sydney"); err == nil {
			t.Fatalf("lookup %d: expected failure", i)
		}
	}

	// Threshold reached: the breaker rejects without a provider call.
	before := mock.Requests()
	_, err := client.Lookup(context.Background(), "Sydney")
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if mock.Requests() != before {
		t.Error("open breaker must not call the provider")
	}
}

func TestClientBreakerIgnoresProviderVerdicts(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	client := New(mock.URL, Options{BreakerThreshold: 2, BreakerReset: time.Hour})

	// A flood of unknown locations answers ZERO_RESULTS every time; those
	// are healthy round trips and must not open the circuit.
	for i := 0; i < 10; i++ {
		if _, err := client.Lookup(context.Background(), "Atlantis"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("lookup %d: err = %v, want ErrNotFound", i, err)
		}
	}
	if got := client.breaker.State(); got != StateClosed {
		t.Fatalf("breaker state = %v, want closed after not-found flood", got)
	}

	coords, err := client.Lookup(context.Background(), "Sydney")
	if err != nil {
		t.Fatalf("valid lookup after flood: %v", err)
	}
	if coords.Latitude == 0 && coords.Longitude == 0 {
		t.Error("valid lookup returned zero coordinates")
	}

	// Denied and over-quota verdicts are definitive answers too.
	mock.ForceStatus("REQUEST_DENIED")
	for i := 0; i < 5; i++ {
		if _, err := client.Lookup(context.Background(), "Sydney"); !errors.Is(err, ErrDenied) {
			t.Fatalf("denied lookup %d: err = %v, want ErrDenied", i, err)
		}
	}
	if got := client.breaker.State(); got != StateClosed {
		t.Errorf("breaker state = %v, want closed after denied answers", got)
	}

	// Transport failures still trip it.
	mock.ForceStatus("")
	mock.FailTimes(2)
	for i := 0; i < 2; i++ {
		if _, err := client.Lookup(context.Background(), "Sydney"); err == nil {
			t.Fatalf("lookup %d: expected transport failure", i)
		}
	}
	if got := client.breaker.State(); got != StateOpen {
		t.Errorf("breaker state = %v, want open after transport failures", got)
	}
}
