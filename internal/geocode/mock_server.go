// SPDX-License-Identifier: MIT

package geocode

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockServer provides a configurable geocoding provider mock for testing.
type MockServer struct {
	*httptest.Server
	mu        sync.RWMutex
	locations map[string]Coordinates
	status    string // forced provider status, "" means normal operation
	failures  int    // number of HTTP 500s before success
	requests  int
}

// NewMockServer creates a provider mock with a few well-known locations.
func NewMockServer() *MockServer {
	mock := &MockServer{
		locations: map[string]Coordinates{
			"sydney":    {Latitude: -33.8688, Longitude: 151.2093, Address: "Sydney NSW, Australia"},
			"london":    {Latitude: 51.5074, Longitude: -0.1278, Address: "London, UK"},
			"new york":  {Latitude: 40.7128, Longitude: -74.0060, Address: "New York, NY, USA"},
			"reykjavik": {Latitude: 64.1466, Longitude: -21.9426, Address: "Reykjavik, Iceland"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/maps/api/geocode/json", mock.handleGeocode)
	mock.Server = httptest.NewServer(mux)
	return mock
}

// AddLocation registers a location (matched case-insensitively by the mock).
func (m *MockServer) AddLocation(name string, coords Coordinates) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[name] = coords
}

// ForceStatus makes the mock answer every request with the given provider
// status ("ZERO_RESULTS", "REQUEST_DENIED", ...). Empty restores normal mode.
func (m *MockServer) ForceStatus(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}

// FailTimes makes the next n requests fail with HTTP 500.
func (m *MockServer) FailTimes(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = n
}

// Requests reports how many requests the mock has served.
func (m *MockServer) Requests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests
}

func (m *MockServer) handleGeocode(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.requests++
	if m.failures > 0 {
		m.failures--
		m.mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	forced := m.status
	address := r.URL.Query().Get("address")
	coords, found := m.locations[CacheKey(address)[len("geocode:"):]]
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if forced != "" {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": forced, "results": []any{}})
		return
	}
	if !found {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ZERO_RESULTS", "results": []any{}})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "OK",
		"results": []map[string]any{{
			"formatted_address": coords.Address,
			"geometry": map[string]any{
				"location": map[string]float64{
					"lat": coords.Latitude,
					"lng": coords.Longitude,
				},
			},
		}},
	})
}
