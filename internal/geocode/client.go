// SPDX-License-Identifier: MIT

// Package geocode resolves free-form location strings to coordinates via a
// Google-Geocoding-compatible provider.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/astrochart/astrod/internal/metrics"
)

// Coordinates is a resolved geographic position.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Address   string  `json:"formatted_address,omitempty"`
}

// Options configures a Client.
type Options struct {
	APIKey  string
	Timeout time.Duration

	// RequestsPerSecond budgets outbound calls to the provider. Zero disables
	// the budget.
	RequestsPerSecond float64
	Burst             int

	// Breaker settings; zero threshold disables the breaker.
	BreakerThreshold int
	BreakerReset     time.Duration
}

// Client talks to the geocoding provider.
type Client struct {
	base    string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	breaker *Breaker
}

// New creates a geocoding client for the given provider base URL.
func New(base string, opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		base:   strings.TrimRight(base, "/"),
		apiKey: opts.APIKey,
		http:   &http.Client{Timeout: timeout},
	}
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	if opts.BreakerThreshold > 0 {
		c.breaker = NewBreaker(opts.BreakerThreshold, opts.BreakerReset)
	}
	return c
}

// providerResponse matches the Google Geocoding API wire format.
type providerResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Lookup resolves a location string to coordinates.
func (c *Client) Lookup(ctx context.Context, location string) (Coordinates, error) {
	if c.limiter != nil && !c.limiter.Allow() {
		metrics.IncGeocodeLookup("rate_limited")
		return Coordinates{}, &ProviderError{Sentinel: ErrRateLimited, Location: location}
	}

	var (
		coords    Coordinates
		lookupErr error
	)
	call := func() error {
		coords, lookupErr = c.lookup(ctx, location)
		// A definitive provider verdict (not found, denied, over quota) is
		// a healthy round trip; only transport and malformed-response
		// failures may trip the breaker.
		if lookupErr != nil && !breakerFailure(lookupErr) {
			return nil
		}
		return lookupErr
	}

	var err error
	if c.breaker != nil {
		err = c.breaker.Execute(call)
	} else {
		err = call()
	}
	if err == nil {
		err = lookupErr
	}
	if err != nil {
		metrics.IncGeocodeLookup("error")
		return Coordinates{}, err
	}
	metrics.IncGeocodeLookup("success")
	return coords, nil
}

// breakerFailure reports whether err indicates provider unhealthiness.
func breakerFailure(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable) || errors.Is(err, ErrUpstreamBadResponse)
}

func (c *Client) lookup(ctx context.Context, location string) (Coordinates, error) {
	q := url.Values{}
	q.Set("address", location)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/maps/api/geocode/json?"+q.Encode(), nil)
	if err != nil {
		return Coordinates{}, &ProviderError{Sentinel: ErrUpstreamUnavailable, Location: location, Err: err}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return Coordinates{}, &ProviderError{Sentinel: ErrUpstreamUnavailable, Location: location, Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return Coordinates{}, &ProviderError{Sentinel: ErrUpstreamUnavailable, Location: location, Status: res.StatusCode}
	}

	var p providerResponse
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		return Coordinates{}, &ProviderError{Sentinel: ErrUpstreamBadResponse, Location: location, Err: err}
	}

	switch p.Status {
	case "OK":
	case "ZERO_RESULTS":
		return Coordinates{}, &ProviderError{Sentinel: ErrNotFound, Location: location}
	case "REQUEST_DENIED":
		return Coordinates{}, &ProviderError{Sentinel: ErrDenied, Location: location, Detail: p.Status}
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		return Coordinates{}, &ProviderError{Sentinel: ErrQuotaExceeded, Location: location, Detail: p.Status}
	default:
		return Coordinates{}, &ProviderError{Sentinel: ErrUpstreamBadResponse, Location: location, Detail: p.Status}
	}

	if len(p.Results) == 0 {
		return Coordinates{}, &ProviderError{Sentinel: ErrNotFound, Location: location}
	}

	r := p.Results[0]
	return Coordinates{
		Latitude:  r.Geometry.Location.Lat,
		Longitude: r.Geometry.Location.Lng,
		Address:   r.FormattedAddress,
	}, nil
}

// Ping performs a minimal provider round-trip, used by readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/maps/api/geocode/json?address=ping", nil)
	if err != nil {
		return err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	return nil
}
