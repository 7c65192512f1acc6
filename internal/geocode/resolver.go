// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/astrochart/astrod/internal/cache"
	"github.com/astrochart/astrod/internal/log"
	"github.com/astrochart/astrod/internal/metrics"
)

// Resolver caches lookups in front of the provider client.
type Resolver struct {
	client *Client
	cache  cache.Cache
	ttl    time.Duration
}

// NewResolver wraps a client with a cache. A nil cache disables caching.
func NewResolver(client *Client, c cache.Cache, ttl time.Duration) *Resolver {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &Resolver{client: client, cache: c, ttl: ttl}
}

// Resolve returns coordinates for a location, from cache when possible.
func (r *Resolver) Resolve(ctx context.Context, location string) (Coordinates, error) {
	key := CacheKey(location)

	if v, ok := r.cache.Get(key); ok {
		if coords, ok := decodeCached(v); ok {
			metrics.IncGeocodeCache("hit")
			return coords, nil
		}
	}
	metrics.IncGeocodeCache("miss")

	coords, err := r.client.Lookup(ctx, location)
	if err != nil {
		return Coordinates{}, err
	}

	r.cache.Set(key, coords, r.ttl)

	logger := log.WithComponentFromContext(ctx, "geocode")
	logger.Debug().
		Str(log.FieldEvent, "geocode.resolved").
		Str(log.FieldLocation, location).
		Float64(log.FieldLatitude, coords.Latitude).
		Float64(log.FieldLongitude, coords.Longitude).
		Msg("resolved location")

	return coords, nil
}

// Ping exposes the underlying provider check for readiness probes.
func (r *Resolver) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

// CacheKey normalizes a location string into a stable cache key: Unicode
// whitespace trimmed, inner runs of whitespace collapsed, lowercased.
func CacheKey(location string) string {
	fields := strings.FieldsFunc(location, unicode.IsSpace)
	return "geocode:" + strings.ToLower(strings.Join(fields, " "))
}

// decodeCached accepts both the in-memory representation (Coordinates) and
// the JSON round-trip representation produced by the Redis cache.
func decodeCached(v any) (Coordinates, bool) {
	switch val := v.(type) {
	case Coordinates:
		return val, true
	case map[string]any:
		lat, latOK := val["lat"].(float64)
		lng, lngOK := val["lng"].(float64)
		if !latOK || !lngOK {
			return Coordinates{}, false
		}
		addr, _ := val["formatted_address"].(string)
		return Coordinates{Latitude: lat, Longitude: lng, Address: addr}, true
	default:
		return Coordinates{}, false
	}
}
