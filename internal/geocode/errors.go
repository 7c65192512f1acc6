// SPDX-License-Identifier: MIT

package geocode

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrNotFound            = errors.New("geocode: location not found")
	ErrDenied              = errors.New("geocode: request denied by provider")
	ErrQuotaExceeded       = errors.New("geocode: provider quota exceeded")
	ErrUpstreamUnavailable = errors.New("geocode: provider unreachable or transport failure")
	ErrUpstreamBadResponse = errors.New("geocode: invalid response format or malformed data")
	ErrRateLimited         = errors.New("geocode: outbound request budget exhausted")
)

// ProviderError wraps the sentinel errors with request context.
type ProviderError struct {
	Sentinel error
	Location string
	Status   int
	Detail   string
	Err      error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("geocode %q: %v", e.Location, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Sentinel
}
