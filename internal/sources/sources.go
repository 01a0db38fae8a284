// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

// Package sources fetches raw events from the external discovery providers.
//
// Each provider gets an Adapter that owns its request shape, response
// parsing, and provider-to-canonical field mapping. All adapters share the
// same resilient HTTP client: per-adapter rate limiting, a circuit breaker,
// bounded retry on throttling, and hard failure on credential rejection.
//
// Adapters normalize aggressively at the parse boundary so downstream
// stages never see provider quirks: placeholder venues are cleared, vague
// dates resolve against the request window or stay nil, and missing
// categories are inferred from the event name.
package sources

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/tomtom215/showfinder/internal/models"
)

// ErrAuth marks credential rejection (HTTP 401/403). It is a configuration
// failure: the caller must not retry and should surface the source as
// misconfigured rather than merely unavailable.
var ErrAuth = errors.New("sources: provider rejected credentials")

// Query is one discovery request against a single source.
type Query struct {
	// Location is the city or region to search, as the caller provided it.
	Location string

	// Categories narrows the search. Empty means all categories.
	Categories []models.Category

	// From and To bound the acceptable event dates, inclusive, at day
	// granularity. Also the reference window for year inference on
	// provider dates that omit the year.
	From time.Time
	To   time.Time

	// Limit caps how many events the adapter should return. Adapters may
	// return fewer; they must not return more.
	Limit int
}

// Adapter is one event provider.
type Adapter interface {
	// Name identifies the source for quotas, diagnostics and logging.
	Name() models.Source

	// Fetch returns raw events for the query. A nil error with zero
	// events is a valid outcome; an error means the source failed and
	// contributes nothing to this request.
	Fetch(ctx context.Context, q Query) ([]models.Event, error)
}

// flexString decodes a JSON field that providers send as either a single
// string or a list of strings. Lists collapse to a comma-joined string.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if data[0] == '[' {
		var parts []string
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		*f = flexString(joinNonEmpty(parts))
		return nil
	}
	// null or unexpected scalar: treat as absent
	*f = ""
	return nil
}

func joinNonEmpty(parts []string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}
