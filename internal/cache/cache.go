// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

// Package cache stores finished discovery results keyed by the request
// parameters, so repeated searches for the same location and window skip
// the provider round-trips entirely.
//
// Two implementations exist: a Redis-backed store for deployments that
// share results across instances, and an in-process LRU for single-node
// and test use. Both are safe for concurrent use. Cache failures are
// never fatal; the engine treats any error as a miss.
package cache

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/showfinder/internal/models"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Entry is one cached discovery result.
type Entry struct {
	Events      []models.Event     `json:"events"`
	Diagnostics models.Diagnostics `json:"diagnostics"`
	StoredAt    time.Time          `json:"stored_at"`
}

// Store is the discovery result cache.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry *Entry, ttl time.Duration) error
	Close() error
}

// Key derives the cache key for a discovery request. Categories are sorted
// so equivalent requests hit the same entry regardless of input order; the
// window participates at day granularity.
func Key(location string, categories []models.Category, from, to time.Time, maxResults int) string {
	cats := make([]string, len(categories))
	for i, c := range categories {
		cats[i] = string(c)
	}
	sort.Strings(cats)

	raw := fmt.Sprintf("%s|%s|%s|%s|%d",
		strings.ToLower(strings.TrimSpace(location)),
		strings.Join(cats, ","),
		from.Format("2006-01-02"),
		to.Format("2006-01-02"),
		maxResults,
	)

	h := fnv.New64a()
	_, _ = h.Write([]byte(raw))
	return fmt.Sprintf("discover:%016x", h.Sum64())
}
