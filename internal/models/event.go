// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

// Package models defines the canonical data types that flow through the
// discovery pipeline: the Event value object produced by source adapters and
// the Diagnostics summary returned alongside every discovery result.
//
// Events are immutable value objects outside the parsing step. Adapters build
// and enrich them; every later stage (date filter, deduplicator, quality
// filter, ranker) consumes them read-only, except for the quality fields
// (QualityScore, Accepted, RejectionReasons) which are populated exactly once
// by the quality filter.
package models

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"time"
)

// Source identifies which adapter produced an Event.
type Source string

const (
	// SourceSerpAPI is the primary source (Google Events via SerpAPI).
	SourceSerpAPI Source = "serpapi"

	// SourcePredictHQ is the secondary source.
	SourcePredictHQ Source = "predicthq"

	// SourceTicketmaster is the tertiary source.
	SourceTicketmaster Source = "ticketmaster"
)

// Priority returns the source rank used for dedup survivor selection and
// ranking tie-breaks. Lower is better; unknown sources sort last.
func (s Source) Priority() int {
	switch s {
	case SourceSerpAPI:
		return 1
	case SourcePredictHQ:
		return 2
	case SourceTicketmaster:
		return 3
	default:
		return 99
	}
}

// Category is the coarse caller-facing event classification inferred from
// keywords in the event name.
type Category string

const (
	CategoryMusic      Category = "music"
	CategorySports     Category = "sports"
	CategoryTech       Category = "tech"
	CategoryBusiness   Category = "business"
	CategoryArts       Category = "arts"
	CategoryTheater    Category = "theater"
	CategoryComedy     Category = "comedy"
	CategoryFood       Category = "food"
	CategoryFestival   Category = "festival"
	CategoryConference Category = "conference"
	CategoryOther      Category = "other"
)

// Event is the canonical unit flowing through the discovery pipeline.
//
// Invariants once an Event leaves adapter code:
//   - Name is never empty
//   - Location is a single city/region string, never an address list
//   - Venue is either empty ("no venue") or a genuine place name, never a
//     placeholder token such as "TBD" or "Various Venues"
type Event struct {
	// Name is the free-text title. Primary dedup and scoring signal.
	Name string `json:"name"`

	// Start is the resolved start time, nil when the provider gave only a
	// vague or unparseable date string. Presence is a quality signal.
	Start *time.Time `json:"start,omitempty"`

	// RawDate is the original date string as received, kept for display
	// even when Start is unset.
	RawDate string `json:"raw_date,omitempty"`

	// Venue is the specific place name, empty when unknown.
	Venue string `json:"venue,omitempty"`

	// Location is the normalized city/region string.
	Location string `json:"location"`

	Category Category `json:"category"`
	Source   Source   `json:"source"`

	// SourceURL deep-links to the provider's event detail page when the
	// provider supplied one, or a constructed fallback URL otherwise.
	SourceURL string `json:"source_url,omitempty"`

	// Confidence is the source-reported or inferred trust in the record,
	// in [0,1].
	Confidence float64 `json:"confidence"`

	// HypeScore is a heuristic notability signal in [0,1] derived from
	// name keywords and venue type.
	HypeScore float64 `json:"hype_score"`

	// Quality fields, populated by the quality filter stage only.
	QualityScore     float64  `json:"quality_score"`
	Accepted         bool     `json:"accepted"`
	RejectionReasons []string `json:"rejection_reasons,omitempty"`
}

// nonWord strips punctuation from fingerprint input so that cosmetic
// differences ("AC/DC Live!" vs "ACDC Live") collapse to the same hash.
var nonWord = regexp.MustCompile(`[^\w\s]`)

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeKey lowercases s, strips punctuation, and collapses runs of
// whitespace to single underscores. Shared by fingerprinting and the
// semantic deduplicator's similarity inputs.
func NormalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonWord.ReplaceAllString(s, "")
	return whitespace.ReplaceAllString(s, "_")
}

// Fingerprint returns the exact-duplicate hash over normalized
// (name, venue, day). Two events with the same fingerprint are treated as
// the same real-world event regardless of source.
func (e *Event) Fingerprint() string {
	day := ""
	if e.Start != nil {
		day = e.Start.Format("2006-01-02")
	}
	key := NormalizeKey(e.Name) + "|" + NormalizeKey(e.Venue) + "|" + day

	h := fnv.New64a()
	_, _ = h.Write([]byte(key)) // fnv Write never fails
	return fmt.Sprintf("%016x", h.Sum64())
}

// StartDay returns the start date truncated to day granularity, and whether
// a start time is present at all. Range membership is compared at day
// granularity throughout the pipeline.
func (e *Event) StartDay() (time.Time, bool) {
	if e.Start == nil {
		return time.Time{}, false
	}
	y, m, d := e.Start.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

// HasVenue reports whether the event carries a usable venue. Adapter code
// clears placeholder venues, so non-empty means genuine.
func (e *Event) HasVenue() bool {
	return strings.TrimSpace(e.Venue) != ""
}
