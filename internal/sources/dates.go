// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package sources

import (
	"strings"
	"time"
)

// yearedLayouts are tried first: the provider supplied a full date.
var yearedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"01/02/2006",
}

// yearlessLayouts cover provider dates that omit the year ("Mar 22",
// "Sat, Mar 22"). The year is inferred against the request window.
var yearlessLayouts = []string{
	"Jan 2",
	"January 2",
	"Mon, Jan 2",
	"Monday, January 2",
	"2 Jan",
}

// ResolveDate parses a provider date string into a concrete time. Yearless
// dates get the candidate year that lands inside [from, to]; when no
// candidate fits, the candidate nearest the window is used and the strict
// date filter downstream rejects it. The second return is false when the
// string cannot be parsed at all; such events keep a nil Start.
func ResolveDate(raw string, from, to time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	// Providers often append time-of-day or venue hints after a dash.
	if i := strings.Index(raw, " – "); i > 0 {
		raw = strings.TrimSpace(raw[:i])
	}

	for _, layout := range yearedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	for _, layout := range yearlessLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		return inferYear(t, from, to), true
	}

	return time.Time{}, false
}

// inferYear picks the year for a yearless date. Candidates are the window's
// boundary years; the first candidate inside the window wins, otherwise the
// candidate closest to the window. Inference never guarantees range
// membership: the caller's date filter still applies.
func inferYear(t, from, to time.Time) time.Time {
	years := []int{from.Year()}
	if to.Year() != from.Year() {
		years = append(years, to.Year())
	} else {
		years = append(years, from.Year()+1)
	}

	var best time.Time
	bestDist := time.Duration(-1)
	for _, y := range years {
		cand := time.Date(y, t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
		if !cand.Before(from) && !cand.After(to) {
			return cand
		}
		d := windowDistance(cand, from, to)
		if bestDist < 0 || d < bestDist {
			best = cand
			bestDist = d
		}
	}
	return best
}

func windowDistance(t, from, to time.Time) time.Duration {
	if t.Before(from) {
		return from.Sub(t)
	}
	if t.After(to) {
		return t.Sub(to)
	}
	return 0
}
