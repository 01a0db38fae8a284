// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

// Package ranking orders accepted events for presentation. The composite
// score favors trusted sources and hyped events, with smaller contributions
// from date presence, venue presence, name informativeness and source
// confidence. Ties break deterministically so identical inputs always
// produce identical output order.
package ranking

import (
	"sort"
	"strings"

	"github.com/tomtom215/showfinder/internal/models"
)

// Component caps. The composite score stays within [0,1].
const (
	sourceCap     = 0.30
	hypeCap       = 0.40
	dateCap       = 0.10
	venueCap      = 0.10
	nameCap       = 0.05
	confidenceCap = 0.05
)

// nameLenTarget is the name length at which the name component saturates.
const nameLenTarget = 50

// Score computes the composite presentation score for one event.
func Score(e *models.Event) float64 {
	s := sourceComponent(e.Source)
	s += hypeCap * clamp01(e.HypeScore)
	if e.Start != nil {
		s += dateCap
	}
	if e.HasVenue() {
		s += venueCap
	}
	s += nameComponent(e.Name)
	s += confidenceCap * clamp01(e.Confidence)
	return s
}

// Rank sorts events by descending composite score in place. Equal scores
// fall back to source priority, then to case-insensitive name order.
func Rank(events []models.Event) {
	type scored struct {
		event models.Event
		score float64
	}

	ranked := make([]scored, len(events))
	for i := range events {
		ranked[i] = scored{event: events[i], score: Score(&events[i])}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		pi, pj := ranked[i].event.Source.Priority(), ranked[j].event.Source.Priority()
		if pi != pj {
			return pi < pj
		}
		return strings.ToLower(ranked[i].event.Name) < strings.ToLower(ranked[j].event.Name)
	})

	for i := range ranked {
		events[i] = ranked[i].event
	}
}

func sourceComponent(src models.Source) float64 {
	switch src.Priority() {
	case 1:
		return sourceCap
	case 2:
		return sourceCap * 2 / 3
	case 3:
		return sourceCap / 3
	default:
		return 0
	}
}

func nameComponent(name string) float64 {
	l := len(strings.TrimSpace(name))
	if l >= nameLenTarget {
		return nameCap
	}
	return nameCap * float64(l) / nameLenTarget
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
