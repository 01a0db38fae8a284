// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package social

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/showfinder/internal/logging"
)

// DefaultMaxResults applies when a request does not set a limit.
const DefaultMaxResults = 20

// minEventNameLen rejects queries too short to mean anything.
const minEventNameLen = 3

// weightedSource pairs a platform with its priority multiplier. Twitter is
// the primary source: real-time posts from people actually going. Reddit
// trails as forum discussion.
type weightedSource struct {
	source PostSource
	weight float64
}

// Engine runs priority-ordered attendee discovery across the configured
// post sources.
type Engine struct {
	sources []weightedSource
	now     func() time.Time
}

// NewEngine assembles the engine. Sources are queried in the order given;
// earlier sources get higher priority weights.
func NewEngine(sources ...PostSource) (*Engine, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("social: no post sources configured")
	}
	weighted := make([]weightedSource, len(sources))
	for i, s := range sources {
		weight := 1.2
		if i > 0 {
			weight = 1.0
		}
		weighted[i] = weightedSource{source: s, weight: weight}
	}
	return &Engine{sources: weighted, now: time.Now}, nil
}

// Request is one attendee discovery run.
type Request struct {
	EventName  string
	EventDate  string
	MaxResults int
}

// Discover searches every post source in priority order, deduplicates
// authors across sources, applies priority weighting to relevance, and
// returns the top MaxResults by weighted relevance. Source failures are
// isolated into the per-source stats, matching the event pipeline's
// failure philosophy.
func (e *Engine) Discover(ctx context.Context, req Request) (*Result, error) {
	if len(strings.TrimSpace(req.EventName)) < minEventNameLen {
		return nil, fmt.Errorf("social: event name too short")
	}
	if req.MaxResults <= 0 {
		req.MaxResults = DefaultMaxResults
	}

	cleanName := OptimizeEventName(req.EventName)
	if cleanName == "" {
		cleanName = req.EventName
	}

	result := &Result{Attendees: []Attendee{}}
	seen := make(map[string]struct{})

	for _, ws := range e.sources {
		started := e.now()
		stats := SourceStats{Source: ws.source.Name()}

		found, err := ws.source.Search(ctx, Query{
			EventName: cleanName,
			EventDate: req.EventDate,
			Limit:     req.MaxResults,
		})
		stats.Elapsed = e.now().Sub(started)
		stats.Found = len(found)

		if err != nil {
			stats.Failed = err.Error()
			logging.Ctx(ctx).Warn().
				Err(err).
				Str("source", ws.source.Name()).
				Msg("[SOCIAL] Post source failed")
			result.Sources = append(result.Sources, stats)
			continue
		}

		for _, a := range found {
			key := ws.source.Name() + ":" + strings.ToLower(a.Username)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			a.Relevance = a.Relevance * ws.weight
			if a.Relevance > 1.0 {
				a.Relevance = 1.0
			}
			result.Attendees = append(result.Attendees, a)
			stats.Unique++
		}
		result.Sources = append(result.Sources, stats)
	}

	sort.SliceStable(result.Attendees, func(i, j int) bool {
		return result.Attendees[i].Relevance > result.Attendees[j].Relevance
	})
	if len(result.Attendees) > req.MaxResults {
		result.Attendees = result.Attendees[:req.MaxResults]
	}

	logging.Ctx(ctx).Info().
		Str("event", cleanName).
		Int("attendees", len(result.Attendees)).
		Msg("[SOCIAL] Attendee discovery complete")
	return result, nil
}
