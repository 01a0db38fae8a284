// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package quota

import (
	"testing"

	"github.com/tomtom215/showfinder/internal/models"
)

var allSources = []models.Source{
	models.SourceSerpAPI,
	models.SourcePredictHQ,
	models.SourceTicketmaster,
}

func newAllocator(t *testing.T) *Allocator {
	t.Helper()
	a, err := New(DefaultWeights())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return a
}

func TestNewRejectsBadWeights(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("New(nil) should fail")
	}
	if _, err := New(map[models.Source]float64{models.SourceSerpAPI: -0.5}); err == nil {
		t.Error("New() with negative weight should fail")
	}
	if _, err := New(map[models.Source]float64{models.SourceSerpAPI: 0}); err == nil {
		t.Error("New() with zero weight sum should fail")
	}
}

func TestTargetsDefaultRatio(t *testing.T) {
	a := newAllocator(t)
	alloc := a.Targets(20, allSources)

	if alloc[models.SourceSerpAPI] != 10 {
		t.Errorf("serpapi target = %d, want 10", alloc[models.SourceSerpAPI])
	}
	if alloc[models.SourcePredictHQ] != 5 {
		t.Errorf("predicthq target = %d, want 5", alloc[models.SourcePredictHQ])
	}
	if alloc[models.SourceTicketmaster] != 5 {
		t.Errorf("ticketmaster target = %d, want 5", alloc[models.SourceTicketmaster])
	}
}

func TestTargetsConservation(t *testing.T) {
	a := newAllocator(t)

	// Sum of targets must equal the request for any total and any
	// combination of available sources.
	totals := []int{1, 2, 3, 7, 10, 19, 50, 100, 333}
	availSets := [][]models.Source{
		allSources,
		{models.SourceSerpAPI, models.SourceTicketmaster},
		{models.SourcePredictHQ},
	}

	for _, total := range totals {
		for _, avail := range availSets {
			alloc := a.Targets(total, avail)
			if alloc.Total() != total {
				t.Errorf("Targets(%d, %v).Total() = %d, want %d", total, avail, alloc.Total(), total)
			}
			for src, n := range alloc {
				if n < 0 {
					t.Errorf("Targets(%d, %v)[%s] = %d, want >= 0", total, avail, src, n)
				}
			}
		}
	}
}

func TestTargetsEmpty(t *testing.T) {
	a := newAllocator(t)
	if alloc := a.Targets(0, allSources); alloc.Total() != 0 {
		t.Errorf("Targets(0) total = %d, want 0", alloc.Total())
	}
	if alloc := a.Targets(10, nil); alloc.Total() != 0 {
		t.Errorf("Targets with no sources total = %d, want 0", alloc.Total())
	}
}

func TestRedistributeFailedSource(t *testing.T) {
	a := newAllocator(t)
	targets := a.Targets(20, allSources)

	// Primary source failed entirely; the other two over-fetched.
	actuals := Allocation{
		models.SourceSerpAPI:      0,
		models.SourcePredictHQ:    20,
		models.SourceTicketmaster: 20,
	}

	final := a.Redistribute(targets, actuals)

	if final[models.SourceSerpAPI] != 0 {
		t.Errorf("failed source final = %d, want 0", final[models.SourceSerpAPI])
	}
	if final.Total() != 20 {
		t.Errorf("final total = %d, want 20", final.Total())
	}
	// The two surviving sources split the shortfall proportionally
	// (equal weights here), so they end up equal.
	if final[models.SourcePredictHQ] != final[models.SourceTicketmaster] {
		t.Errorf("equal-weight donors got unequal shares: %d vs %d",
			final[models.SourcePredictHQ], final[models.SourceTicketmaster])
	}
}

func TestRedistributeNeverExceedsActual(t *testing.T) {
	a := newAllocator(t)
	targets := a.Targets(40, allSources)

	actuals := Allocation{
		models.SourceSerpAPI:      3, // badly short
		models.SourcePredictHQ:    12,
		models.SourceTicketmaster: 11,
	}

	final := a.Redistribute(targets, actuals)

	for src, n := range final {
		if n < 0 {
			t.Errorf("final[%s] = %d, want >= 0", src, n)
		}
		if n > actuals[src] {
			t.Errorf("final[%s] = %d exceeds actual %d", src, n, actuals[src])
		}
	}
}

func TestRedistributeAllSourcesFailed(t *testing.T) {
	a := newAllocator(t)
	targets := a.Targets(10, allSources)

	final := a.Redistribute(targets, Allocation{})
	if final.Total() != 0 {
		t.Errorf("final total = %d, want 0 when every source failed", final.Total())
	}
}

func TestRedistributeNoShortfall(t *testing.T) {
	a := newAllocator(t)
	targets := a.Targets(20, allSources)

	actuals := Allocation{
		models.SourceSerpAPI:      30,
		models.SourcePredictHQ:    30,
		models.SourceTicketmaster: 30,
	}

	final := a.Redistribute(targets, actuals)
	for src, target := range targets {
		if final[src] != target {
			t.Errorf("final[%s] = %d, want unchanged target %d", src, final[src], target)
		}
	}
}
