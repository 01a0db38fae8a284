// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

// Package dedup collapses near-identical events collected from multiple
// sources into a single record per real-world event.
//
// Deduplication runs in two stages:
//
//  1. Fingerprint pass: an exact hash over normalized (name, venue, day).
//     A collision is an immediate duplicate; the later occurrence is dropped.
//  2. Semantic pass: pairwise name/venue similarity plus date proximity,
//     merged through union-find so transitively-linked groups (A≈B, B≈C)
//     always collapse to exactly one survivor.
//
// The semantic pass is O(n²) over fingerprint survivors. That is acceptable
// at the result-set sizes this pipeline handles (a few hundred records,
// bounded by the caller's max-results and per-source quotas); callers must
// not feed unbounded inputs through it. An indexed nearest-neighbor scheme
// is deliberately out of scope.
package dedup

import (
	"math"

	"github.com/tomtom215/showfinder/internal/models"
	"github.com/tomtom215/showfinder/internal/textmatch"
)

// Thresholds for the semantic stage. A pair is a duplicate only when all
// three conditions hold.
const (
	// NameSimilarityThreshold is the minimum name ratio (exclusive).
	NameSimilarityThreshold = 0.85

	// VenueSimilarityThreshold is the minimum venue ratio (exclusive).
	VenueSimilarityThreshold = 0.80

	// MaxDateDriftDays is the maximum day difference between duplicates.
	MaxDateDriftDays = 1
)

// Result reports what the deduplicator did, for diagnostics.
type Result struct {
	Events  []models.Event
	Removed int
}

// Dedupe collapses duplicates and returns the survivors in input order.
// Within each duplicate group the record with the best source priority wins;
// confidence breaks priority ties. Running Dedupe on its own output is a
// no-op.
func Dedupe(events []models.Event) Result {
	if len(events) < 2 {
		return Result{Events: events}
	}

	unique := fingerprintPass(events)
	survivors := semanticPass(unique)

	return Result{
		Events:  survivors,
		Removed: len(events) - len(survivors),
	}
}

// fingerprintPass drops exact-hash collisions, keeping the better record of
// each colliding pair in the earlier record's position.
func fingerprintPass(events []models.Event) []models.Event {
	byPrint := make(map[string]int, len(events))
	out := make([]models.Event, 0, len(events))

	for _, e := range events {
		fp := e.Fingerprint()
		if idx, seen := byPrint[fp]; seen {
			if better(e, out[idx]) {
				out[idx] = e
			}
			continue
		}
		byPrint[fp] = len(out)
		out = append(out, e)
	}
	return out
}

// semanticPass unions all similar pairs and keeps one survivor per group.
func semanticPass(events []models.Event) []models.Event {
	n := len(events)
	if n < 2 {
		return events
	}

	uf := newUnionFind(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if similar(&events[i], &events[j]) {
				uf.union(i, j)
			}
		}
	}

	// Pick the best record of each component, preserving the position of
	// the component's first member so output order stays deterministic.
	best := make(map[int]int)
	for i := 0; i < n; i++ {
		root := uf.find(i)
		cur, ok := best[root]
		if !ok {
			best[root] = i
			continue
		}
		if better(events[i], events[cur]) {
			best[root] = i
		}
	}

	out := make([]models.Event, 0, len(best))
	emitted := make(map[int]bool, len(best))
	for i := 0; i < n; i++ {
		root := uf.find(i)
		if emitted[root] {
			continue
		}
		emitted[root] = true
		out = append(out, events[best[root]])
	}
	return out
}

// similar applies the three-way semantic duplicate rule.
func similar(a, b *models.Event) bool {
	if textmatch.Ratio(a.Name, b.Name) <= NameSimilarityThreshold {
		return false
	}
	if textmatch.Ratio(a.Venue, b.Venue) <= VenueSimilarityThreshold {
		return false
	}
	return datesClose(a, b)
}

// datesClose reports whether two events land within MaxDateDriftDays of each
// other at day granularity. Two undated events are considered close; a dated
// and an undated event are not.
func datesClose(a, b *models.Event) bool {
	da, aok := a.StartDay()
	db, bok := b.StartDay()
	if !aok && !bok {
		return true
	}
	if aok != bok {
		return false
	}
	drift := math.Abs(da.Sub(db).Hours()) / 24
	return drift <= MaxDateDriftDays
}

// better reports whether a should survive over b.
func better(a, b models.Event) bool {
	if a.Source.Priority() != b.Source.Priority() {
		return a.Source.Priority() < b.Source.Priority()
	}
	return a.Confidence > b.Confidence
}

// unionFind is a standard disjoint-set with path compression and union by
// rank, sized for the small n this package sees.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(x, y int) {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return
	}
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
}
