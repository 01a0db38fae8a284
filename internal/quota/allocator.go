// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

// Package quota computes per-source target result counts from a fixed
// source-weight ratio and redistributes unmet quota when a source
// underperforms or fails outright.
package quota

import (
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/showfinder/internal/models"
)

// Allocation maps each source to a result count.
type Allocation map[models.Source]int

// Allocator derives per-source targets from configured weights.
type Allocator struct {
	weights map[models.Source]float64
}

// DefaultWeights is the documented default ratio: primary 50%,
// secondary 25%, tertiary 25%.
func DefaultWeights() map[models.Source]float64 {
	return map[models.Source]float64{
		models.SourceSerpAPI:      0.50,
		models.SourcePredictHQ:    0.25,
		models.SourceTicketmaster: 0.25,
	}
}

// New creates an Allocator. Weights must be non-negative and sum to a
// positive value; they are renormalized over whichever sources are available
// at allocation time, so the sum does not need to be exactly 1.0.
func New(weights map[models.Source]float64) (*Allocator, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("quota: no source weights configured")
	}
	total := 0.0
	for src, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("quota: negative weight %v for source %s", w, src)
		}
		total += w
	}
	if total <= 0 {
		return nil, fmt.Errorf("quota: source weights sum to zero")
	}

	cp := make(map[models.Source]float64, len(weights))
	for src, w := range weights {
		cp[src] = w
	}
	return &Allocator{weights: cp}, nil
}

// Targets computes the initial per-source targets for a request of total
// results across the available sources. Weights are renormalized over the
// available set, each target is floored, and the rounding remainder is
// handed out one result at a time in priority order so the targets sum to
// exactly total.
func (a *Allocator) Targets(total int, available []models.Source) Allocation {
	alloc := make(Allocation, len(available))
	if total <= 0 || len(available) == 0 {
		return alloc
	}

	weightSum := 0.0
	for _, src := range available {
		weightSum += a.weights[src]
	}
	if weightSum <= 0 {
		// No configured weights for any available source: split evenly.
		for _, src := range available {
			alloc[src] = total / len(available)
		}
		a.topUp(alloc, total, available)
		return alloc
	}

	assigned := 0
	for _, src := range available {
		t := int(math.Floor(float64(total) * a.weights[src] / weightSum))
		alloc[src] = t
		assigned += t
	}
	a.topUp(alloc, total, available)
	return alloc
}

// topUp distributes the floor-rounding remainder in priority order.
func (a *Allocator) topUp(alloc Allocation, total int, available []models.Source) {
	assigned := 0
	for _, t := range alloc {
		assigned += t
	}

	ordered := make([]models.Source, len(available))
	copy(ordered, available)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Priority() < ordered[j].Priority()
	})

	for i := 0; assigned < total && len(ordered) > 0; i++ {
		src := ordered[i%len(ordered)]
		alloc[src]++
		assigned++
	}
}

// Redistribute reconciles targets with what each source actually returned.
// Shortfall from sources that came up short is pooled and handed to sources
// holding surplus records (actual > target), proportional to their original
// weights, in a single pass — never iteratively. The returned allocation is
// how many records to take from each source; it never exceeds the source's
// actual count and never goes negative.
func (a *Allocator) Redistribute(targets, actuals Allocation) Allocation {
	final := make(Allocation, len(targets))

	pool := 0
	surplusWeight := 0.0
	var donors []models.Source

	for src, target := range targets {
		actual := actuals[src]
		if actual < target {
			final[src] = actual
			pool += target - actual
		} else {
			final[src] = target
			if actual > target {
				donors = append(donors, src)
				surplusWeight += a.weights[src]
			}
		}
	}

	if pool == 0 || len(donors) == 0 || surplusWeight <= 0 {
		return final
	}

	// Deterministic donor order for stable allocations.
	sort.Slice(donors, func(i, j int) bool {
		return donors[i].Priority() < donors[j].Priority()
	})

	remaining := pool
	for _, src := range donors {
		share := int(math.Round(float64(pool) * a.weights[src] / surplusWeight))
		if share > remaining {
			share = remaining
		}
		surplus := actuals[src] - final[src]
		if share > surplus {
			share = surplus
		}
		final[src] += share
		remaining -= share
	}

	// Whatever the proportional pass could not place goes to donors with
	// capacity left, in priority order. Still a single bounded sweep.
	for _, src := range donors {
		if remaining == 0 {
			break
		}
		capacity := actuals[src] - final[src]
		if capacity <= 0 {
			continue
		}
		take := capacity
		if take > remaining {
			take = remaining
		}
		final[src] += take
		remaining -= take
	}

	return final
}

// Total sums an allocation.
func (al Allocation) Total() int {
	n := 0
	for _, v := range al {
		n += v
	}
	return n
}
