// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package models

import "time"

// SourceStats records one source's contribution to a discovery run.
type SourceStats struct {
	Source Source `json:"source"`

	// Target is the quota assigned to the source after redistribution.
	Target int `json:"target"`

	// Fetched counts records the adapter returned after its own parse-time
	// filtering (placeholder venues, malformed records).
	Fetched int `json:"fetched"`

	// DateRejected counts records dropped by the strict date-range filter.
	DateRejected int `json:"date_rejected"`

	// Failed carries the failure cause when the source returned an error,
	// empty on success.
	Failed string `json:"failed,omitempty"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

// Diagnostics summarizes one discovery run. It is an observability artifact
// returned alongside the event list, never part of the Event data model.
type Diagnostics struct {
	RequestID string `json:"request_id"`

	Sources []SourceStats `json:"sources"`

	// Pipeline stage counters.
	TotalFetched      int `json:"total_fetched"`
	DuplicatesRemoved int `json:"duplicates_removed"`
	QualityRejected   int `json:"quality_rejected"`
	Returned          int `json:"returned"`

	// RejectionReasons histograms every negative signal the quality filter
	// accumulated, keyed by reason text.
	RejectionReasons map[string]int `json:"rejection_reasons,omitempty"`

	// Rejected holds the rejected events themselves when the caller asked
	// for audit mode, nil otherwise.
	Rejected []Event `json:"rejected,omitempty"`

	// CacheHit is true when the run was served from the result cache and
	// the pipeline never executed.
	CacheHit bool `json:"cache_hit"`

	// AllSourcesFailed distinguishes "no events exist" from "every source
	// was unreachable" for the caller's error presentation.
	AllSourcesFailed bool `json:"all_sources_failed"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

// AddReason increments the rejection-reason histogram.
func (d *Diagnostics) AddReason(reason string) {
	if d.RejectionReasons == nil {
		d.RejectionReasons = make(map[string]int)
	}
	d.RejectionReasons[reason]++
}
