// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

// Package social finds social-media posts plausibly related to a named
// event and surfaces their authors as prospective attendees. It is a
// shallower sibling of the event pipeline: the same priority-weighted
// multi-source fan-out and user-level dedup, but keyword relevance
// scoring instead of the full quality filter.
package social

import (
	"context"
	"time"
)

// Attendee is one social-media author matched to an event.
type Attendee struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio,omitempty"`

	// Location is taken from the profile's location field when present,
	// otherwise inferred from bio text.
	Location string `json:"location,omitempty"`

	Followers int  `json:"followers_count"`
	Verified  bool `json:"verified"`

	// Confidence reflects how trustworthy the source's author data is,
	// independent of post relevance.
	Confidence float64 `json:"confidence_score"`

	// Engagement classifies the post: confirmed_attendance, interested,
	// excited, reviewing, planning, or discussing.
	Engagement string `json:"engagement_type"`

	PostContent string `json:"post_content"`
	PostDate    string `json:"post_date,omitempty"`
	PostLink    string `json:"post_link,omitempty"`

	// Relevance is the keyword-match score against the event name, after
	// source priority weighting. Higher sorts first.
	Relevance float64 `json:"relevance_score"`

	Source string `json:"source"`
	UserID string `json:"user_id,omitempty"`

	// Reddit-only signals.
	Karma   int `json:"karma,omitempty"`
	Upvotes int `json:"upvotes,omitempty"`
}

// Query describes one attendee search.
type Query struct {
	EventName string
	EventDate string
	Limit     int
}

// PostSource is one social platform adapter.
type PostSource interface {
	Name() string
	Search(ctx context.Context, q Query) ([]Attendee, error)
}

// SourceStats reports one platform's contribution to a run.
type SourceStats struct {
	Source  string        `json:"source"`
	Found   int           `json:"found"`
	Unique  int           `json:"unique"`
	Failed  string        `json:"failed,omitempty"`
	Elapsed time.Duration `json:"elapsed_ms"`
}

// Result is the ranked attendee list plus per-source stats.
type Result struct {
	Attendees []Attendee    `json:"attendees"`
	Sources   []SourceStats `json:"sources"`
}
