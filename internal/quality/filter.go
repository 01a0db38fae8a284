// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

// Package quality decides which fetched events are genuine, attendable
// events and which are provider noise.
//
// Classification runs in three layers:
//
//  1. Rule rejection: noise-pattern and invalid-venue matches reject the
//     event outright with a zero score.
//  2. Weighted scoring: name plausibility, venue specificity, category
//     confidence and source trust combine into a score in [0,1], adjusted
//     by date proximity and a location-consistency penalty.
//  3. Verdict: the event is accepted when nothing in layer 1 fired and the
//     layer 2 score clears the acceptance threshold.
//
// Every negative signal encountered along the way is accumulated into the
// verdict's reasons so rejections stay explainable.
package quality

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/tomtom215/showfinder/internal/models"
)

// Scoring weights. They sum to 1.0 before the date bonus and penalties.
const (
	nameWeight     = 0.4
	venueWeight    = 0.3
	categoryWeight = 0.2
	sourceWeight   = 0.1

	locationPenalty = 0.2
)

// AcceptThreshold is the minimum quality score for acceptance.
const AcceptThreshold = 0.5

// Verdict is the outcome of classifying a single event.
type Verdict struct {
	Accepted bool
	Score    float64

	// Category is the post-classification category, re-inferred from the
	// name when the claimed category could not be confirmed.
	Category models.Category

	// Reasons lists every negative signal observed, whether or not it was
	// decisive. Empty for a clean accept.
	Reasons []string
}

// Classifier scores an event against the searched location. Implementations
// must be safe for concurrent use.
type Classifier interface {
	Classify(e *models.Event, searchLocation string) Verdict
}

// Config tunes a Filter.
type Config struct {
	// Threshold overrides AcceptThreshold when positive.
	Threshold float64

	// SourceTrust overrides the built-in per-source trust scores.
	SourceTrust map[models.Source]float64

	// Now supplies the clock for date-proximity scoring. Defaults to
	// time.Now; tests pin it.
	Now func() time.Time
}

// DefaultConfig returns the production filter configuration.
func DefaultConfig() Config {
	return Config{
		Threshold: AcceptThreshold,
		// Trust reflects observed record quality, not fetch priority:
		// Ticketmaster's structured listings beat PredictHQ's broader feed.
		SourceTrust: map[models.Source]float64{
			models.SourceSerpAPI:      0.90,
			models.SourceTicketmaster: 0.80,
			models.SourcePredictHQ:    0.70,
		},
		Now: time.Now,
	}
}

// Filter is the production Classifier.
type Filter struct {
	threshold float64
	trust     map[models.Source]float64
	now       func() time.Time
}

// NewFilter builds a Filter, filling config gaps from DefaultConfig.
func NewFilter(cfg Config) *Filter {
	def := DefaultConfig()
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	if cfg.SourceTrust == nil {
		cfg.SourceTrust = def.SourceTrust
	}
	if cfg.Now == nil {
		cfg.Now = def.Now
	}
	return &Filter{
		threshold: cfg.Threshold,
		trust:     cfg.SourceTrust,
		now:       cfg.Now,
	}
}

// Classify applies all three layers to a single event.
func (f *Filter) Classify(e *models.Event, searchLocation string) Verdict {
	v := Verdict{Category: e.Category}

	// Layer 1: hard rejections.
	if MatchesNoise(e.Name) {
		v.Reasons = append(v.Reasons, fmt.Sprintf("noise pattern match: %q", e.Name))
		return v
	}
	if e.HasVenue() && InvalidVenue(e.Venue) {
		v.Reasons = append(v.Reasons, fmt.Sprintf("invalid venue: %q", e.Venue))
		return v
	}

	// Layer 2: weighted scoring.
	score := nameWeight*f.nameScore(e, &v) +
		venueWeight*f.venueScore(e, &v) +
		categoryWeight*f.categoryScore(e, &v) +
		sourceWeight*f.sourceTrust(e.Source)

	score += f.dateProximity(e, &v)

	if locationMismatch(searchLocation, e.Venue, e.Location) {
		score -= locationPenalty
		v.Reasons = append(v.Reasons,
			fmt.Sprintf("location cue conflicts with search area %q", searchLocation))
	}

	v.Score = clamp01(score)

	// Layer 3: verdict. Penalty reasons alone do not reject; the score does.
	v.Accepted = v.Score >= f.threshold
	return v
}

// Run classifies a batch, writing the verdict back onto each event and
// splitting accepted from rejected. Event order is preserved within each
// partition.
func (f *Filter) Run(events []models.Event, searchLocation string) (accepted, rejected []models.Event) {
	for _, e := range events {
		v := f.Classify(&e, searchLocation)
		e.QualityScore = v.Score
		e.Accepted = v.Accepted
		e.RejectionReasons = v.Reasons
		if v.Category != "" {
			e.Category = v.Category
		}
		if v.Accepted {
			accepted = append(accepted, e)
		} else {
			rejected = append(rejected, e)
		}
	}
	return accepted, rejected
}

// nameScore rates how much the name looks like a real event title.
func (f *Filter) nameScore(e *models.Event, v *Verdict) float64 {
	name := strings.TrimSpace(e.Name)
	s := 0.5

	if capitalizedTokens(name) >= 2 {
		s += 0.2
	}
	if l := len(name); l >= 10 && l <= 100 {
		s += 0.2
	}
	if isAllUpper(name) {
		s -= 0.1
		v.Reasons = append(v.Reasons, "name is all uppercase")
	}
	if punctFraction(name) > 0.30 {
		s -= 0.2
		v.Reasons = append(v.Reasons, "name is mostly punctuation")
	}
	return clamp01(s)
}

// venueScore rates venue specificity. Adapters already cleared placeholders,
// so any surviving venue is assumed genuine; layer 1 caught the leaks.
func (f *Filter) venueScore(e *models.Event, v *Verdict) float64 {
	s := 0.6
	if e.HasVenue() {
		s += 0.3
		if addressLike(e.Venue) {
			s += 0.1
		}
	} else {
		v.Reasons = append(v.Reasons, "no venue information")
	}
	return clamp01(s)
}

// categoryScore rates the claimed category by class; unclassified events
// get one re-inference attempt, and a confident inference replaces the
// missing or generic claim.
func (f *Filter) categoryScore(e *models.Event, v *Verdict) float64 {
	conf := categoryConfidence(e)
	if conf <= 0.4 {
		v.Reasons = append(v.Reasons, "category could not be verified")
	}
	if e.Category == "" || e.Category == models.CategoryOther {
		if inferred := InferCategory(e.Name); inferred != models.CategoryOther {
			v.Category = inferred
		}
	}
	return conf
}

func (f *Filter) sourceTrust(src models.Source) float64 {
	if t, ok := f.trust[src]; ok {
		return t
	}
	return 0.5
}

// dateProximity rewards events happening soon and mildly penalizes far-out
// listings, which skew toward speculative or placeholder records.
func (f *Filter) dateProximity(e *models.Event, v *Verdict) float64 {
	day, ok := e.StartDay()
	if !ok {
		return 0
	}
	days := day.Sub(f.now().UTC().Truncate(24 * time.Hour)).Hours() / 24
	switch {
	case days >= 0 && days <= 30:
		return 0.10
	case days > 30 && days <= 90:
		return 0.05
	case days > 365:
		v.Reasons = append(v.Reasons, "event is more than a year out")
		return -0.05
	default:
		return 0
	}
}

func capitalizedTokens(name string) int {
	n := 0
	for _, tok := range strings.Fields(name) {
		runes := []rune(tok)
		if len(runes) > 1 && unicode.IsUpper(runes[0]) {
			n++
		}
	}
	return n
}

func isAllUpper(name string) bool {
	hasLetter := false
	for _, r := range name {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

func punctFraction(name string) float64 {
	if name == "" {
		return 0
	}
	punct := 0
	total := 0
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			punct++
		}
	}
	if total == 0 {
		return 1
	}
	return float64(punct) / float64(total)
}

// addressLike reports whether a venue string carries street-address cues.
func addressLike(venue string) bool {
	v := strings.ToLower(venue)
	if strings.ContainsAny(venue, "0123456789") || strings.Contains(venue, ",") {
		return true
	}
	for _, cue := range []string{" street", " st.", " avenue", " ave", " road", " rd", " blvd", " boulevard", " plaza", " square"} {
		if strings.Contains(v, cue) {
			return true
		}
	}
	return false
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
