// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package discovery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/showfinder/internal/cache"
	"github.com/tomtom215/showfinder/internal/models"
	"github.com/tomtom215/showfinder/internal/quality"
	"github.com/tomtom215/showfinder/internal/quota"
	"github.com/tomtom215/showfinder/internal/sources"
)

type fakeAdapter struct {
	name   models.Source
	events []models.Event
	err    error
	calls  int
	limit  int
}

func (f *fakeAdapter) Name() models.Source { return f.name }

func (f *fakeAdapter) Fetch(_ context.Context, q sources.Query) ([]models.Event, error) {
	f.calls++
	f.limit = q.Limit
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func at(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 19, 0, 0, 0, time.UTC)
	return &t
}

func testEngine(t *testing.T, store cache.Store, adapters ...sources.Adapter) *Engine {
	t.Helper()
	alloc, err := quota.New(quota.DefaultWeights())
	if err != nil {
		t.Fatalf("quota.New() error: %v", err)
	}
	qcfg := quality.DefaultConfig()
	qcfg.Now = func() time.Time { return time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC) }

	eng, err := New(adapters, alloc, quality.NewFilter(qcfg), store, DefaultConfig())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return eng
}

func testRequest() Request {
	return Request{
		Location:   "New York",
		Categories: []models.Category{models.CategorySports, models.CategoryMusic},
		From:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		MaxResults: 10,
	}
}

func TestDiscoverFullPipeline(t *testing.T) {
	serp := &fakeAdapter{name: models.SourceSerpAPI, events: []models.Event{
		{Name: "New York Knicks vs. Washington Wizards", Venue: "Madison Square Garden", Start: at(2026, 1, 15), Location: "New York", Category: models.CategorySports, Source: models.SourceSerpAPI, Confidence: 0.85, HypeScore: 0.6},
		{Name: "Brooklyn Indie Rock Night", Venue: "Music Hall of Williamsburg", Start: at(2026, 2, 3), Location: "New York", Category: models.CategoryMusic, Source: models.SourceSerpAPI, Confidence: 0.85, HypeScore: 0.4},
		// Out of range: date filter must drop it before anything else.
		{Name: "Summer Open Air Concert", Venue: "Central Park", Start: at(2026, 7, 10), Location: "New York", Category: models.CategoryMusic, Source: models.SourceSerpAPI, Confidence: 0.85},
	}}
	phq := &fakeAdapter{name: models.SourcePredictHQ, events: []models.Event{
		// Exact duplicate of the Knicks game (same normalized name, venue, day).
		{Name: "New York Knicks vs Washington Wizards", Venue: "Madison Square Garden", Start: at(2026, 1, 15), Location: "New York", Category: models.CategorySports, Source: models.SourcePredictHQ, Confidence: 0.8, HypeScore: 0.6},
		// Near duplicate of the rock night: one day drift, punctuation drift.
		{Name: "Brooklyn Indie Rock Night!", Venue: "Music Hall of Williamsburg", Start: at(2026, 2, 4), Location: "New York", Category: models.CategoryMusic, Source: models.SourcePredictHQ, Confidence: 0.8, HypeScore: 0.4},
	}}
	tm := &fakeAdapter{name: models.SourceTicketmaster, events: []models.Event{
		// Provider noise: quality filter must reject it.
		{Name: "2024-25 Full Season Discount Pass", Venue: "Some Arena", Start: at(2026, 1, 20), Location: "New York", Source: models.SourceTicketmaster, Confidence: 0.8},
		{Name: "The Lion King Broadway Show", Venue: "Minskoff Theatre", Start: at(2026, 2, 10), Location: "New York", Category: models.CategoryTheater, Source: models.SourceTicketmaster, Confidence: 0.8, HypeScore: 0.5},
	}}

	eng := testEngine(t, nil, serp, phq, tm)
	res, err := eng.Discover(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	// Survivors: Knicks game (serpapi copy), rock night (serpapi copy),
	// Lion King. Noise and out-of-range events are gone.
	if len(res.Events) != 3 {
		t.Fatalf("Discover() returned %d events, want 3: %+v", len(res.Events), res.Events)
	}
	for _, e := range res.Events {
		if e.Name == "2024-25 Full Season Discount Pass" {
			t.Error("noise event survived the quality filter")
		}
		if e.Name == "Summer Open Air Concert" {
			t.Error("out-of-range event survived the date filter")
		}
		if !e.Accepted {
			t.Errorf("returned event %q not marked accepted", e.Name)
		}
	}

	// Duplicate survivors must come from the higher-priority source.
	for _, e := range res.Events {
		if e.Name == "New York Knicks vs. Washington Wizards" && e.Source != models.SourceSerpAPI {
			t.Errorf("duplicate survivor from %s, want serpapi", e.Source)
		}
	}

	d := res.Diagnostics
	if d.TotalFetched != 7 {
		t.Errorf("TotalFetched = %d, want 7", d.TotalFetched)
	}
	if d.DuplicatesRemoved != 2 {
		t.Errorf("DuplicatesRemoved = %d, want 2", d.DuplicatesRemoved)
	}
	if d.QualityRejected != 1 {
		t.Errorf("QualityRejected = %d, want 1", d.QualityRejected)
	}
	if d.Returned != 3 {
		t.Errorf("Returned = %d, want 3", d.Returned)
	}
	if d.AllSourcesFailed {
		t.Error("AllSourcesFailed set with healthy sources")
	}
	if d.RequestID == "" {
		t.Error("diagnostics missing request ID")
	}
}

func TestDiscoverSourceFailureIsolated(t *testing.T) {
	serp := &fakeAdapter{name: models.SourceSerpAPI, err: errors.New("connection refused")}
	phq := &fakeAdapter{name: models.SourcePredictHQ, events: []models.Event{
		{Name: "Winter Tech Conference Keynote", Venue: "Javits Center", Start: at(2026, 2, 1), Location: "New York", Category: models.CategoryConference, Source: models.SourcePredictHQ, Confidence: 0.8},
	}}
	tm := &fakeAdapter{name: models.SourceTicketmaster, events: []models.Event{
		{Name: "The Lion King Broadway Show", Venue: "Minskoff Theatre", Start: at(2026, 2, 10), Location: "New York", Category: models.CategoryTheater, Source: models.SourceTicketmaster, Confidence: 0.8},
	}}

	eng := testEngine(t, nil, serp, phq, tm)
	res, err := eng.Discover(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Discover() with one failed source error: %v", err)
	}

	if len(res.Events) != 2 {
		t.Errorf("Discover() returned %d events, want 2 from surviving sources", len(res.Events))
	}
	if res.Diagnostics.AllSourcesFailed {
		t.Error("AllSourcesFailed set when two sources survived")
	}

	var failedStat *models.SourceStats
	for i := range res.Diagnostics.Sources {
		if res.Diagnostics.Sources[i].Source == models.SourceSerpAPI {
			failedStat = &res.Diagnostics.Sources[i]
		}
	}
	if failedStat == nil || failedStat.Failed == "" {
		t.Error("failed source not recorded in diagnostics")
	}
}

func TestDiscoverAllSourcesFailed(t *testing.T) {
	boom := errors.New("boom")
	eng := testEngine(t, nil,
		&fakeAdapter{name: models.SourceSerpAPI, err: boom},
		&fakeAdapter{name: models.SourcePredictHQ, err: boom},
		&fakeAdapter{name: models.SourceTicketmaster, err: boom},
	)

	res, err := eng.Discover(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Discover() with all sources down should not error, got: %v", err)
	}
	if len(res.Events) != 0 {
		t.Errorf("Discover() returned %d events, want 0", len(res.Events))
	}
	if !res.Diagnostics.AllSourcesFailed {
		t.Error("AllSourcesFailed not set")
	}
}

func TestDiscoverCacheRoundTrip(t *testing.T) {
	serp := &fakeAdapter{name: models.SourceSerpAPI, events: []models.Event{
		{Name: "New York Knicks vs. Washington Wizards", Venue: "Madison Square Garden", Start: at(2026, 1, 15), Location: "New York", Category: models.CategorySports, Source: models.SourceSerpAPI, Confidence: 0.85},
	}}

	store := cache.NewMemory(8)
	eng := testEngine(t, store, serp)
	req := testRequest()

	first, err := eng.Discover(context.Background(), req)
	if err != nil {
		t.Fatalf("first Discover() error: %v", err)
	}
	if first.Diagnostics.CacheHit {
		t.Error("first run reported a cache hit")
	}

	second, err := eng.Discover(context.Background(), req)
	if err != nil {
		t.Fatalf("second Discover() error: %v", err)
	}
	if !second.Diagnostics.CacheHit {
		t.Error("second run missed the cache")
	}
	if serp.calls != 1 {
		t.Errorf("adapter called %d times, want 1 (second run cached)", serp.calls)
	}
	if len(second.Events) != len(first.Events) {
		t.Errorf("cached result has %d events, want %d", len(second.Events), len(first.Events))
	}
}

func TestDiscoverOverFetchesQuota(t *testing.T) {
	serp := &fakeAdapter{name: models.SourceSerpAPI}
	phq := &fakeAdapter{name: models.SourcePredictHQ}
	tm := &fakeAdapter{name: models.SourceTicketmaster}

	eng := testEngine(t, nil, serp, phq, tm)
	req := testRequest()
	req.MaxResults = 20
	if _, err := eng.Discover(context.Background(), req); err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	// Default weights split 20 as 10/5/5; each adapter is asked for a
	// multiple of its share so filtering has slack.
	if serp.limit != 10*overFetch {
		t.Errorf("serpapi limit = %d, want %d", serp.limit, 10*overFetch)
	}
	if phq.limit != 5*overFetch {
		t.Errorf("predicthq limit = %d, want %d", phq.limit, 5*overFetch)
	}
}

func TestDiscoverTruncatesToMaxResults(t *testing.T) {
	var events []models.Event
	names := []string{
		"Harlem Gospel Choir Matinee", "Brooklyn Food Festival", "Queens Night Market",
		"Lincoln Center Chamber Series", "Village Jazz Marathon", "Midtown Comedy Gala",
	}
	for i, n := range names {
		events = append(events, models.Event{
			Name: n, Venue: "Venue " + n, Start: at(2026, 2, i+1),
			Location: "New York", Category: models.CategoryMusic,
			Source: models.SourceSerpAPI, Confidence: 0.85,
		})
	}

	eng := testEngine(t, nil, &fakeAdapter{name: models.SourceSerpAPI, events: events})
	req := testRequest()
	req.MaxResults = 4

	res, err := eng.Discover(context.Background(), req)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(res.Events) != 4 {
		t.Errorf("Discover() returned %d events, want exactly 4", len(res.Events))
	}
}

func TestDiscoverBackfillsFilterLosses(t *testing.T) {
	// One source over-delivering relative to its quota: dedup and quality
	// losses must be absorbed by the over-fetch surplus, not shrink the
	// final result below MaxResults.
	areas := []string{"Harlem", "Brooklyn", "Queens", "Bronx", "Astoria", "Tribeca"}
	shows := []string{"Jazz Evening", "Rock Revue", "Soul Session", "Folk Gathering", "Blues Night"}

	var events []models.Event
	for _, area := range areas {
		for _, show := range shows {
			if len(events) == 28 {
				break
			}
			name := area + " " + show
			events = append(events, models.Event{
				Name: name, Venue: name + " Hall", Start: at(2026, 1, 5+len(events)),
				Location: "New York", Category: models.CategoryMusic,
				Source: models.SourceSerpAPI, Confidence: 0.85,
			})
		}
	}
	// Near duplicate of the first record, one day adrift.
	events = append(events, models.Event{
		Name: "Harlem Jazz Evening!", Venue: "Harlem Jazz Evening Hall", Start: at(2026, 1, 6),
		Location: "New York", Category: models.CategoryMusic,
		Source: models.SourceSerpAPI, Confidence: 0.85,
	})
	// Provider noise.
	events = append(events, models.Event{
		Name: "24-25 Diamond ID", Venue: "Some Arena", Start: at(2026, 1, 20),
		Location: "New York", Source: models.SourceSerpAPI,
	})

	eng := testEngine(t, nil, &fakeAdapter{name: models.SourceSerpAPI, events: events})
	res, err := eng.Discover(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	if len(res.Events) != 10 {
		t.Fatalf("Discover() returned %d events, want the full 10", len(res.Events))
	}
	if res.Diagnostics.DuplicatesRemoved != 1 {
		t.Errorf("DuplicatesRemoved = %d, want 1", res.Diagnostics.DuplicatesRemoved)
	}
	if res.Diagnostics.QualityRejected != 1 {
		t.Errorf("QualityRejected = %d, want 1", res.Diagnostics.QualityRejected)
	}
}

func TestDiscoverInvalidInput(t *testing.T) {
	eng := testEngine(t, nil, &fakeAdapter{name: models.SourceSerpAPI})

	req := testRequest()
	req.Location = ""
	if _, err := eng.Discover(context.Background(), req); err == nil {
		t.Error("empty location should fail")
	}

	req = testRequest()
	req.From, req.To = req.To, req.From
	if _, err := eng.Discover(context.Background(), req); err == nil {
		t.Error("inverted window should fail")
	}
}

func TestDiscoverIncludeRejected(t *testing.T) {
	tm := &fakeAdapter{name: models.SourceTicketmaster, events: []models.Event{
		{Name: "24-25 Diamond ID", Venue: "Some Arena", Start: at(2026, 1, 20), Location: "New York", Source: models.SourceTicketmaster},
	}}

	eng := testEngine(t, nil, tm)
	req := testRequest()
	req.IncludeRejected = true

	res, err := eng.Discover(context.Background(), req)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(res.Diagnostics.Rejected) != 1 {
		t.Fatalf("Rejected audit list has %d events, want 1", len(res.Diagnostics.Rejected))
	}
	if len(res.Diagnostics.RejectionReasons) == 0 {
		t.Error("rejection reason histogram empty")
	}
}
