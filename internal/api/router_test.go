// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/showfinder/internal/discovery"
	"github.com/tomtom215/showfinder/internal/models"
	"github.com/tomtom215/showfinder/internal/quality"
	"github.com/tomtom215/showfinder/internal/quota"
	"github.com/tomtom215/showfinder/internal/social"
	"github.com/tomtom215/showfinder/internal/sources"
)

type stubAdapter struct {
	name   models.Source
	events []models.Event
}

func (s *stubAdapter) Name() models.Source { return s.name }

func (s *stubAdapter) Fetch(_ context.Context, _ sources.Query) ([]models.Event, error) {
	return s.events, nil
}

type stubPostSource struct {
	attendees []social.Attendee
}

func (s *stubPostSource) Name() string { return "twitter" }

func (s *stubPostSource) Search(_ context.Context, _ social.Query) ([]social.Attendee, error) {
	return s.attendees, nil
}

func eventAt(name, venue string, day time.Time) models.Event {
	return models.Event{
		Name:       name,
		Venue:      venue,
		Location:   "New York",
		Category:   models.CategoryMusic,
		Source:     models.SourceSerpAPI,
		Start:      &day,
		Confidence: 0.85,
	}
}

func testServer(t *testing.T, withSocial bool) *httptest.Server {
	t.Helper()

	day := time.Date(2026, 9, 20, 19, 0, 0, 0, time.UTC)
	adapter := &stubAdapter{name: models.SourceSerpAPI, events: []models.Event{
		eventAt("Brooklyn Indie Rock Night", "Music Hall of Williamsburg", day),
	}}

	alloc, err := quota.New(quota.DefaultWeights())
	if err != nil {
		t.Fatal(err)
	}
	engine, err := discovery.New(
		[]sources.Adapter{adapter}, alloc,
		quality.NewFilter(quality.DefaultConfig()), nil, discovery.Config{},
	)
	if err != nil {
		t.Fatal(err)
	}

	var socialEngine *social.Engine
	if withSocial {
		socialEngine, err = social.NewEngine(&stubPostSource{attendees: []social.Attendee{
			{Username: "@alice", Relevance: 0.8, Source: "twitter"},
		}})
		if err != nil {
			t.Fatal(err)
		}
	}

	handler := NewHandler(engine, socialEngine, HandlerConfig{MaxResults: 100, MaxWindowDays: 90})
	router := NewRouter(handler, NewMiddleware(MiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		RateLimitRequests:  1000,
		RateLimitWindow:    time.Minute,
	}))

	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) (*http.Response, models.APIResponse) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var envelope models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp, envelope
}

func TestDiscoverEventsEndpoint(t *testing.T) {
	srv := testServer(t, false)

	resp, envelope := postJSON(t, srv.URL+"/api/v1/events/discover", `{
		"location": "New York",
		"categories": ["music"],
		"from": "2026-09-01",
		"to": "2026-10-31",
		"max_results": 10
	}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (error: %+v)", resp.StatusCode, envelope.Error)
	}
	if envelope.Status != "success" {
		t.Errorf("envelope status = %q, want success", envelope.Status)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID response header")
	}

	data, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatal(err)
	}
	var result discovery.Result
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(result.Events))
	}
	if result.Events[0].Name != "Brooklyn Indie Rock Night" {
		t.Errorf("event name = %q", result.Events[0].Name)
	}
}

func TestDiscoverEventsValidation(t *testing.T) {
	srv := testServer(t, false)

	tests := []struct {
		name string
		body string
	}{
		{"missing location", `{"from": "2026-09-01", "to": "2026-09-30"}`},
		{"bad category", `{"location": "NYC", "categories": ["jousting"], "from": "2026-09-01", "to": "2026-09-30"}`},
		{"inverted window", `{"location": "NYC", "from": "2026-09-30", "to": "2026-09-01"}`},
		{"window too wide", `{"location": "NYC", "from": "2026-01-01", "to": "2026-12-31"}`},
		{"unparseable date", `{"location": "NYC", "from": "next tuesday", "to": "2026-09-30"}`},
		{"not json", `{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, envelope := postJSON(t, srv.URL+"/api/v1/events/discover", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if envelope.Error == nil || envelope.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("error = %+v, want VALIDATION_ERROR", envelope.Error)
			}
		})
	}
}

func TestDiscoverAttendeesEndpoint(t *testing.T) {
	srv := testServer(t, true)

	resp, envelope := postJSON(t, srv.URL+"/api/v1/attendees/discover", `{
		"event_name": "Brooklyn Indie Rock Night",
		"max_results": 5
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (error: %+v)", resp.StatusCode, envelope.Error)
	}

	data, _ := json.Marshal(envelope.Data)
	var result social.Result
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Attendees) != 1 || result.Attendees[0].Username != "@alice" {
		t.Errorf("attendees = %+v, want @alice", result.Attendees)
	}
}

func TestDiscoverAttendeesDisabled(t *testing.T) {
	srv := testServer(t, false)

	resp, envelope := postJSON(t, srv.URL+"/api/v1/attendees/discover", `{
		"event_name": "Brooklyn Indie Rock Night"
	}`)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
	if envelope.Error == nil || envelope.Error.Code != "SOCIAL_DISABLED" {
		t.Errorf("error = %+v, want SOCIAL_DISABLED", envelope.Error)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t, false)

	resp, err := http.Get(srv.URL + "/api/v1/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(t, false)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestRateLimitEnforced(t *testing.T) {
	day := time.Date(2026, 9, 20, 19, 0, 0, 0, time.UTC)
	adapter := &stubAdapter{name: models.SourceSerpAPI, events: []models.Event{
		eventAt("Brooklyn Indie Rock Night", "Music Hall of Williamsburg", day),
	}}
	alloc, _ := quota.New(quota.DefaultWeights())
	engine, _ := discovery.New(
		[]sources.Adapter{adapter}, alloc,
		quality.NewFilter(quality.DefaultConfig()), nil, discovery.Config{},
	)
	handler := NewHandler(engine, nil, HandlerConfig{})
	router := NewRouter(handler, NewMiddleware(MiddlewareConfig{
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
	}))
	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)

	var last int
	for i := 0; i < 3; i++ {
		resp, err := http.Get(srv.URL + "/api/v1/health")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		last = resp.StatusCode
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", last)
	}
}
