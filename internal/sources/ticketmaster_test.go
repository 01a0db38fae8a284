// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/showfinder/internal/models"
)

const ticketmasterFixture = `{
	"_embedded": {
		"events": [
			{
				"name": "",
				"url": "https://tm.example.com/ghost",
				"dates": {"start": {"localDate": "2026-07-09"}}
			},
			{
				"name": "Billy Joel",
				"url": "https://tm.example.com/billy-joel",
				"dates": {"start": {"localDate": "2026-07-10", "dateTime": "2026-07-10T23:30:00Z"}},
				"classifications": [{"segment": {"name": "Music"}}],
				"_embedded": {"venues": [{"name": "Madison Square Garden", "city": {"name": "New York"}}]}
			},
			{
				"name": "Comedy Night Showcase",
				"url": "https://tm.example.com/comedy-night",
				"dates": {"start": {"localDate": "2026-07-12"}},
				"classifications": [{"segment": {"name": "Miscellaneous"}}],
				"_embedded": {"venues": [{"name": "TBA", "city": {"name": ""}}]}
			}
		]
	}
}`

func ticketmasterTestAdapter(t *testing.T, handler http.HandlerFunc) *Ticketmaster {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewTicketmaster(TicketmasterConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Client:  ClientConfig{Timeout: 2 * time.Second, RequestsPerSecond: 1000, Burst: 100},
	})
}

func ticketmasterQuery() Query {
	return Query{
		Location: "New York",
		From:     day(2026, 7, 1),
		To:       day(2026, 7, 31),
		Limit:    10,
	}
}

func TestTicketmasterFetchParsesEvents(t *testing.T) {
	adapter := ticketmasterTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		if params.Get("apikey") != "test-key" {
			t.Errorf("apikey = %q, want test-key", params.Get("apikey"))
		}
		if params.Get("city") != "New York" {
			t.Errorf("city = %q, want New York", params.Get("city"))
		}
		if params.Get("startDateTime") != "2026-07-01T00:00:00Z" {
			t.Errorf("startDateTime = %q", params.Get("startDateTime"))
		}
		w.Write([]byte(ticketmasterFixture))
	})

	events, err := adapter.Fetch(context.Background(), ticketmasterQuery())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	// The nameless record is skipped entirely, not just filtered later.
	if len(events) != 2 {
		t.Fatalf("Fetch() returned %d events, want 2", len(events))
	}

	concert := events[0]
	if concert.Venue != "Madison Square Garden" {
		t.Errorf("venue = %q, want Madison Square Garden", concert.Venue)
	}
	if concert.Category != models.CategoryMusic {
		t.Errorf("category = %s, want music", concert.Category)
	}
	// Full timestamp preferred over the bare local date.
	if concert.Start == nil || !concert.Start.Equal(time.Date(2026, 7, 10, 23, 30, 0, 0, time.UTC)) {
		t.Errorf("start = %v, want 2026-07-10T23:30:00Z", concert.Start)
	}
	if concert.Confidence != ticketmasterConfidence {
		t.Errorf("confidence = %.2f, want %.2f", concert.Confidence, ticketmasterConfidence)
	}

	showcase := events[1]
	if showcase.Venue != "" {
		t.Errorf("placeholder venue survived as %q", showcase.Venue)
	}
	// Miscellaneous segment falls back to name inference.
	if showcase.Category != models.CategoryComedy {
		t.Errorf("category = %s, want comedy via name inference", showcase.Category)
	}
	// Empty venue city must not clobber the request location.
	if showcase.Location != "New York" {
		t.Errorf("location = %q, want request location retained", showcase.Location)
	}
}

func TestTicketmasterFetchAuthFailureIsFatal(t *testing.T) {
	calls := 0
	adapter := ticketmasterTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := adapter.Fetch(context.Background(), ticketmasterQuery())
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("Fetch() error = %v, want ErrAuth", err)
	}
	if calls != 1 {
		t.Errorf("made %d requests after credential rejection, want 1", calls)
	}
}

func TestTicketmasterFetchRespectsLimit(t *testing.T) {
	adapter := ticketmasterTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ticketmasterFixture))
	})

	q := ticketmasterQuery()
	q.Limit = 1
	events, err := adapter.Fetch(context.Background(), q)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Fetch() returned %d events, want limit 1", len(events))
	}
	// The skipped nameless record must not have consumed the only slot.
	if events[0].Name != "Billy Joel" {
		t.Errorf("event = %q, want first named record", events[0].Name)
	}
}
