// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/showfinder/internal/logging"
	"github.com/tomtom215/showfinder/internal/models"
	"github.com/tomtom215/showfinder/internal/quality"
)

const serpAPIDefaultBaseURL = "https://serpapi.com"

// serpAPIConfidence is the fixed confidence for SerpAPI records; the
// provider reports no per-record trust signal.
const serpAPIConfidence = 0.85

// SerpAPIConfig configures the primary source adapter.
type SerpAPIConfig struct {
	BaseURL string
	APIKey  string
	Client  ClientConfig
}

// SerpAPI is the primary source: Google Events results via SerpAPI.
type SerpAPI struct {
	baseURL string
	apiKey  string
	client  *Client
}

// NewSerpAPI builds the adapter.
func NewSerpAPI(cfg SerpAPIConfig) *SerpAPI {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = serpAPIDefaultBaseURL
	}
	return &SerpAPI{
		baseURL: base,
		apiKey:  cfg.APIKey,
		client:  NewClient(string(models.SourceSerpAPI), cfg.Client),
	}
}

func (s *SerpAPI) Name() models.Source { return models.SourceSerpAPI }

// serpAPIResponse is the subset of the google_events engine response the
// adapter consumes.
type serpAPIResponse struct {
	EventsResults []serpAPIEvent `json:"events_results"`
}

type serpAPIEvent struct {
	Title string `json:"title"`
	Date  struct {
		StartDate string `json:"start_date"`
		When      string `json:"when"`
	} `json:"date"`
	// Address arrives as a string or a list of address lines.
	Address flexString `json:"address"`
	Venue   struct {
		Name string `json:"name"`
	} `json:"venue"`
	Link       string `json:"link"`
	TicketInfo []struct {
		Link string `json:"link"`
	} `json:"ticket_info"`
}

// Fetch issues one google_events search per generated query and merges the
// results up to q.Limit. Individual query failures are logged and skipped;
// Fetch fails only when every query fails or credentials are rejected.
func (s *SerpAPI) Fetch(ctx context.Context, q Query) ([]models.Event, error) {
	queries := BuildQueries(q.Location, q.Categories)
	if len(queries) == 0 {
		return nil, fmt.Errorf("serpapi: empty location")
	}

	var events []models.Event
	var lastErr error
	failed := 0

	for _, search := range queries {
		if len(events) >= q.Limit {
			break
		}
		var resp serpAPIResponse
		if err := s.client.GetJSON(ctx, s.searchURL(search), nil, &resp); err != nil {
			if IsAuthError(err) {
				return nil, err
			}
			logging.Warn().Err(err).Str("query", search).Msg("[SERPAPI] Query failed")
			lastErr = err
			failed++
			continue
		}
		for i := range resp.EventsResults {
			if len(events) >= q.Limit {
				break
			}
			e := s.parse(&resp.EventsResults[i], q)
			// A record with no name at all is unusable; skip it before it
			// consumes a result slot.
			if e.Name == "" {
				continue
			}
			events = append(events, e)
		}
	}

	if failed == len(queries) && lastErr != nil {
		return nil, fmt.Errorf("serpapi: all %d queries failed: %w", failed, lastErr)
	}
	return events, nil
}

func (s *SerpAPI) searchURL(query string) string {
	params := url.Values{}
	params.Set("engine", "google_events")
	params.Set("q", query)
	params.Set("api_key", s.apiKey)
	return fmt.Sprintf("%s/search?%s", s.baseURL, params.Encode())
}

func (s *SerpAPI) parse(raw *serpAPIEvent, q Query) models.Event {
	e := models.Event{
		Name:     strings.TrimSpace(raw.Title),
		Location: q.Location,
		Source:   models.SourceSerpAPI,
	}

	venue := strings.TrimSpace(raw.Venue.Name)
	if venue == "" {
		// Fall back to the first address line, which for Google Events is
		// usually the venue name.
		if addr := string(raw.Address); addr != "" {
			venue = strings.TrimSpace(strings.SplitN(addr, ",", 2)[0])
		}
	}
	if !quality.PlaceholderVenue(venue) {
		e.Venue = venue
	}

	rawDate := raw.Date.StartDate
	if rawDate == "" {
		rawDate = raw.Date.When
	}
	e.RawDate = rawDate
	if t, ok := ResolveDate(rawDate, q.From, q.To); ok {
		e.Start = &t
	}

	// Prefer the organic result link; ticket vendor links are a fallback.
	switch {
	case raw.Link != "":
		e.SourceURL = raw.Link
	case len(raw.TicketInfo) > 0:
		e.SourceURL = raw.TicketInfo[0].Link
	}

	e.Category = quality.InferCategory(e.Name)
	e.Confidence = serpAPIConfidence
	e.HypeScore = hypeScore(e.Name, e.Venue)
	return e
}
