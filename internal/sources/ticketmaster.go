// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/showfinder/internal/models"
	"github.com/tomtom215/showfinder/internal/quality"
)

const ticketmasterDefaultBaseURL = "https://app.ticketmaster.com"

// ticketmasterConfidence is the fixed confidence for Ticketmaster records.
const ticketmasterConfidence = 0.80

// TicketmasterConfig configures the tertiary source adapter.
type TicketmasterConfig struct {
	BaseURL string
	APIKey  string
	Client  ClientConfig
}

// Ticketmaster is the tertiary source, backed by the Discovery v2 API.
type Ticketmaster struct {
	baseURL string
	apiKey  string
	client  *Client
}

// NewTicketmaster builds the adapter.
func NewTicketmaster(cfg TicketmasterConfig) *Ticketmaster {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = ticketmasterDefaultBaseURL
	}
	return &Ticketmaster{
		baseURL: base,
		apiKey:  cfg.APIKey,
		client:  NewClient(string(models.SourceTicketmaster), cfg.Client),
	}
}

func (t *Ticketmaster) Name() models.Source { return models.SourceTicketmaster }

// ticketmasterSegment maps Discovery API segments to canonical categories.
var ticketmasterSegment = map[string]models.Category{
	"Music":          models.CategoryMusic,
	"Sports":         models.CategorySports,
	"Arts & Theatre": models.CategoryTheater,
	"Film":           models.CategoryArts,
	"Miscellaneous":  models.CategoryOther,
}

type ticketmasterResponse struct {
	Embedded struct {
		Events []ticketmasterEvent `json:"events"`
	} `json:"_embedded"`
}

type ticketmasterEvent struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Dates struct {
		Start struct {
			LocalDate string `json:"localDate"`
			DateTime  string `json:"dateTime"`
		} `json:"start"`
	} `json:"dates"`
	Classifications []struct {
		Segment struct {
			Name string `json:"name"`
		} `json:"segment"`
	} `json:"classifications"`
	Embedded struct {
		Venues []struct {
			Name string `json:"name"`
			City struct {
				Name string `json:"name"`
			} `json:"city"`
		} `json:"venues"`
	} `json:"_embedded"`
}

// Fetch issues one Discovery v2 search bounded by the request window.
func (t *Ticketmaster) Fetch(ctx context.Context, q Query) ([]models.Event, error) {
	if strings.TrimSpace(q.Location) == "" {
		return nil, fmt.Errorf("ticketmaster: empty location")
	}

	var resp ticketmasterResponse
	if err := t.client.GetJSON(ctx, t.searchURL(q), nil, &resp); err != nil {
		return nil, err
	}

	events := make([]models.Event, 0, len(resp.Embedded.Events))
	for i := range resp.Embedded.Events {
		if len(events) >= q.Limit {
			break
		}
		e := t.parse(&resp.Embedded.Events[i], q)
		// Nameless records are unusable; skip them before they consume a
		// result slot.
		if e.Name == "" {
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

func (t *Ticketmaster) searchURL(q Query) string {
	params := url.Values{}
	params.Set("apikey", t.apiKey)
	params.Set("city", q.Location)
	params.Set("startDateTime", q.From.UTC().Format("2006-01-02T15:04:05Z"))
	params.Set("endDateTime", q.To.UTC().Format("2006-01-02T15:04:05Z"))
	params.Set("size", strconv.Itoa(q.Limit))
	params.Set("sort", "date,asc")
	return fmt.Sprintf("%s/discovery/v2/events.json?%s", t.baseURL, params.Encode())
}

func (t *Ticketmaster) parse(raw *ticketmasterEvent, q Query) models.Event {
	e := models.Event{
		Name:      strings.TrimSpace(raw.Name),
		Location:  q.Location,
		Source:    models.SourceTicketmaster,
		SourceURL: raw.URL,
	}

	rawDate := raw.Dates.Start.DateTime
	if rawDate == "" {
		rawDate = raw.Dates.Start.LocalDate
	}
	e.RawDate = rawDate
	if ts, ok := ResolveDate(rawDate, q.From, q.To); ok {
		e.Start = &ts
	}

	if len(raw.Embedded.Venues) > 0 {
		venue := strings.TrimSpace(raw.Embedded.Venues[0].Name)
		if !quality.PlaceholderVenue(venue) {
			e.Venue = venue
		}
		if city := strings.TrimSpace(raw.Embedded.Venues[0].City.Name); city != "" {
			e.Location = city
		}
	}

	e.Category = models.CategoryOther
	if len(raw.Classifications) > 0 {
		if cat, ok := ticketmasterSegment[raw.Classifications[0].Segment.Name]; ok {
			e.Category = cat
		}
	}
	if e.Category == models.CategoryOther {
		e.Category = quality.InferCategory(e.Name)
	}

	e.Confidence = ticketmasterConfidence
	e.HypeScore = hypeScore(e.Name, e.Venue)
	return e
}
