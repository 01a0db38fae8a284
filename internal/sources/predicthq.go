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

const predictHQDefaultBaseURL = "https://api.predicthq.com"

// PredictHQConfig configures the secondary source adapter.
type PredictHQConfig struct {
	BaseURL     string
	AccessToken string
	Client      ClientConfig
}

// PredictHQ is the secondary source. Unlike the free-text providers it
// takes structured category and date-range parameters, so one request per
// discovery query suffices.
type PredictHQ struct {
	baseURL string
	token   string
	client  *Client
}

// NewPredictHQ builds the adapter.
func NewPredictHQ(cfg PredictHQConfig) *PredictHQ {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = predictHQDefaultBaseURL
	}
	return &PredictHQ{
		baseURL: base,
		token:   cfg.AccessToken,
		client:  NewClient(string(models.SourcePredictHQ), cfg.Client),
	}
}

func (p *PredictHQ) Name() models.Source { return models.SourcePredictHQ }

// predictHQCategory maps canonical categories to the provider taxonomy.
var predictHQCategory = map[models.Category]string{
	models.CategoryMusic:      "concerts",
	models.CategorySports:     "sports",
	models.CategoryConference: "conferences",
	models.CategoryTech:       "conferences",
	models.CategoryBusiness:   "conferences",
	models.CategoryFestival:   "festivals",
	models.CategoryTheater:    "performing-arts",
	models.CategoryArts:       "performing-arts",
	models.CategoryComedy:     "performing-arts",
	models.CategoryFood:       "community",
}

// canonicalCategory is the reverse mapping for response records.
var canonicalCategory = map[string]models.Category{
	"concerts":        models.CategoryMusic,
	"sports":          models.CategorySports,
	"conferences":     models.CategoryConference,
	"expos":           models.CategoryConference,
	"festivals":       models.CategoryFestival,
	"performing-arts": models.CategoryTheater,
	"community":       models.CategoryOther,
}

type predictHQResponse struct {
	Results []predictHQEvent `json:"results"`
}

type predictHQEvent struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Start    string `json:"start"`
	// Rank is the provider's 0-100 local impact score.
	Rank     int `json:"rank"`
	Entities []struct {
		Name             string     `json:"name"`
		Type             string     `json:"type"`
		FormattedAddress flexString `json:"formatted_address"`
	} `json:"entities"`
}

// Fetch issues one structured search and maps the provider taxonomy back to
// canonical categories.
func (p *PredictHQ) Fetch(ctx context.Context, q Query) ([]models.Event, error) {
	if strings.TrimSpace(q.Location) == "" {
		return nil, fmt.Errorf("predicthq: empty location")
	}

	headers := map[string]string{"Authorization": "Bearer " + p.token}
	var resp predictHQResponse
	if err := p.client.GetJSON(ctx, p.searchURL(q), headers, &resp); err != nil {
		return nil, err
	}

	events := make([]models.Event, 0, len(resp.Results))
	for i := range resp.Results {
		if len(events) >= q.Limit {
			break
		}
		e := p.parse(&resp.Results[i], q)
		// Nameless records are unusable; skip them before they consume a
		// result slot.
		if e.Name == "" {
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

func (p *PredictHQ) searchURL(q Query) string {
	params := url.Values{}
	params.Set("q", q.Location)
	params.Set("active.gte", q.From.Format("2006-01-02"))
	params.Set("active.lte", q.To.Format("2006-01-02"))
	params.Set("sort", "rank")
	params.Set("limit", strconv.Itoa(q.Limit))

	if cats := p.providerCategories(q.Categories); cats != "" {
		params.Set("category", cats)
	}
	return fmt.Sprintf("%s/v1/events/?%s", p.baseURL, params.Encode())
}

// providerCategories joins the mapped provider categories, deduplicated
// since several canonical categories share a provider bucket.
func (p *PredictHQ) providerCategories(categories []models.Category) string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range categories {
		mapped, ok := predictHQCategory[c]
		if !ok {
			continue
		}
		if _, dup := seen[mapped]; dup {
			continue
		}
		seen[mapped] = struct{}{}
		out = append(out, mapped)
	}
	return strings.Join(out, ",")
}

func (p *PredictHQ) parse(raw *predictHQEvent, q Query) models.Event {
	e := models.Event{
		Name:     strings.TrimSpace(raw.Title),
		Location: q.Location,
		Source:   models.SourcePredictHQ,
		RawDate:  raw.Start,
	}

	if t, ok := ResolveDate(raw.Start, q.From, q.To); ok {
		e.Start = &t
	}

	for _, ent := range raw.Entities {
		if ent.Type == "venue" {
			venue := strings.TrimSpace(ent.Name)
			if venue == "" {
				venue = string(ent.FormattedAddress)
			}
			if !quality.PlaceholderVenue(venue) {
				e.Venue = venue
			}
			break
		}
	}

	if cat, ok := canonicalCategory[raw.Category]; ok && cat != models.CategoryOther {
		e.Category = cat
	} else {
		e.Category = quality.InferCategory(e.Name)
	}

	// The provider's rank is the better notability signal; blend it with
	// the lexical score so venue cues still contribute.
	rank := float64(raw.Rank) / 100
	e.HypeScore = clampUnit(0.7*rank + 0.3*hypeScore(e.Name, e.Venue))
	e.Confidence = clampUnit(0.6 + 0.4*rank)
	return e
}

func clampUnit(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
