// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package social

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tomtom215/showfinder/internal/logging"
	"github.com/tomtom215/showfinder/internal/sources"
)

// twitterConfidence is the author-data trust for Twitter-like results:
// profiles are self-reported but tied to a real account.
const twitterConfidence = 0.8

// minFollowersForMention filters drive-by accounts: a bare mention from an
// author with almost no followers is noise, not a prospective attendee.
const minFollowersForMention = 10

// TwitterConfig configures the Twitter-like post source.
type TwitterConfig struct {
	BaseURL string
	Token   string
	Client  sources.ClientConfig
}

// Twitter searches a Twitter-like recent-post API for event mentions.
type Twitter struct {
	baseURL string
	token   string
	client  *sources.Client
}

// NewTwitter builds the Twitter-like post source.
func NewTwitter(cfg TwitterConfig) (*Twitter, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("social: twitter base URL required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("social: twitter bearer token required")
	}
	return &Twitter{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  sources.NewClient("twitter", cfg.Client),
	}, nil
}

// Name implements PostSource.
func (t *Twitter) Name() string { return "twitter" }

type twitterResponse struct {
	Data []struct {
		ID        string `json:"id"`
		Text      string `json:"text"`
		AuthorID  string `json:"author_id"`
		CreatedAt string `json:"created_at"`
	} `json:"data"`
	Includes struct {
		Users []twitterUser `json:"users"`
	} `json:"includes"`
}

type twitterUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Location      string `json:"location"`
	Verified      bool   `json:"verified"`
	PublicMetrics struct {
		FollowersCount int `json:"followers_count"`
	} `json:"public_metrics"`
}

// Search implements PostSource. It walks the generated queries in priority
// order, deduplicating authors across queries, until the limit is met or
// the queries run out. Individual query failures are tolerated; only a
// fully failed run returns an error.
func (t *Twitter) Search(ctx context.Context, q Query) ([]Attendee, error) {
	queries := BuildSearchQueries(q.EventName, q.EventDate)
	if len(queries) == 0 {
		return nil, nil
	}

	var attendees []Attendee
	seen := make(map[string]struct{})
	failures := 0

	for _, sq := range queries {
		if len(attendees) >= q.Limit {
			break
		}

		var resp twitterResponse
		if err := t.client.GetJSON(ctx, t.searchURL(sq.Query, q.Limit), t.headers(), &resp); err != nil {
			if sources.IsAuthError(err) {
				return nil, err
			}
			failures++
			logging.Ctx(ctx).Warn().
				Err(err).
				Str("query_kind", sq.Kind).
				Msg("[TWITTER] Query failed")
			continue
		}

		for _, a := range t.parse(&resp, q.EventName) {
			key := strings.ToLower(a.Username)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			attendees = append(attendees, a)
		}
	}

	if failures == len(queries) {
		return nil, fmt.Errorf("twitter: all %d queries failed", failures)
	}
	if len(attendees) > q.Limit {
		attendees = attendees[:q.Limit]
	}
	return attendees, nil
}

func (t *Twitter) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + t.token}
}

func (t *Twitter) searchURL(query string, limit int) string {
	perQuery := limit
	if perQuery > 100 {
		perQuery = 100
	}
	if perQuery < 10 {
		perQuery = 10
	}

	v := url.Values{}
	v.Set("query", query)
	v.Set("max_results", fmt.Sprintf("%d", perQuery))
	v.Set("tweet.fields", "author_id,created_at,text,public_metrics")
	v.Set("user.fields", "username,name,verified,description,location,public_metrics")
	v.Set("expansions", "author_id")
	return t.baseURL + "/2/tweets/search/recent?" + v.Encode()
}

// parse converts one response page, applying the relevance floor and the
// low-engagement author filter.
func (t *Twitter) parse(resp *twitterResponse, eventName string) []Attendee {
	users := make(map[string]twitterUser, len(resp.Includes.Users))
	for _, u := range resp.Includes.Users {
		users[u.ID] = u
	}

	var attendees []Attendee
	for _, tweet := range resp.Data {
		user, ok := users[tweet.AuthorID]
		if !ok {
			continue
		}

		relevance := Relevance(tweet.Text, eventName)
		if relevance < MinRelevance {
			continue
		}

		engagement := DetectEngagement(tweet.Text)
		if user.PublicMetrics.FollowersCount < minFollowersForMention && engagement == "discussing" {
			continue
		}

		content := tweet.Text
		if len(content) > 120 {
			content = content[:120] + "..."
		}

		postDate := tweet.CreatedAt
		if ts, err := time.Parse(time.RFC3339, tweet.CreatedAt); err == nil {
			postDate = ts.Format("2006-01-02 15:04")
		}

		attendees = append(attendees, Attendee{
			Username:    "@" + user.Username,
			DisplayName: user.Name,
			Bio:         user.Description,
			Location:    InferLocation(user.Location, user.Description),
			Followers:   user.PublicMetrics.FollowersCount,
			Verified:    user.Verified,
			Confidence:  twitterConfidence,
			Engagement:  engagement,
			PostContent: content,
			PostDate:    postDate,
			PostLink:    fmt.Sprintf("https://twitter.com/%s/status/%s", user.Username, tweet.ID),
			Relevance:   relevance,
			Source:      "twitter",
			UserID:      user.ID,
		})
	}
	return attendees
}
