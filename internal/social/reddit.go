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

	"github.com/tomtom215/showfinder/internal/sources"
)

// redditConfidence is lower than Twitter's: pseudonymous accounts with no
// profile location field.
const redditConfidence = 0.7

// RedditConfig configures the Reddit-like post source.
type RedditConfig struct {
	BaseURL string
	Token   string
	Client  sources.ClientConfig
}

// Reddit searches a Reddit-like post search API for event discussion.
type Reddit struct {
	baseURL string
	token   string
	client  *sources.Client
}

// NewReddit builds the Reddit-like post source.
func NewReddit(cfg RedditConfig) (*Reddit, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("social: reddit base URL required")
	}
	return &Reddit{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  sources.NewClient("reddit", cfg.Client),
	}, nil
}

// Name implements PostSource.
func (r *Reddit) Name() string { return "reddit" }

type redditResponse struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID          string  `json:"id"`
	Author      string  `json:"author"`
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	CreatedUTC  float64 `json:"created_utc"`
	Permalink   string  `json:"permalink"`
	Score       int     `json:"score"`
	Subreddit   string  `json:"subreddit"`
	AuthorKarma int     `json:"author_karma"`
}

// Search implements PostSource. Reddit queries are cheaper and broader
// than Twitter's, so a single keyword-pair query with an over-fetch factor
// covers it.
func (r *Reddit) Search(ctx context.Context, q Query) ([]Attendee, error) {
	keywords := ExtractKeywords(q.EventName)
	if len(keywords) == 0 {
		return nil, nil
	}
	query := keywords[0]
	if len(keywords) >= 2 {
		query = keywords[0] + " " + keywords[1]
	}

	// 1.5x over-fetch leaves room for the relevance floor.
	limit := q.Limit + q.Limit/2

	var resp redditResponse
	if err := r.client.GetJSON(ctx, r.searchURL(query, limit), r.headers(), &resp); err != nil {
		return nil, err
	}

	attendees := r.parse(&resp, q.EventName)
	if len(attendees) > q.Limit {
		attendees = attendees[:q.Limit]
	}
	return attendees, nil
}

func (r *Reddit) headers() map[string]string {
	h := map[string]string{"User-Agent": "showfinder/1.0"}
	if r.token != "" {
		h["Authorization"] = "Bearer " + r.token
	}
	return h
}

func (r *Reddit) searchURL(query string, limit int) string {
	v := url.Values{}
	v.Set("q", query)
	v.Set("limit", fmt.Sprintf("%d", limit))
	v.Set("sort", "relevance")
	v.Set("t", "month")
	return r.baseURL + "/search.json?" + v.Encode()
}

func (r *Reddit) parse(resp *redditResponse, eventName string) []Attendee {
	var attendees []Attendee
	seen := make(map[string]struct{})

	for _, child := range resp.Data.Children {
		post := child.Data
		if post.Author == "" || post.Author == "[deleted]" {
			continue
		}
		key := strings.ToLower(post.Author)
		if _, dup := seen[key]; dup {
			continue
		}

		text := post.Title
		if post.SelfText != "" {
			text += " " + post.SelfText
		}
		relevance := Relevance(text, eventName)
		if relevance < MinRelevance {
			continue
		}
		seen[key] = struct{}{}

		content := post.Title
		if post.SelfText != "" {
			body := post.SelfText
			if len(body) > 80 {
				body = body[:80] + "..."
			}
			content += " - " + body
		}

		postDate := ""
		if post.CreatedUTC > 0 {
			postDate = time.Unix(int64(post.CreatedUTC), 0).UTC().Format("2006-01-02 15:04")
		}

		attendees = append(attendees, Attendee{
			Username:    "u/" + post.Author,
			DisplayName: post.Author,
			Bio:         "r/" + post.Subreddit,
			Confidence:  redditConfidence,
			Engagement:  DetectEngagement(text),
			PostContent: content,
			PostDate:    postDate,
			PostLink:    "https://reddit.com" + post.Permalink,
			Relevance:   relevance,
			Source:      "reddit",
			Karma:       post.AuthorKarma,
			Upvotes:     post.Score,
		})
	}
	return attendees
}
