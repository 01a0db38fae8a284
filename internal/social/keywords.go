// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package social

import (
	"fmt"
	"regexp"
	"strings"
)

// maxSearchQueries caps the fan-out per platform per run.
const maxSearchQueries = 15

// stopWords never count as event keywords. Includes the commerce noise
// that event names pick up from listing pages.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"a": {}, "an": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"tickets": {}, "ticket": {}, "buy": {}, "event": {}, "events": {},
	"dates": {}, "schedule": {},
}

var nonWord = regexp.MustCompile(`[^\w\s]`)

// ExtractKeywords pulls the meaningful lowercase words out of an event
// name, dropping stop words and short tokens. Always returns at least one
// keyword for a non-empty name.
func ExtractKeywords(eventName string) []string {
	clean := nonWord.ReplaceAllString(eventName, " ")
	words := strings.Fields(clean)

	var keywords []string
	for _, w := range words {
		lower := strings.ToLower(w)
		if _, stop := stopWords[lower]; stop || len(w) <= 2 {
			continue
		}
		keywords = append(keywords, lower)
	}
	if len(keywords) == 0 && len(words) > 0 {
		keywords = []string{strings.ToLower(words[0])}
	}
	return keywords
}

// OptimizeEventName strips listing-page noise from an event name and
// truncates overly long names to their leading keywords.
func OptimizeEventName(eventName string) string {
	var kept []string
	for _, w := range strings.Fields(eventName) {
		lower := strings.ToLower(w)
		if _, stop := stopWords[lower]; stop || len(w) <= 2 {
			continue
		}
		kept = append(kept, w)
	}
	optimized := strings.Join(kept, " ")
	if len(optimized) > 60 {
		words := strings.Fields(optimized)
		if len(words) > 5 {
			optimized = strings.Join(words[:5], " ")
		}
	}
	return strings.TrimSpace(optimized)
}

// strongEngagementPhrases signal a committed attendee.
var strongEngagementPhrases = []string{
	"attending", "going to", "see you at", "got tickets", "bought tickets",
}

// mediumEngagementPhrases signal interest short of commitment.
var mediumEngagementPhrases = []string{
	"excited for", "can't wait", "looking forward", "hyped for",
}

// SearchQuery is one generated platform query with the strategy that
// produced it, for logging and debugging.
type SearchQuery struct {
	Kind  string
	Query string
}

// BuildSearchQueries expands an event name into prioritized platform
// queries: exact phrase first, then keyword pairs, engagement-phrase
// combinations, date-anchored variants and hashtags. Capped at
// maxSearchQueries; earlier entries are more precise.
func BuildSearchQueries(eventName, eventDate string) []SearchQuery {
	var queries []SearchQuery
	keywords := ExtractKeywords(eventName)

	if len(eventName) < 50 {
		queries = append(queries,
			SearchQuery{"exact", fmt.Sprintf("%q", eventName)},
			SearchQuery{"exact_no_quotes", eventName},
		)
	}

	if len(keywords) >= 2 {
		pair := keywords[0] + " " + keywords[1]
		queries = append(queries,
			SearchQuery{"keywords", fmt.Sprintf("%q", pair)},
			SearchQuery{"keywords_alt", pair},
		)
	}
	if len(keywords) >= 1 {
		queries = append(queries, SearchQuery{"single_keyword", keywords[0]})
	}

	if len(keywords) >= 1 {
		for _, phrase := range strongEngagementPhrases {
			queries = append(queries, SearchQuery{"engagement", keywords[0] + " " + phrase})
			if len(keywords) >= 2 {
				queries = append(queries, SearchQuery{
					"engagement_pair", keywords[0] + " " + keywords[1] + " " + phrase,
				})
			}
		}
	}

	if eventDate != "" && len(keywords) >= 1 {
		queries = append(queries, SearchQuery{"dated", keywords[0] + " " + eventDate})
		if len(keywords) >= 2 {
			queries = append(queries, SearchQuery{
				"dated_pair", keywords[0] + " " + keywords[1] + " " + eventDate,
			})
		}
	}

	if len(keywords) >= 1 {
		queries = append(queries,
			SearchQuery{"generic", keywords[0] + " event"},
			SearchQuery{"hashtag", "#" + strings.ReplaceAll(keywords[0], " ", "")},
		)
	}

	if len(queries) > maxSearchQueries {
		queries = queries[:maxSearchQueries]
	}
	return queries
}
