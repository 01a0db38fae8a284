// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package social

import "strings"

// MinRelevance is the floor below which a post is not worth surfacing.
const MinRelevance = 0.3

// eventContextWords nudge the score when the post talks about live events
// at all.
var eventContextWords = []string{
	"concert", "festival", "show", "game", "match", "event",
}

// Relevance scores how strongly a post's text refers to the named event,
// in [0,1]. Exact phrase presence dominates; keyword hits, engagement
// phrasing and generic event context add smaller amounts.
func Relevance(postText, eventName string) float64 {
	text := strings.ToLower(postText)
	name := strings.ToLower(eventName)

	score := 0.0
	if strings.Contains(text, name) {
		score += 0.6
	}

	for _, kw := range ExtractKeywords(eventName) {
		if strings.Contains(text, kw) {
			score += 0.15
		}
	}

	for _, phrase := range strongEngagementPhrases {
		if strings.Contains(text, phrase) {
			score += 0.2
			break
		}
	}
	for _, phrase := range mediumEngagementPhrases {
		if strings.Contains(text, phrase) {
			score += 0.1
			break
		}
	}

	for _, word := range eventContextWords {
		if strings.Contains(text, word) {
			score += 0.05
			break
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// engagementLevels maps phrase lists to engagement labels, strongest
// first. Order matters: confirmed attendance beats loose interest.
var engagementLevels = []struct {
	level   string
	phrases []string
}{
	{"confirmed_attendance", []string{"attending", "going to", "will be there", "see you", "got tickets"}},
	{"interested", []string{"interested", "thinking about", "considering", "might go"}},
	{"excited", []string{"excited", "can't wait", "looking forward", "hyped"}},
	{"reviewing", []string{"went to", "attended", "was amazing", "great show"}},
	{"planning", []string{"where to", "best seats", "parking", "transportation"}},
}

// DetectEngagement classifies a post's engagement level. Posts that match
// no phrase list fall back to "discussing".
func DetectEngagement(postText string) string {
	text := strings.ToLower(postText)
	for _, el := range engagementLevels {
		for _, phrase := range el.phrases {
			if strings.Contains(text, phrase) {
				return el.level
			}
		}
	}
	return "discussing"
}
