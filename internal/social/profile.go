// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package social

import (
	"regexp"
	"strings"
)

// bioLocationPatterns match the ways people write a home location into a
// free-text bio. Checked in order; the first hit wins.
var bioLocationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`📍\s*([^\n📍]+)`),
	regexp.MustCompile(`(?i)based in\s+([A-Z][a-zA-Z\s,]+)`),
	regexp.MustCompile(`(?i)lives in\s+([A-Z][a-zA-Z\s,]+)`),
	regexp.MustCompile(`(?i)located in\s+([A-Z][a-zA-Z\s,]+)`),
	regexp.MustCompile(`(?i)from\s+([A-Z][a-zA-Z\s,]+)`),
	regexp.MustCompile(`(?i)location:\s*([^\n]+)`),
	regexp.MustCompile(`(?i)city:\s*([^\n]+)`),
	// "New York, NY" style
	regexp.MustCompile(`[A-Z][a-zA-Z\s]+,\s*[A-Z]{2}\b`),
}

var multiSpace = regexp.MustCompile(`\s+`)

// InferLocation resolves an author's location: the profile's location
// field when set, otherwise pattern extraction from the bio. Returns ""
// when nothing plausible is found.
func InferLocation(profileLocation, bio string) string {
	loc := strings.TrimSpace(profileLocation)
	if loc != "" && !strings.EqualFold(loc, "none") && !strings.EqualFold(loc, "null") {
		return loc
	}
	return locationFromBio(bio)
}

func locationFromBio(bio string) string {
	if bio == "" {
		return ""
	}
	for _, pattern := range bioLocationPatterns {
		m := pattern.FindStringSubmatch(bio)
		if m == nil {
			continue
		}
		extracted := m[0]
		if len(m) > 1 {
			extracted = m[1]
		}
		extracted = multiSpace.ReplaceAllString(strings.TrimSpace(extracted), " ")
		extracted = strings.TrimRight(extracted, ",")
		if len(extracted) > 1 {
			return extracted
		}
	}
	return ""
}
