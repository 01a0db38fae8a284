// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package quality

import "strings"

// regionCues map coarse world regions to city and country substrings. The
// signal is noisy (venue strings rarely carry geography), so a mismatch is a
// score penalty, never a hard rejection.
var regionCues = map[string][]string{
	"americas": {
		"united states", "usa", "u.s.", "new york", "los angeles", "chicago",
		"boston", "miami", "austin", "seattle", "san francisco", "toronto",
		"vancouver", "mexico city", "canada", "brazil",
	},
	"europe": {
		"london", "paris", "berlin", "madrid", "rome", "amsterdam", "dublin",
		"lisbon", "vienna", "prague", "united kingdom", "uk", "germany",
		"france", "spain", "italy",
	},
	"asia": {
		"tokyo", "osaka", "seoul", "beijing", "shanghai", "hong kong",
		"hongkong", "singapore", "bangkok", "mumbai", "delhi", "jakarta",
		"taipei", "japan", "china", "india",
	},
	"oceania": {
		"sydney", "melbourne", "brisbane", "auckland", "perth",
		"australia", "new zealand",
	},
}

// inferRegion returns the region a location string hints at, or "" when no
// cue matches.
func inferRegion(s string) string {
	s = strings.ToLower(s)
	if s == "" {
		return ""
	}
	for region, cues := range regionCues {
		for _, cue := range cues {
			if strings.Contains(s, cue) {
				return region
			}
		}
	}
	return ""
}

// locationMismatch reports whether an event's venue or location carries a cue
// for a different region than the searched location. Unknown on either side
// means no verdict.
func locationMismatch(searchLocation string, eventVenue, eventLocation string) bool {
	want := inferRegion(searchLocation)
	if want == "" {
		return false
	}
	got := inferRegion(eventVenue)
	if got == "" {
		got = inferRegion(eventLocation)
	}
	return got != "" && got != want
}
