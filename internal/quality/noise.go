// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package quality

import (
	"regexp"
	"strings"
)

// noisePatterns match provider records that are not genuine discrete events:
// season passes, vouchers, bundles, test records, ticket-utility entries,
// promotional add-ons, and code-like names. A name matching any of these is
// rejected outright.
//
// The set is maintained from observed provider noise; keep patterns anchored
// to word boundaries so legitimate names ("Pass the Mic Tour") survive.
var noisePatterns = compileAll([]string{
	// Season passes and tickets
	`(?i)\b(season\s+pass|season\s+ticket|full\s+season|half\s+season|season\s+package)\b`,
	`(?i)\b(voucher|vouchers|discount\s+pass|membership\s+card|access\s+card)\b`,
	`(?i)\b(bundle|bundles|ticket\s+package)\b`,

	// Season-tier ID codes: "24-25 Diamond ID", "24-25 Gold", bare "24-25"
	`(?i)\d{2}-\d{2}\s+\w+\s+id\b`,
	`(?i)\b\d{2}-\d{2}\s+id\b`,
	`(?i)\b\d{2}-\d{2}\s+(diamond|gold|silver|platinum|bronze|regions|staff|premium|vip|elite)\b`,
	`(?i)^\d{2}-\d{2}(\s+\w+)?$`,

	// Test and placeholder records: "Test <anything>"
	`(?i)\btest\s+\w+`,
	`(?i)\b(placeholder|dummy|non-manifested|do\s+not\s+contact)\b`,

	// Ticket-utility entries
	`(?i)\b(share|sharing|transfer|resale|exchange)\b.*\b(ticket|pass)\b`,
	`(?i)\b(gift\s+card|store\s+credit|ticket\s+transfer|ticket\s+resale)\b`,

	// Promotions and add-ons, not events: "<word> Offer", "<tier> Experience"
	`(?i)\b\w+\s+offer$`,
	`(?i)\b(vip|igloo|premium|exclusive)\s+experience\b`,
	`(?i)\b(upgrade|add-on|addon)\b`,

	// Venue-TBD records that leaked into the name field
	`(?i)\b(venue\s+tbd|venue\s+tba|venue\s+tbc|various\s+venues)\b`,

	// Suspicious code-like names
	`^\d+$`,
	`^[A-Z0-9]{10,}$`,
})

// invalidVenuePatterns reject venue strings that are generic rather than a
// place. Applied again here as a second line of defense behind the adapters'
// parse-time filtering.
var invalidVenuePatterns = compileAll([]string{
	`(?i)\b(test|tbd|tba|tbc|various|multiple|online|virtual|streaming)\b`,
	`(?i)\(venue\s+(tbd|tba|tbc)\)`,
	`(?i)\b(general\s+admission\s+only)\b`,
})

// placeholderVenues is the fixed deny-set of venue strings that mean
// "no venue", matched case-insensitively against the whole trimmed value.
var placeholderVenues = map[string]struct{}{
	"various":            {},
	"various venues":     {},
	"tbd":                {},
	"tba":                {},
	"tbc":                {},
	"to be determined":   {},
	"to be announced":    {},
	"to be confirmed":    {},
	"online":             {},
	"virtual":            {},
	"streaming":          {},
	"multiple locations": {},
	"multiple venues":    {},
	"venue not specified": {},
}

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// MatchesNoise reports whether an event name matches any noise pattern.
// Empty names are noise by definition.
func MatchesNoise(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return true
	}
	for _, re := range noisePatterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// PlaceholderVenue reports whether venue means "no venue": a deny-set
// placeholder, or shorter than 3 characters once trimmed. Adapters call
// this at parse time; the quality filter calls it again on whatever
// slipped through.
func PlaceholderVenue(venue string) bool {
	v := strings.ToLower(strings.TrimSpace(venue))
	if len(v) < 3 {
		return true
	}
	_, deny := placeholderVenues[v]
	return deny
}

// InvalidVenue reports whether a non-empty venue string is generic rather
// than a real place name.
func InvalidVenue(venue string) bool {
	if PlaceholderVenue(venue) {
		return true
	}
	for _, re := range invalidVenuePatterns {
		if re.MatchString(venue) {
			return true
		}
	}
	return false
}
