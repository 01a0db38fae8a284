// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package sources

import "strings"

// hypeKeywords each add a fixed bump to the hype score when present in the
// event name. Weighted by how strongly the phrase predicts a notable event.
var hypeKeywords = map[string]float64{
	"world tour":    0.25,
	"championship":  0.20,
	"finals":        0.20,
	"grand prix":    0.20,
	"festival":      0.15,
	"headliner":     0.15,
	"sold out":      0.15,
	"premiere":      0.10,
	"opening night": 0.10,
	"playoff":       0.10,
	"reunion":       0.10,
	"farewell":      0.10,
	"anniversary":   0.05,
	"live":          0.05,
}

// hypeVenueCues mark venue classes that imply scale.
var hypeVenueCues = map[string]float64{
	"stadium":      0.20,
	"arena":        0.15,
	"amphitheater": 0.10,
	"amphitheatre": 0.10,
	"garden":       0.10,
	"coliseum":     0.10,
	"bowl":         0.05,
}

// hypeScore estimates event notability in [0,1] from name and venue
// phrasing. Purely lexical; providers that report their own popularity
// rank override this with a blend.
func hypeScore(name, venue string) float64 {
	s := 0.3
	n := strings.ToLower(name)
	for kw, w := range hypeKeywords {
		if strings.Contains(n, kw) {
			s += w
		}
	}
	v := strings.ToLower(venue)
	for cue, w := range hypeVenueCues {
		if strings.Contains(v, cue) {
			s += w
		}
	}
	if s > 1 {
		return 1
	}
	return s
}
