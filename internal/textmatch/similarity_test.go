// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package textmatch

import "testing"

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		min  float64
		max  float64
	}{
		{
			name: "identical strings",
			a:    "Madison Square Garden",
			b:    "Madison Square Garden",
			min:  1.0,
			max:  1.0,
		},
		{
			name: "case and whitespace insensitive",
			a:    "madison  square garden",
			b:    "Madison Square Garden",
			min:  1.0,
			max:  1.0,
		},
		{
			name: "both empty",
			a:    "",
			b:    "",
			min:  1.0,
			max:  1.0,
		},
		{
			name: "one empty",
			a:    "Knicks vs Wizards",
			b:    "",
			min:  0.0,
			max:  0.0,
		},
		{
			name: "near duplicate event names",
			a:    "New York Knicks vs. Washington Wizards",
			b:    "New York Knicks vs Washington Wizards",
			min:  0.9,
			max:  1.0,
		},
		{
			name: "unrelated strings",
			a:    "Jazz Night at the Blue Note",
			b:    "Monster Truck Rally",
			min:  0.0,
			max:  0.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.a, tt.b)
			if got < tt.min || got > tt.max {
				t.Errorf("Ratio(%q, %q) = %v, want in [%v, %v]", tt.a, tt.b, got, tt.min, tt.max)
			}
		})
	}
}

func TestRatioSymmetric(t *testing.T) {
	a, b := "Coldplay World Tour", "Coldplay: Music of the Spheres Tour"
	if Ratio(a, b) != Ratio(b, a) {
		t.Errorf("Ratio is not symmetric: %v != %v", Ratio(a, b), Ratio(b, a))
	}
}

func TestRatioBounded(t *testing.T) {
	pairs := [][2]string{
		{"a", "completely different and much longer string"},
		{"", "x"},
		{"same", "same"},
		{"ab", "ba"},
	}
	for _, p := range pairs {
		got := Ratio(p[0], p[1])
		if got < 0.0 || got > 1.0 {
			t.Errorf("Ratio(%q, %q) = %v, want in [0,1]", p[0], p[1], got)
		}
	}
}

func TestTokenOverlap(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		needle   string
		min      float64
		max      float64
	}{
		{
			name:     "full overlap",
			haystack: "so excited for the knicks wizards game tonight",
			needle:   "Knicks vs Wizards",
			min:      1.0,
			max:      1.0,
		},
		{
			name:     "no overlap",
			haystack: "great pasta recipe",
			needle:   "Knicks vs Wizards",
			min:      0.0,
			max:      0.0,
		},
		{
			name:     "short words ignored",
			haystack: "nothing relevant here",
			needle:   "a vs b",
			min:      0.0,
			max:      0.0,
		},
		{
			name:     "partial overlap",
			haystack: "heading to the wizards game",
			needle:   "Knicks versus Wizards",
			min:      0.2,
			max:      0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TokenOverlap(tt.haystack, tt.needle)
			if got < tt.min || got > tt.max {
				t.Errorf("TokenOverlap(%q, %q) = %v, want in [%v, %v]", tt.haystack, tt.needle, got, tt.min, tt.max)
			}
		})
	}
}
