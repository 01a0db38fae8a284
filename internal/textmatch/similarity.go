// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

// Package textmatch provides normalized string similarity used by the
// semantic deduplicator and the social relevance scorer.
//
// The contract is deliberately small: Ratio exposes a [0,1] similarity score
// over two strings, computed from Levenshtein edit distance. Any
// edit-distance or LCS based ratio satisfies the callers; they depend only on
// the normalized score, never on the underlying algorithm.
package textmatch

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Ratio returns a similarity score in [0,1] for a and b after
// case-folding and whitespace normalization. Identical strings score 1.0,
// strings with nothing in common score near 0.0. Two empty strings are
// considered identical.
func Ratio(a, b string) float64 {
	a = normalize(a)
	b = normalize(b)

	if a == b {
		return 1.0
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1.0
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

// normalize lowercases, trims, and collapses interior whitespace so that
// formatting differences do not count as edits.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteRune(' ')
			}
			lastSpace = true
			continue
		}
		lastSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// TokenOverlap returns the fraction of words in needle (length > 3) that
// appear in haystack, in [0,1]. Used by the social relevance scorer where
// word presence matters more than character order.
func TokenOverlap(haystack, needle string) float64 {
	hay := strings.ToLower(haystack)
	words := strings.Fields(strings.ToLower(needle))

	considered := 0
	hits := 0
	for _, w := range words {
		if len(w) <= 3 {
			continue
		}
		considered++
		if strings.Contains(hay, w) {
			hits++
		}
	}
	if considered == 0 {
		return 0
	}
	return float64(hits) / float64(considered)
}
