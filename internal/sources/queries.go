// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package sources

import (
	"strings"

	"github.com/tomtom215/showfinder/internal/models"
)

// queryTemplates expand one (category, location) pair into provider search
// strings. {category} and {location} are distinct placeholders replaced
// independently; a template may use either, both, or neither.
var queryTemplates = []string{
	"{category} events in {location}",
	"upcoming {category} in {location}",
	"{location} {category} this month",
}

// generalTemplates are used when the caller did not narrow by category.
var generalTemplates = []string{
	"events in {location}",
	"things to do in {location}",
	"what's happening in {location}",
}

// categorySearchTerm maps a category to the phrasing that works best in
// free-text provider queries.
var categorySearchTerm = map[models.Category]string{
	models.CategoryMusic:      "concerts",
	models.CategorySports:     "sports games",
	models.CategoryTech:       "tech meetups",
	models.CategoryBusiness:   "business networking events",
	models.CategoryArts:       "art exhibitions",
	models.CategoryTheater:    "theater shows",
	models.CategoryComedy:     "comedy shows",
	models.CategoryFood:       "food festivals",
	models.CategoryFestival:   "festivals",
	models.CategoryConference: "conferences",
}

// BuildQueries expands the query templates for a location and category set.
// Output order is deterministic and duplicates are dropped, so overlapping
// categories ("festival" and "food") never issue the same search twice.
func BuildQueries(location string, categories []models.Category) []string {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	add := func(q string) {
		q = strings.Join(strings.Fields(q), " ")
		if q == "" {
			return
		}
		if _, dup := seen[q]; dup {
			return
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}

	if len(categories) == 0 {
		for _, tpl := range generalTemplates {
			add(expand(tpl, "", location))
		}
		return out
	}

	for _, cat := range categories {
		term, ok := categorySearchTerm[cat]
		if !ok {
			term = string(cat) + " events"
		}
		for _, tpl := range queryTemplates {
			add(expand(tpl, term, location))
		}
	}
	return out
}

// expand substitutes both placeholders in a single pass. Replacer does not
// rescan substituted text, so placeholder-looking text inside a category
// term or location value passes through untouched.
func expand(tpl, categoryTerm, location string) string {
	return strings.NewReplacer(
		"{category}", categoryTerm,
		"{location}", location,
	).Replace(tpl)
}
