// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package quality

import (
	"strings"

	"github.com/tomtom215/showfinder/internal/models"
)

// categoryKeywords drives keyword inference over event names. Order matters:
// earlier entries win when a name matches several categories, so the more
// specific categories come first.
var categoryKeywords = []struct {
	category models.Category
	words    []string
}{
	{models.CategorySports, []string{
		"vs.", "vs ", " v ", "game", "match", "knicks", "lakers", "nba", "nfl",
		"mlb", "nhl", "fifa", "ufc", "boxing", "marathon", "tournament",
		"championship", "grand prix", "derby", "race",
	}},
	{models.CategoryComedy, []string{
		"comedy", "stand-up", "standup", "comedian", "improv", "open mic",
	}},
	{models.CategoryTheater, []string{
		"theater", "theatre", "broadway", "musical", "ballet", "opera",
		"play", "shakespeare",
	}},
	{models.CategoryConference, []string{
		"conference", "summit", "symposium", "congress", "convention", "expo",
	}},
	{models.CategoryTech, []string{
		"tech", "hackathon", "developer", "startup", "ai ", " ai", "software",
		"coding", "devops", "blockchain",
	}},
	{models.CategoryBusiness, []string{
		"business", "networking", "entrepreneur", "investor", "marketing",
		"leadership", "workshop", "seminar",
	}},
	{models.CategoryFood, []string{
		"food", "tasting", "culinary", "wine", "beer", "brunch", "dinner",
		"cooking", "bbq", "street food",
	}},
	{models.CategoryFestival, []string{
		"festival", "fest", "fair", "carnival", "parade", "celebration",
	}},
	{models.CategoryArts, []string{
		"art", "gallery", "exhibition", "exhibit", "museum", "photography",
		"sculpture", "painting",
	}},
	{models.CategoryMusic, []string{
		"concert", "tour", "live music", "band", "orchestra", "symphony",
		"dj ", "jazz", "rock", "hip hop", "hip-hop", "rap", "acoustic",
		"album", "gig",
	}},
}

// InferCategory classifies an event name by keyword. Names matching nothing
// come back as CategoryOther. Adapters call this when a provider supplies no
// taxonomy; the quality filter calls it to re-check a claimed category.
func InferCategory(name string) models.Category {
	n := strings.ToLower(name)
	for _, ck := range categoryKeywords {
		for _, w := range ck.words {
			if strings.Contains(n, w) {
				return ck.category
			}
		}
	}
	return models.CategoryOther
}

// highValueCategories are the classes that reliably mark a discrete,
// attendable event when a provider claims them.
var highValueCategories = map[models.Category]struct{}{
	models.CategoryMusic:   {},
	models.CategorySports:  {},
	models.CategoryArts:    {},
	models.CategoryTheater: {},
	models.CategoryComedy:  {},
	models.CategoryFood:    {},
}

// mediumValueCategories are plausible but looser classes; providers use
// them for everything from trade fairs to meetups.
var mediumValueCategories = map[models.Category]struct{}{
	models.CategoryConference: {},
	models.CategoryBusiness:   {},
	models.CategoryTech:       {},
	models.CategoryFestival:   {},
}

// categoryConfidence scores an event's claimed category by class:
// high-value classes 1.0, medium 0.7. Unclassified events get one
// re-inference attempt from the name, scoring 0.5 on success and 0.3
// when the name gives nothing away either.
func categoryConfidence(e *models.Event) float64 {
	if _, ok := highValueCategories[e.Category]; ok {
		return 1.0
	}
	if _, ok := mediumValueCategories[e.Category]; ok {
		return 0.7
	}
	if InferCategory(e.Name) != models.CategoryOther {
		return 0.5
	}
	return 0.3
}
