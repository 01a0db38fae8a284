// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package quality

import (
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/showfinder/internal/models"
)

func fixedClock() time.Time {
	return time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
}

func testFilter() *Filter {
	cfg := DefaultConfig()
	cfg.Now = fixedClock
	return NewFilter(cfg)
}

func TestClassifyRejectsNoiseNames(t *testing.T) {
	f := testFilter()

	noisy := []string{
		"2024-25 Full Season Discount Pass",
		"24-25 Diamond ID",
		"Awakening Buffet Offer",
		"2026 Test Locations",
		"VIP Igloo Experience",
		"Season Ticket Membership Card",
		"Ticket Transfer Service",
		"12345678",
		"ABCD1234EFGH",
	}

	for _, name := range noisy {
		v := f.Classify(&models.Event{
			Name:     name,
			Venue:    "Some Arena",
			Location: "New York",
			Source:   models.SourceTicketmaster,
		}, "New York")

		if v.Accepted {
			t.Errorf("Classify(%q) accepted, want rejected", name)
		}
		if v.Score != 0 {
			t.Errorf("Classify(%q) score = %v, want 0", name, v.Score)
		}
		if len(v.Reasons) == 0 || !strings.Contains(v.Reasons[0], "noise pattern") {
			t.Errorf("Classify(%q) reasons = %v, want noise pattern reason", name, v.Reasons)
		}
	}
}

func TestClassifyAcceptsRealEvent(t *testing.T) {
	f := testFilter()
	start := time.Date(2026, 1, 15, 19, 30, 0, 0, time.UTC)

	v := f.Classify(&models.Event{
		Name:     "New York Knicks vs. Washington Wizards",
		Venue:    "Madison Square Garden",
		Location: "New York",
		Category: models.CategorySports,
		Source:   models.SourceSerpAPI,
		Start:    &start,
	}, "New York")

	if !v.Accepted {
		t.Fatalf("real event rejected, reasons: %v", v.Reasons)
	}
	if v.Score < 0.8 {
		t.Errorf("score = %v, want >= 0.8", v.Score)
	}
	if len(v.Reasons) != 0 {
		t.Errorf("clean accept has reasons: %v", v.Reasons)
	}
}

func TestClassifyRejectsInvalidVenue(t *testing.T) {
	f := testFilter()

	v := f.Classify(&models.Event{
		Name:     "Downtown Jazz Evening",
		Venue:    "Various Venues TBD",
		Location: "Chicago",
		Source:   models.SourceSerpAPI,
	}, "Chicago")

	if v.Accepted {
		t.Error("invalid-venue event accepted, want rejected")
	}
	if len(v.Reasons) == 0 || !strings.Contains(v.Reasons[0], "invalid venue") {
		t.Errorf("reasons = %v, want invalid venue reason", v.Reasons)
	}
}

func TestClassifyMissingVenueLowersScore(t *testing.T) {
	f := testFilter()
	base := models.Event{
		Name:     "Brooklyn Indie Rock Night",
		Location: "New York",
		Category: models.CategoryMusic,
		Source:   models.SourcePredictHQ,
	}

	withVenue := base
	withVenue.Venue = "Music Hall of Williamsburg"

	got := f.Classify(&base, "New York")
	want := f.Classify(&withVenue, "New York")

	if got.Score >= want.Score {
		t.Errorf("venueless score %v not below venued score %v", got.Score, want.Score)
	}
	if !containsReason(got.Reasons, "no venue") {
		t.Errorf("reasons = %v, want no-venue reason", got.Reasons)
	}
}

func TestClassifyLocationMismatchPenalized(t *testing.T) {
	f := testFilter()
	base := models.Event{
		Name:     "Harbour Lights Music Festival",
		Category: models.CategoryMusic,
		Source:   models.SourceSerpAPI,
	}

	matched := base
	matched.Venue = "Pier 17"
	matched.Location = "New York"

	mismatched := base
	mismatched.Venue = "Hong Kong Cultural Centre"
	mismatched.Location = "Hong Kong"

	ok := f.Classify(&matched, "New York")
	bad := f.Classify(&mismatched, "New York")

	if bad.Score >= ok.Score {
		t.Errorf("mismatched-region score %v not below matched score %v", bad.Score, ok.Score)
	}
	if !containsReason(bad.Reasons, "search area") {
		t.Errorf("reasons = %v, want location mismatch reason", bad.Reasons)
	}
	// Penalty, not rejection: the record can still pass on its other merits.
	if bad.Score > 0 && bad.Score >= f.threshold && !bad.Accepted {
		t.Error("location mismatch alone must not force rejection")
	}
}

func TestClassifyDateProximityBonus(t *testing.T) {
	f := testFilter()
	soon := time.Date(2026, 1, 10, 20, 0, 0, 0, time.UTC)
	farOut := time.Date(2027, 6, 10, 20, 0, 0, 0, time.UTC)

	base := models.Event{
		Name:     "Riverside Comedy Showcase",
		Venue:    "The Laugh Cellar",
		Location: "New York",
		Category: models.CategoryComedy,
		Source:   models.SourceSerpAPI,
	}

	near := base
	near.Start = &soon
	far := base
	far.Start = &farOut

	nv := f.Classify(&near, "New York")
	fv := f.Classify(&far, "New York")

	if nv.Score <= fv.Score {
		t.Errorf("imminent event score %v not above far-future score %v", nv.Score, fv.Score)
	}
	if !containsReason(fv.Reasons, "more than a year") {
		t.Errorf("far-future reasons = %v, want year-out reason", fv.Reasons)
	}
}

func TestClassifyReinfersCategory(t *testing.T) {
	f := testFilter()

	v := f.Classify(&models.Event{
		Name:     "Stand-Up Comedy Night with Local Headliners",
		Venue:    "The Cellar",
		Location: "Boston",
		Category: models.CategoryOther,
		Source:   models.SourceSerpAPI,
	}, "Boston")

	if v.Category != models.CategoryComedy {
		t.Errorf("re-inferred category = %s, want comedy", v.Category)
	}
}

func TestCategoryConfidenceByClass(t *testing.T) {
	tests := []struct {
		name  string
		event models.Event
		want  float64
	}{
		{"high-value claim needs no name evidence",
			models.Event{Name: "An Evening with Friends", Category: models.CategoryMusic}, 1.0},
		{"sports is high-value", models.Event{Name: "City Derby", Category: models.CategorySports}, 1.0},
		{"festival is medium-value even when the name confirms it",
			models.Event{Name: "Autumn Harvest Festival", Category: models.CategoryFestival}, 0.7},
		{"conference is medium-value",
			models.Event{Name: "Annual Logistics Summit", Category: models.CategoryConference}, 0.7},
		{"unclassified with inferable name",
			models.Event{Name: "Downtown Jazz Concert", Category: models.CategoryOther}, 0.5},
		{"unclassified with opaque name",
			models.Event{Name: "Thursday Gathering", Category: models.CategoryOther}, 0.3},
		{"missing category with opaque name",
			models.Event{Name: "Thursday Gathering"}, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := categoryConfidence(&tt.event); got != tt.want {
				t.Errorf("categoryConfidence(%q/%s) = %v, want %v",
					tt.event.Name, tt.event.Category, got, tt.want)
			}
		})
	}
}

func TestDefaultConfigSourceTrust(t *testing.T) {
	trust := DefaultConfig().SourceTrust

	want := map[models.Source]float64{
		models.SourceSerpAPI:      0.90,
		models.SourceTicketmaster: 0.80,
		models.SourcePredictHQ:    0.70,
	}
	for src, w := range want {
		if trust[src] != w {
			t.Errorf("trust[%s] = %v, want %v", src, trust[src], w)
		}
	}
}

func TestClassifyScoreBounds(t *testing.T) {
	f := testFilter()
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	events := []models.Event{
		{Name: "X!", Source: "unknown"},
		{Name: "GARBAGE ###$$$ @@@", Source: models.SourceTicketmaster},
		{Name: "Lincoln Center Chamber Orchestra Winter Series", Venue: "Alice Tully Hall, Lincoln Center", Location: "New York", Category: models.CategoryMusic, Source: models.SourceSerpAPI, Start: &start},
	}

	for _, e := range events {
		v := f.Classify(&e, "New York")
		if v.Score < 0 || v.Score > 1 {
			t.Errorf("Classify(%q) score = %v, want in [0,1]", e.Name, v.Score)
		}
	}
}

func TestRunPartitionsAndAnnotates(t *testing.T) {
	f := testFilter()
	start := time.Date(2026, 1, 20, 19, 0, 0, 0, time.UTC)

	events := []models.Event{
		{Name: "New York Knicks vs. Washington Wizards", Venue: "Madison Square Garden", Location: "New York", Category: models.CategorySports, Source: models.SourceSerpAPI, Start: &start},
		{Name: "24-25 Gold ID", Venue: "Some Arena", Location: "New York", Source: models.SourceTicketmaster},
	}

	accepted, rejected := f.Run(events, "New York")

	if len(accepted) != 1 || len(rejected) != 1 {
		t.Fatalf("Run() split = %d/%d, want 1/1", len(accepted), len(rejected))
	}
	if !accepted[0].Accepted || accepted[0].QualityScore < AcceptThreshold {
		t.Errorf("accepted event not annotated: accepted=%v score=%v",
			accepted[0].Accepted, accepted[0].QualityScore)
	}
	if rejected[0].Accepted || len(rejected[0].RejectionReasons) == 0 {
		t.Errorf("rejected event not annotated: accepted=%v reasons=%v",
			rejected[0].Accepted, rejected[0].RejectionReasons)
	}
}

func containsReason(reasons []string, substr string) bool {
	for _, r := range reasons {
		if strings.Contains(r, substr) {
			return true
		}
	}
	return false
}
