package production

import (
	"strings"
	"testing"
	"time"
)

func TestSlugFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://ctxlivetheatre.com/productions/20260116-songs-for-a-new-world-by-waco-civic-theat/", "20260116-songs-for-a-new-world-by-waco-civic-theat"},
		{"https://ctxlivetheatre.com/productions/rex-dexter", "rex-dexter"},
		{"https://ctxlivetheatre.com/productions/rex-dexter/?utm_source=rss", "rex-dexter"},
		{"https://ctxlivetheatre.com/productions/rex-dexter/#tickets", "rex-dexter"},
		{"https://ctxlivetheatre.com/productions/rex-dexter//", "rex-dexter"},
		{"/productions/annie/", "annie"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := SlugFromURL(tt.url)
			if got != tt.want {
				t.Errorf("SlugFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
			if strings.Contains(got, "/") {
				t.Errorf("SlugFromURL(%q) = %q contains a slash", tt.url, got)
			}
		})
	}
}

func TestManualSlug(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		startDate string
		existing  map[string]bool
		want      string
	}{
		{
			name:      "fresh slug",
			title:     "Rex Dexter of Mars",
			startDate: "2025-11-21",
			want:      "2025-11-21-rex-dexter-of-mars",
		},
		{
			name:      "collision gets suffix",
			title:     "Rex Dexter of Mars",
			startDate: "2025-11-21",
			existing:  map[string]bool{"2025-11-21-rex-dexter-of-mars": true},
			want:      "2025-11-21-rex-dexter-of-mars-2",
		},
		{
			name:      "second collision",
			title:     "Rex Dexter of Mars",
			startDate: "2025-11-21",
			existing: map[string]bool{
				"2025-11-21-rex-dexter-of-mars":   true,
				"2025-11-21-rex-dexter-of-mars-2": true,
			},
			want: "2025-11-21-rex-dexter-of-mars-3",
		},
		{
			name:      "punctuation collapses",
			title:     "  Annie! (The Musical) ",
			startDate: "2026-03-01",
			want:      "2026-03-01-annie-the-musical",
		},
		{
			name:  "nothing usable",
			title: "!!!",
			want:  "manual-production",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ManualSlug(tt.title, tt.startDate, tt.existing)
			if got != tt.want {
				t.Errorf("ManualSlug() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestManualSlug_Deterministic(t *testing.T) {
	existing := map[string]bool{"2025-11-21-rex-dexter-of-mars": true}

	first := ManualSlug("Rex Dexter of Mars", "2025-11-21", existing)
	second := ManualSlug("Rex Dexter of Mars", "2025-11-21", existing)

	if first != second {
		t.Errorf("ManualSlug() not deterministic: %q vs %q", first, second)
	}
	if first == "2025-11-21-rex-dexter-of-mars" {
		t.Error("ManualSlug() reused an existing slug")
	}
	if !strings.HasPrefix(first, "2025-11-21-rex-dexter-of-mars") {
		t.Errorf("ManualSlug() = %q, want prefix of base slug", first)
	}
}

func TestProduction_IsFuture(t *testing.T) {
	today := time.Date(2026, 1, 16, 15, 4, 5, 0, time.Local)

	tests := []struct {
		name    string
		endDate string
		want    bool
	}{
		{"ends today", "2026-01-16", true},
		{"ends tomorrow", "2026-01-17", true},
		{"ended yesterday", "2026-01-15", false},
		{"no end date", "", false},
		{"bad end date", "soon", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Production{EndDate: tt.endDate}
			if got := p.IsFuture(today); got != tt.want {
				t.Errorf("IsFuture() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCatalog(t *testing.T) {
	c := NewCatalog()
	c.Put(&Production{Slug: "b-show", Title: "B"})
	c.Put(&Production{Slug: "a-show", Title: "A"})
	c.Put(&Production{Slug: "b-show", Title: "B revised"})

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	got, ok := c.Get("b-show")
	if !ok || got.Title != "B revised" {
		t.Errorf("Get(b-show) = %+v, %v; want last write", got, ok)
	}

	if !c.Has("a-show") || c.Has("c-show") {
		t.Error("Has() reported wrong membership")
	}

	all := c.All()
	if len(all) != 2 || all[0].Slug != "a-show" || all[1].Slug != "b-show" {
		t.Errorf("All() order = %v, want a-show, b-show", []string{all[0].Slug, all[1].Slug})
	}

	slugs := c.Slugs()
	if !slugs["a-show"] || !slugs["b-show"] || len(slugs) != 2 {
		t.Errorf("Slugs() = %v", slugs)
	}
}

func TestDetectChanges(t *testing.T) {
	base := &Production{
		Slug:         "annie",
		Title:        "Annie",
		DateText:     "Jan 1 - Jan 5, 2026",
		StartDate:    "2026-01-01",
		EndDate:      "2026-01-05",
		VenueName:    "Civic",
		HTMLSynopsis: "Tomorrow.",
	}

	t.Run("new record", func(t *testing.T) {
		changes := DetectChanges(nil, base)
		if len(changes) != 1 || changes[0].Kind != ChangeNew || changes[0].NewValue != "Annie" {
			t.Errorf("DetectChanges(nil) = %+v", changes)
		}
	})

	t.Run("identical", func(t *testing.T) {
		same := *base
		if changes := DetectChanges(base, &same); len(changes) != 0 {
			t.Errorf("DetectChanges() = %+v, want none", changes)
		}
	})

	t.Run("dates and venue", func(t *testing.T) {
		updated := *base
		updated.EndDate = "2026-01-12"
		updated.VenueAddress = "1517 Lake Air Drive"

		changes := DetectChanges(base, &updated)
		kinds := map[string]bool{}
		for _, c := range changes {
			kinds[c.Kind] = true
			if c.Slug != "annie" {
				t.Errorf("change slug = %q, want annie", c.Slug)
			}
		}
		if len(changes) != 2 || !kinds[ChangeDates] || !kinds[ChangeVenue] {
			t.Errorf("DetectChanges() kinds = %v, want dates and venue", kinds)
		}
	})
}
