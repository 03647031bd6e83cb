package filter

import (
	"testing"
	"time"

	"github.com/pfrederiksen/ctx-theatre/internal/production"
)

func testCatalog() production.Catalog {
	c := production.NewCatalog()
	for _, p := range []*production.Production{
		{Slug: "annie", Title: "Annie", Category: "Productions", StartDate: "2026-03-01", EndDate: "2026-03-15", VenueName: "Waco Civic Theatre"},
		{Slug: "into-the-woods", Title: "Into the Woods", Category: "Productions", StartDate: "2026-01-10", EndDate: "2026-01-20", VenueName: "Hippodrome"},
		{Slug: "annie-jr", Title: "ANNIE Jr.", Category: "Manual", StartDate: "2026-01-10", EndDate: "2026-01-11"},
		{Slug: "closed", Title: "Little Women", Category: "Productions", StartDate: "2025-12-01", EndDate: "2026-01-09"},
		{Slug: "undated", Title: "Annie Get Your Gun", Category: "Manual"},
		{Slug: "bad-end", Title: "The Crucible", Category: "Productions", StartDate: "2026-02-01", EndDate: "soon"},
	} {
		c.Put(p)
	}
	return c
}

func slugs(productions []*production.Production) []string {
	out := make([]string, 0, len(productions))
	for _, p := range productions {
		out = append(out, p.Slug)
	}
	return out
}

func equalSlugs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilter_IsEmpty(t *testing.T) {
	today := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{name: "empty filter", filter: NewFilter(), want: true},
		{name: "keyword", filter: &Filter{Keyword: "annie"}, want: false},
		{name: "ending from", filter: &Filter{EndingFrom: &today}, want: false},
		{name: "venue", filter: &Filter{Venues: []string{"civic"}}, want: false},
		{name: "category", filter: &Filter{Categories: []string{"Manual"}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.IsEmpty(); got != tt.want {
				t.Errorf("Filter.IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Matches(t *testing.T) {
	jan20 := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	jan21 := time.Date(2026, 1, 21, 0, 0, 0, 0, time.UTC)
	woods := &production.Production{
		Title:     "Into the Woods",
		Category:  "Productions",
		EndDate:   "2026-01-20",
		VenueName: "Hippodrome Theatre",
	}

	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{name: "empty filter matches all", filter: NewFilter(), want: true},
		{name: "keyword ignores case", filter: &Filter{Keyword: "WOODS"}, want: true},
		{name: "keyword does not match", filter: &Filter{Keyword: "annie"}, want: false},
		{name: "ends on the day", filter: &Filter{EndingFrom: &jan20}, want: true},
		{name: "ended the day before", filter: &Filter{EndingFrom: &jan21}, want: false},
		{name: "venue matches", filter: &Filter{Venues: []string{"civic", "hippo"}}, want: true},
		{name: "venue does not match", filter: &Filter{Venues: []string{"civic"}}, want: false},
		{name: "category matches", filter: &Filter{Categories: []string{"productions"}}, want: true},
		{name: "category does not match", filter: &Filter{Categories: []string{"Manual"}}, want: false},
		{
			name:   "all criteria must hold",
			filter: &Filter{Keyword: "woods", EndingFrom: &jan21},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(woods); got != tt.want {
				t.Errorf("Filter.Matches() = %v, want %v", got, tt.want)
			}
		})
	}

	if NewFilter().Matches(nil) {
		t.Error("Matches(nil) = true, want false")
	}
}

func TestAll(t *testing.T) {
	got := slugs(All(testCatalog()))
	want := []string{"undated", "closed", "annie-jr", "into-the-woods", "bad-end", "annie"}
	if !equalSlugs(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}
}

func TestFuture(t *testing.T) {
	tests := []struct {
		name  string
		today time.Time
		want  []string
	}{
		{
			name:  "end date equal to today is included",
			today: time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC),
			want:  []string{"closed", "annie-jr", "into-the-woods", "annie"},
		},
		{
			name:  "end date yesterday is excluded",
			today: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
			want:  []string{"annie-jr", "into-the-woods", "annie"},
		},
		{
			name:  "time of day is ignored",
			today: time.Date(2026, 1, 11, 23, 59, 0, 0, time.UTC),
			want:  []string{"annie-jr", "into-the-woods", "annie"},
		},
		{
			name:  "everything over",
			today: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slugs(Future(testCatalog(), tt.today))
			if !equalSlugs(got, tt.want) {
				t.Errorf("Future() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		want    []string
	}{
		{name: "case-insensitive title match", keyword: "annie", want: []string{"undated", "annie-jr", "annie"}},
		{name: "keyword is trimmed", keyword: "  woods ", want: []string{"into-the-woods"}},
		{name: "no match", keyword: "hamlet", want: []string{}},
		{name: "blank keyword", keyword: "   ", want: []string{}},
		{name: "venue is not searched", keyword: "hippodrome", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slugs(Search(testCatalog(), tt.keyword))
			if !equalSlugs(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.keyword, got, tt.want)
			}
		})
	}
}

func TestFilter_String(t *testing.T) {
	jan15 := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter *Filter
		want   string
	}{
		{name: "empty filter", filter: NewFilter(), want: "No active filters"},
		{name: "keyword", filter: &Filter{Keyword: "annie"}, want: "Title: annie"},
		{
			name:   "complex filter",
			filter: &Filter{Keyword: "annie", EndingFrom: &jan15, Venues: []string{"Civic", "Hippodrome"}},
			want:   "Title: annie | Ending from: 2026-01-15 | Venues: Civic, Hippodrome",
		},
		{name: "categories", filter: &Filter{Categories: []string{"Manual"}}, want: "Categories: Manual"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.String(); got != tt.want {
				t.Errorf("Filter.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Clone(t *testing.T) {
	jan15 := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	original := &Filter{
		Keyword:    "annie",
		EndingFrom: &jan15,
		Venues:     []string{"Civic"},
		Categories: []string{"Manual"},
	}

	clone := original.Clone()
	if clone.String() != original.String() {
		t.Errorf("Clone() = %v, want %v", clone, original)
	}

	clone.Venues[0] = "Hippodrome"
	if original.Venues[0] == "Hippodrome" {
		t.Error("Modifying clone affected original (shallow copy)")
	}

	*clone.EndingFrom = jan15.AddDate(0, 0, 1)
	if !original.EndingFrom.Equal(jan15) {
		t.Error("Modifying clone EndingFrom affected original")
	}
}
