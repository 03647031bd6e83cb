// Package filter selects and orders productions from a catalog.
//
// The three browse queries of the tool are All, Future and Search. They are
// thin wrappers over Filter, which can also combine criteria:
//
//	// Upcoming shows at the Civic Theatre
//	f := filter.NewFilter()
//	f.EndingFrom = &today
//	f.Venues = []string{"civic"}
//	shows := f.Apply(catalog.All())
//
// Every query returns productions sorted by start date (empty first), then slug.
package filter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/ctx-theatre/internal/production"
)

// Filter represents production selection criteria
type Filter struct {
	// Title keyword (case-insensitive substring match)
	Keyword string `json:"keyword,omitempty"`

	// Keep productions still running on or after this day
	EndingFrom *time.Time `json:"ending_from,omitempty"`

	// Venue name filtering (case-insensitive substring match)
	Venues []string `json:"venues,omitempty"`

	// Category filtering (exact, case-insensitive)
	Categories []string `json:"categories,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
func NewFilter() *Filter {
	return &Filter{
		Venues:     []string{},
		Categories: []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f.Keyword == "" &&
		f.EndingFrom == nil &&
		len(f.Venues) == 0 &&
		len(f.Categories) == 0
}

// Matches checks if a production matches all active criteria.
// An empty filter matches everything.
func (f *Filter) Matches(p *production.Production) bool {
	if p == nil {
		return false
	}
	if f.IsEmpty() {
		return true
	}

	if f.Keyword != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Keyword)) {
		return false
	}

	if f.EndingFrom != nil && !p.IsFuture(*f.EndingFrom) {
		return false
	}

	if len(f.Venues) > 0 {
		matched := false
		venueLower := strings.ToLower(p.VenueName)
		for _, venue := range f.Venues {
			if strings.Contains(venueLower, strings.ToLower(venue)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Categories) > 0 {
		matched := false
		for _, category := range f.Categories {
			if strings.EqualFold(p.Category, category) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// Apply returns the matching productions sorted by start date.
// The input slice is not modified.
func (f *Filter) Apply(productions []*production.Production) []*production.Production {
	var filtered []*production.Production
	for _, p := range productions {
		if f.Matches(p) {
			filtered = append(filtered, p)
		}
	}

	SortByStart(filtered)
	return filtered
}

// String returns a human-readable description of the active criteria.
// Format: "Title: annie | Ending from: 2026-01-02 | Venues: civic"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.Keyword != "" {
		parts = append(parts, fmt.Sprintf("Title: %s", f.Keyword))
	}

	if f.EndingFrom != nil {
		parts = append(parts, fmt.Sprintf("Ending from: %s", f.EndingFrom.Format("2006-01-02")))
	}

	if len(f.Venues) > 0 {
		parts = append(parts, fmt.Sprintf("Venues: %s", strings.Join(f.Venues, ", ")))
	}

	if len(f.Categories) > 0 {
		parts = append(parts, fmt.Sprintf("Categories: %s", strings.Join(f.Categories, ", ")))
	}

	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the filter.
func (f *Filter) Clone() *Filter {
	clone := &Filter{Keyword: f.Keyword}

	if f.EndingFrom != nil {
		ef := *f.EndingFrom
		clone.EndingFrom = &ef
	}

	clone.Venues = append([]string{}, f.Venues...)
	clone.Categories = append([]string{}, f.Categories...)

	return clone
}

// All returns every production in the catalog.
func All(catalog production.Catalog) []*production.Production {
	return NewFilter().Apply(catalog.All())
}

// Future returns productions whose end date is today or later, which
// includes shows currently running. Productions without a valid end date
// are left out.
func Future(catalog production.Catalog, today time.Time) []*production.Production {
	f := NewFilter()
	f.EndingFrom = &today
	return f.Apply(catalog.All())
}

// Search returns productions whose title contains keyword, ignoring case.
// A blank keyword matches nothing.
func Search(catalog production.Catalog, keyword string) []*production.Production {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil
	}

	f := NewFilter()
	f.Keyword = keyword
	return f.Apply(catalog.All())
}

// SortByStart orders productions by start date, then slug. Records without
// a start date sort first.
func SortByStart(productions []*production.Production) {
	sort.SliceStable(productions, func(i, j int) bool {
		if productions[i].StartDate != productions[j].StartDate {
			return productions[i].StartDate < productions[j].StartDate
		}
		return productions[i].Slug < productions[j].Slug
	})
}
