package production

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// CategoryProductions is the feed category that marks a production item.
	CategoryProductions = "Productions"
	// CategoryManual marks records entered by hand.
	CategoryManual = "Manual"
)

// Production is one cached production listing, keyed by Slug.
type Production struct {
	Slug               string `json:"slug"`
	URL                string `json:"url"`
	Title              string `json:"title"`
	Category           string `json:"category"`
	DateText           string `json:"date_text"`
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date"`
	DaysOfWeek         string `json:"days_of_week"`
	VenueName          string `json:"venue_name"`
	VenueAddress       string `json:"venue_address"`
	RSSDescriptionHTML string `json:"rss_description_html"`
	RSSDescription     string `json:"rss_description"`
	HTMLSynopsis       string `json:"html_synopsis"`
}

// IsFuture reports whether the production is still running or upcoming on
// today, i.e. its end date is today or later. Records without a parseable end
// date are never considered future.
func (p *Production) IsFuture(today time.Time) bool {
	end, err := time.Parse(isoLayout, p.EndDate)
	if err != nil {
		return false
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return !end.Before(day)
}

// SlugFromURL returns the last non-empty path segment of a production URL.
// Query strings and fragments are ignored.
//
//	https://ctxlivetheatre.com/productions/20260116-songs-for-a-new-world/
//	-> 20260116-songs-for-a-new-world
func SlugFromURL(rawURL string) string {
	path := rawURL
	if u, err := url.Parse(strings.TrimSpace(rawURL)); err == nil {
		path = u.Path
	}

	segments := strings.Split(path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if seg := strings.TrimSpace(segments[i]); seg != "" {
			return seg
		}
	}
	return ""
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// ManualSlug builds a slug such as "2025-11-21-rex-dexter-of-mars" for a hand
// entered production. If the slug is taken, "-2", "-3", ... is appended until
// it is unique within existing.
func ManualSlug(title, startDate string, existing map[string]bool) string {
	base := strings.ToLower(startDate + "-" + title)
	base = nonSlugChars.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")
	if base == "" {
		base = "manual-production"
	}

	slug := base
	for n := 2; existing[slug]; n++ {
		slug = base + "-" + strconv.Itoa(n)
	}
	return slug
}

// Catalog is the in-memory store of productions keyed by slug. It is passed
// explicitly between operations; persistence is the caller's job.
type Catalog map[string]*Production

// NewCatalog creates an empty catalog
func NewCatalog() Catalog {
	return make(Catalog)
}

// Put stores p under its slug, replacing any previous record.
func (c Catalog) Put(p *Production) {
	c[p.Slug] = p
}

// Get returns the record for slug, if any.
func (c Catalog) Get(slug string) (*Production, bool) {
	p, ok := c[slug]
	return p, ok
}

// Has reports whether slug is already used.
func (c Catalog) Has(slug string) bool {
	_, ok := c[slug]
	return ok
}

// Len returns the number of records.
func (c Catalog) Len() int {
	return len(c)
}

// Slugs returns the set of slugs in use.
func (c Catalog) Slugs() map[string]bool {
	out := make(map[string]bool, len(c))
	for slug := range c {
		out[slug] = true
	}
	return out
}

// All returns every record ordered by slug.
func (c Catalog) All() []*Production {
	out := make([]*Production, 0, len(c))
	for _, p := range c {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Slug < out[j].Slug
	})
	return out
}
