package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/ctx-theatre/internal/production"
	"github.com/pfrederiksen/ctx-theatre/internal/syncer"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// Listing is one page of productions to print.
type Listing struct {
	// Heading is printed above non-empty text listings.
	Heading string `json:"-"`
	// Empty replaces the heading when there is nothing to show.
	Empty       string                   `json:"-"`
	Query       string                   `json:"query,omitempty"`
	Productions []*production.Production `json:"productions"`
	Count       int                      `json:"count"`
}

func futureListing(today time.Time) *Listing {
	return &Listing{
		Heading: fmt.Sprintf("Future productions (end date >= %s)", today.Format("2006-01-02")),
		Empty:   "No future productions found.",
	}
}

func searchListing(keyword string) *Listing {
	return &Listing{
		Heading: fmt.Sprintf("Search results for '%s'", keyword),
		Empty:   fmt.Sprintf("No productions found for '%s'.", keyword),
		Query:   keyword,
	}
}

// WriteListing writes the listing in the specified format
func WriteListing(w io.Writer, l *Listing, format OutputFormat) error {
	l.Count = len(l.Productions)
	if l.Productions == nil {
		l.Productions = []*production.Production{}
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, l)
	case FormatText:
		writeListingText(w, l)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeListingText prints each production as a four-line block:
//
//	Songs for a New World
//	  2026-01-16 → 2026-01-24 (Fridays-Saturdays)
//	  Venue: Waco Civic Theatre
//	  URL: https://ctxlivetheatre.com/productions/...
func writeListingText(w io.Writer, l *Listing) {
	if l.Count == 0 && l.Empty != "" {
		fmt.Fprintf(w, "\n%s\n\n", l.Empty)
		return
	}

	fmt.Fprintf(w, "\n=== %s ===\n\n", l.Heading)
	for _, p := range l.Productions {
		fmt.Fprintln(w, p.Title)
		fmt.Fprintf(w, "  %s → %s (%s)\n", p.StartDate, p.EndDate, p.DaysOfWeek)
		fmt.Fprintf(w, "  Venue: %s\n", p.VenueName)
		fmt.Fprintf(w, "  URL: %s\n", p.URL)
		fmt.Fprintln(w)
	}
}

// SyncResult is the JSON form of a finished sync.
type SyncResult struct {
	Report *syncer.Report `json:"report"`
	Saved  int            `json:"saved"`
}

// WriteSyncResult reports a finished sync: one "Updated" line per synced
// production in feed order, then the size of the saved store.
func WriteSyncResult(w io.Writer, report *syncer.Report, catalog production.Catalog, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, &SyncResult{Report: report, Saved: catalog.Len()})
	case FormatText:
		for _, slug := range report.Synced {
			title := ""
			if p, ok := catalog.Get(slug); ok {
				title = p.Title
			}
			fmt.Fprintf(w, "Updated: %s → %s\n", slug, title)
		}
		fmt.Fprintf(w, "\nSaved %d productions.\n", catalog.Len())
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
