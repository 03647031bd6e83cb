package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/ctx-theatre/internal/filter"
	"github.com/pfrederiksen/ctx-theatre/internal/production"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate  SortOrder = "date"
	SortByTitle SortOrder = "title"
	SortByVenue SortOrder = "venue"
)

func parseSortOrder(value string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(value)))
	switch order {
	case SortByDate, SortByTitle, SortByVenue:
		return order, nil
	case "":
		return SortByDate, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'date', 'title' or 'venue')", value)
	}
}

// sortProductions sorts productions based on the specified sort order
func sortProductions(productions []*production.Production, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		filter.SortByStart(productions)
	case SortByTitle:
		sort.SliceStable(productions, func(i, j int) bool {
			ti, tj := strings.ToLower(productions[i].Title), strings.ToLower(productions[j].Title)
			if ti != tj {
				return ti < tj
			}
			// If titles are equal, sort by date
			return productions[i].StartDate < productions[j].StartDate
		})
	case SortByVenue:
		sort.SliceStable(productions, func(i, j int) bool {
			vi, vj := strings.ToLower(productions[i].VenueName), strings.ToLower(productions[j].VenueName)
			if vi != vj {
				// productions without a venue go last
				if vi == "" || vj == "" {
					return vj == ""
				}
				return vi < vj
			}
			return productions[i].StartDate < productions[j].StartDate
		})
	}
}
