package production

// Change kinds reported by DetectChanges.
const (
	ChangeNew         = "new"
	ChangeTitle       = "title"
	ChangeDates       = "dates"
	ChangeVenue       = "venue"
	ChangeSynopsis    = "synopsis"
	ChangeDescription = "description"
)

// Change represents one field-level difference between two versions of a record.
type Change struct {
	Slug     string `json:"slug"`
	Kind     string `json:"kind"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// DetectChanges compares the stored version of a record with a freshly built
// one. A nil previous record yields a single "new" change; identical records
// yield none.
func DetectChanges(previous, current *Production) []Change {
	if previous == nil {
		return []Change{{
			Slug:     current.Slug,
			Kind:     ChangeNew,
			NewValue: current.Title,
		}}
	}

	var changes []Change
	add := func(kind, oldValue, newValue string) {
		if oldValue != newValue {
			changes = append(changes, Change{
				Slug:     current.Slug,
				Kind:     kind,
				OldValue: oldValue,
				NewValue: newValue,
			})
		}
	}

	add(ChangeTitle, previous.Title, current.Title)
	add(ChangeDates, dateSummary(previous), dateSummary(current))
	add(ChangeVenue, venueSummary(previous), venueSummary(current))
	add(ChangeSynopsis, previous.HTMLSynopsis, current.HTMLSynopsis)
	add(ChangeDescription, previous.RSSDescriptionHTML, current.RSSDescriptionHTML)

	return changes
}

func dateSummary(p *Production) string {
	return p.DateText + "|" + p.StartDate + "|" + p.EndDate + "|" + p.DaysOfWeek
}

func venueSummary(p *Production) string {
	return p.VenueName + "|" + p.VenueAddress
}
