package production

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoLayout = "2006-01-02"

// months maps full names, three-letter abbreviations and "sept" to a month.
var months = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

var (
	// "Jan. 16 - Jan. 24, 2026 Fridays-Saturdays"
	rangePattern = regexp.MustCompile(`^([A-Za-z.]+)\s+(\d{1,2})\s*[-–—]\s*([A-Za-z.]+)\s+(\d{1,2}),\s*(\d{4})(.*)`)

	// "November 21 - November 22, 2025" anywhere in a page
	fullRangePattern = regexp.MustCompile(`([A-Za-z]+\.?)\s+(\d{1,2})\s*[-–—]\s*([A-Za-z]+\.?)\s+(\d{1,2}),\s*(\d{4})`)

	// "November 21 - 22, 2025" anywhere in a page
	sameMonthPattern = regexp.MustCompile(`([A-Za-z]+\.?)\s+(\d{1,2})\s*[-–—]\s*(\d{1,2}),\s*(\d{4})`)
)

// DateRange is the resolved date information of a production.
type DateRange struct {
	Text       string
	Start      string
	End        string
	DaysOfWeek string
}

// ParseDateRange parses phrases like "Jan. 16 - Jan. 24, 2026 Fridays-Saturdays"
// into ISO start and end dates plus whatever follows the year.
//
// Either date is empty when its month is unknown or the day does not exist in
// that month. If the phrase does not have the expected shape at all, three
// empty strings are returned.
func ParseDateRange(text string) (start, end, daysOfWeek string) {
	m := rangePattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", "", ""
	}

	year, err := strconv.Atoi(m[5])
	if err != nil {
		return "", "", ""
	}

	start = isoDate(year, m[1], m[2])
	end = isoDate(year, m[3], m[4])
	daysOfWeek = strings.TrimSpace(m[6])
	return start, end, daysOfWeek
}

// FindFullDateText looks through a whole page for a date range that carries a
// year. "Month Day - Month Day, Year" is preferred; "Month Day - Day, Year" is
// expanded to repeat the month. Matches whose month names are not recognised
// are passed over. Returns "" when nothing usable is found.
func FindFullDateText(page string) string {
	for _, m := range fullRangePattern.FindAllStringSubmatch(page, -1) {
		if lookupMonth(m[1]) != 0 && lookupMonth(m[3]) != 0 {
			return m[0]
		}
	}

	for _, m := range sameMonthPattern.FindAllStringSubmatch(page, -1) {
		if lookupMonth(m[1]) != 0 {
			return fmt.Sprintf("%s %s - %s %s, %s", m[1], m[2], m[1], m[3], m[4])
		}
	}

	return ""
}

// ResolveDates parses the heading text of a production page and, when it does
// not yield both dates, retries with a date range found elsewhere in the page.
// The heading's days-of-week text is kept even when the dates come from the
// fallback, and the heading text stays the display text unless it was empty.
func ResolveDates(heading, page string) DateRange {
	dr := DateRange{Text: heading}
	dr.Start, dr.End, dr.DaysOfWeek = ParseDateRange(heading)

	if dr.Start != "" && dr.End != "" {
		return dr
	}

	full := FindFullDateText(page)
	if full == "" {
		return dr
	}

	dr.Start, dr.End, _ = ParseDateRange(full)
	if dr.Text == "" {
		dr.Text = full
	}
	return dr
}

// ValidateISODate checks a YYYY-MM-DD date typed by a user and returns it in
// canonical form.
func ValidateISODate(s string) (string, error) {
	t, err := time.Parse(isoLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid date %q: use YYYY-MM-DD (e.g., 2025-11-21)", strings.TrimSpace(s))
	}
	return t.Format(isoLayout), nil
}

// lookupMonth resolves "Jan", "Jan.", "january" or "Sept" to a month; 0 if unknown.
func lookupMonth(token string) time.Month {
	key := strings.ToLower(strings.TrimRight(token, "."))
	return months[key]
}

// isoDate returns YYYY-MM-DD for the given month token and day, or "" if the
// month is unknown or the date does not exist.
func isoDate(year int, monthToken, dayText string) string {
	month := lookupMonth(monthToken)
	if month == 0 {
		return ""
	}

	day, err := strconv.Atoi(dayText)
	if err != nil {
		return ""
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return ""
	}
	return t.Format(isoLayout)
}
