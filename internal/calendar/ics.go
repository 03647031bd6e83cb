// Package calendar renders productions as an iCalendar feed.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/ctx-theatre/internal/production"
)

const dateLayout = "2006-01-02"

// GenerateICS generates an iCalendar (.ics) document with one all-day event
// per production run. Productions without a valid start date are left out;
// a missing or invalid end date makes a one-day event. stamp is written as
// DTSTAMP on every event.
func GenerateICS(productions []*production.Production, stamp time.Time) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//CTX Theatre//ctx-theatre//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	ics.WriteString("X-WR-CALNAME:CTX Live Theatre\r\n")

	for _, p := range productions {
		writeEvent(&ics, p, stamp)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeEvent(ics *strings.Builder, p *production.Production, stamp time.Time) {
	if p == nil {
		return
	}
	start, err := time.Parse(dateLayout, p.StartDate)
	if err != nil {
		return
	}
	end, err := time.Parse(dateLayout, p.EndDate)
	if err != nil || end.Before(start) {
		end = start
	}

	writeLine(ics, "BEGIN:VEVENT")
	writeLine(ics, fmt.Sprintf("UID:%s@ctxlivetheatre.com", p.Slug))
	writeLine(ics, "DTSTAMP:"+formatICSTime(stamp))

	// all-day run; DTEND is exclusive
	writeLine(ics, "DTSTART;VALUE=DATE:"+formatICSDate(start))
	writeLine(ics, "DTEND;VALUE=DATE:"+formatICSDate(end.AddDate(0, 0, 1)))

	writeLine(ics, "SUMMARY:"+escapeICS(p.Title))

	if description := eventDescription(p); description != "" {
		writeLine(ics, "DESCRIPTION:"+escapeICS(description))
	}

	if location := eventLocation(p); location != "" {
		writeLine(ics, "LOCATION:"+escapeICS(location))
	}

	if p.URL != "" {
		writeLine(ics, "URL:"+p.URL)
	}

	writeLine(ics, "STATUS:CONFIRMED")
	writeLine(ics, "TRANSP:TRANSPARENT")
	writeLine(ics, "END:VEVENT")
}

func eventDescription(p *production.Production) string {
	var parts []string
	if p.DaysOfWeek != "" {
		parts = append(parts, p.DaysOfWeek)
	}
	synopsis := p.HTMLSynopsis
	if synopsis == "" {
		synopsis = p.RSSDescription
	}
	if synopsis != "" {
		parts = append(parts, synopsis)
	}
	return strings.Join(parts, "\n\n")
}

func eventLocation(p *production.Production) string {
	switch {
	case p.VenueName != "" && p.VenueAddress != "":
		return p.VenueName + ", " + p.VenueAddress
	case p.VenueName != "":
		return p.VenueName
	default:
		return p.VenueAddress
	}
}

// writeLine writes one content line, folded at 75 octets as RFC 5545 requires.
// Folds never split a UTF-8 sequence.
func writeLine(ics *strings.Builder, line string) {
	limit := 75
	for len(line) > limit {
		cut := limit
		for cut > 0 && !isRuneStart(line[cut]) {
			cut--
		}
		ics.WriteString(line[:cut])
		ics.WriteString("\r\n ")
		line = line[cut:]
		// continuation lines carry the leading space
		limit = 74
	}
	ics.WriteString(line)
	ics.WriteString("\r\n")
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
