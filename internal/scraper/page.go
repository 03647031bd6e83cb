package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/ctx-theatre/internal/htmltext"
)

// Page holds the fields pulled from one production detail page.
// Any field the page does not provide is left empty.
type Page struct {
	DateText     string
	Synopsis     string
	VenueName    string
	VenueAddress string
}

// ExtractPage pulls the date heading, synopsis and venue out of a production
// page. The three pieces are independent; a missing one never blocks the others.
//
//   - DateText: the first <h3>, with <br> read as a space.
//   - Synopsis: the first <p> after that heading in document order.
//   - Venue: the first <address>; its first <strong> (or <b>) is the name and
//     the rest of the block is the address.
func ExtractPage(html string) Page {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Page{}
	}

	var page Page
	page.DateText, page.Synopsis = headingAndSynopsis(doc)
	page.VenueName, page.VenueAddress = venue(doc)
	return page
}

// headingAndSynopsis walks h3 and p elements in document order: the first h3
// is the date heading and the first p after it, outside the heading, is the synopsis.
func headingAndSynopsis(doc *goquery.Document) (dateText, synopsis string) {
	var heading *goquery.Selection

	doc.Find("h3, p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if heading == nil {
			if goquery.NodeName(s) == "h3" {
				heading = s
				dateText = blockText(s)
			}
			return true
		}
		if goquery.NodeName(s) != "p" || heading.Contains(s.Nodes[0]) {
			return true
		}
		synopsis = blockText(s)
		return false
	})

	return dateText, synopsis
}

func venue(doc *goquery.Document) (name, address string) {
	block := doc.Find("address").First()
	if block.Length() == 0 {
		return "", ""
	}

	rest := block.Clone()
	for _, tag := range []string{"strong", "b"} {
		el := block.Find(tag).First()
		if el.Length() == 0 {
			continue
		}
		name = blockText(el)
		rest.Find(tag).First().Remove()
		break
	}

	return name, blockText(rest)
}

// blockText returns the collapsed text of s, reading <br> as a space.
func blockText(s *goquery.Selection) string {
	c := s.Clone()
	c.Find("br").ReplaceWithHtml(" ")
	return htmltext.Collapse(c.Text())
}
