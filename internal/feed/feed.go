// Package feed reads the site's syndication feed into plain items.
package feed

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html/charset"
)

// Item is one feed entry. Fields missing from the entry are empty.
type Item struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Parse parses RSS or Atom content into items, preserving feed order. The
// category of an item is its first category. Content that is not a
// well-formed feed is an error; there is no partial recovery.
func Parse(content string) ([]Item, error) {
	if err := checkWellFormed(content); err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	parsed, err := gofeed.NewParser().ParseString(content)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		if it == nil {
			continue
		}
		item := Item{
			Title:       strings.TrimSpace(it.Title),
			Link:        strings.TrimSpace(it.Link),
			Description: strings.TrimSpace(it.Description),
		}
		if len(it.Categories) > 0 {
			item.Category = strings.TrimSpace(it.Categories[0])
		}
		items = append(items, item)
	}
	return items, nil
}

// checkWellFormed reads every token with a strict decoder. gofeed recovers
// from broken markup on its own, so syntax errors are caught here first.
func checkWellFormed(content string) error {
	d := xml.NewDecoder(strings.NewReader(content))
	d.CharsetReader = charset.NewReaderLabel
	for {
		_, err := d.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
