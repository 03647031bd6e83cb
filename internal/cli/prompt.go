package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/ctx-theatre/internal/logger"
	"github.com/pfrederiksen/ctx-theatre/internal/production"
)

var errInputClosed = errors.New("input closed")

// ask prints label and reads one trimmed line. A final line without a
// newline is accepted; end of input before any text is errInputClosed.
func (a *app) ask(label string) (string, error) {
	fmt.Fprint(a.out, label)

	line, err := a.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(a.out)
			return "", errInputClosed
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// askDate repeats the prompt until a valid YYYY-MM-DD date is entered.
func (a *app) askDate(label string) (string, error) {
	for {
		text, err := a.ask(label)
		if err != nil {
			return "", err
		}
		date, err := production.ValidateISODate(text)
		if err == nil {
			return date, nil
		}
		fmt.Fprintln(a.out, "Invalid date. Please use YYYY-MM-DD (e.g., 2025-11-21).")
	}
}

// addManual collects a production interactively, stores it in catalog and
// saves the store. Declining to overwrite an existing slug saves nothing.
func (a *app) addManual(catalog production.Catalog) error {
	fmt.Fprintln(a.out, "\n=== Add a manual production ===")

	var title string
	for title == "" {
		var err error
		if title, err = a.ask("Title (required): "); err != nil {
			return err
		}
		if title == "" {
			fmt.Fprintln(a.out, "Title is required.")
		}
	}

	url, err := a.ask("URL (optional, press Enter if none): ")
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Enter the production dates:")
	start, err := a.askDate("  Start date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	end, err := a.askDate("  End date   (YYYY-MM-DD): ")
	if err != nil {
		return err
	}

	answers := make([]string, 4)
	for i, label := range []string{
		"Days of week (optional, e.g., 'Fridays-Saturdays'): ",
		"Venue name (optional): ",
		"Venue address (optional): ",
		"Short description (optional): ",
	} {
		if answers[i], err = a.ask(label); err != nil {
			return err
		}
	}
	days, venueName, venueAddress, description := answers[0], answers[1], answers[2], answers[3]

	slug := ""
	if url != "" {
		slug = production.SlugFromURL(url)
	}
	if slug == "" {
		slug = production.ManualSlug(title, start, catalog.Slugs())
	}

	if catalog.Has(slug) {
		fmt.Fprintf(a.out, "\nWarning: A production with slug '%s' already exists.\n", slug)
		answer, err := a.ask("Overwrite it? [y/N]: ")
		if err != nil {
			return err
		}
		if strings.ToLower(answer) != "y" {
			fmt.Fprintln(a.out, "Aborted adding manual production.")
			fmt.Fprintln(a.out)
			return nil
		}
	}

	catalog.Put(&production.Production{
		Slug:           slug,
		URL:            url,
		Title:          title,
		Category:       production.CategoryManual,
		DateText:       fmt.Sprintf("%s - %s", start, end),
		StartDate:      start,
		EndDate:        end,
		DaysOfWeek:     days,
		VenueName:      venueName,
		VenueAddress:   venueAddress,
		RSSDescription: description,
		HTMLSynopsis:   description,
	})

	if err := a.store.Save(catalog); err != nil {
		return fmt.Errorf("saving store: %w", err)
	}
	a.log.Info("manual production saved", logger.Fields{"slug": slug})

	fmt.Fprintf(a.out, "\nAdded/updated manual production with slug '%s'.\n\n", slug)
	return nil
}
