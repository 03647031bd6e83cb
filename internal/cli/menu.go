package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/pfrederiksen/ctx-theatre/internal/filter"
	"github.com/pfrederiksen/ctx-theatre/internal/logger"
)

const menu = `
====== CTX Theatre Browser ======
1. Sync productions (update from web)
2. List all productions
3. Show future productions
4. Search productions (title)
5. Add a production manually
6. Quit
`

// runMenu loops over the interactive menu until the user quits or input
// ends. A failed sync is reported and the menu continues with the catalog
// it had before.
func (a *app) runMenu(ctx context.Context) error {
	catalog, err := a.store.Load()
	if err != nil {
		return fmt.Errorf("loading store: %w", err)
	}

	for {
		fmt.Fprint(a.out, menu)
		choice, err := a.ask("Choose an option: ")
		if errors.Is(err, errInputClosed) {
			fmt.Fprintln(a.out, "Goodbye!")
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			synced, report, err := a.sync(ctx)
			if err != nil {
				a.log.Error("sync failed", logger.Fields{"store": a.store.Path()}, err)
				fmt.Fprintf(a.out, "\nSync failed: %v\n", err)
				continue
			}
			catalog = synced
			if err := WriteSyncResult(a.out, report, catalog, FormatText); err != nil {
				return err
			}

		case "2":
			listing := &Listing{Heading: "All Productions", Productions: filter.All(catalog)}
			if err := WriteListing(a.out, listing, FormatText); err != nil {
				return err
			}

		case "3":
			today := a.now()
			listing := futureListing(today)
			listing.Productions = filter.Future(catalog, today)
			if err := WriteListing(a.out, listing, FormatText); err != nil {
				return err
			}

		case "4":
			keyword, err := a.ask("Input keyword: ")
			if err != nil && !errors.Is(err, errInputClosed) {
				return err
			}
			if keyword == "" {
				fmt.Fprintln(a.out, "No keyword entered.")
				fmt.Fprintln(a.out)
				continue
			}
			listing := searchListing(keyword)
			listing.Productions = filter.Search(catalog, keyword)
			if err := WriteListing(a.out, listing, FormatText); err != nil {
				return err
			}

		case "5":
			if err := a.addManual(catalog); err != nil {
				if errors.Is(err, errInputClosed) {
					continue
				}
				return err
			}
			// pick up exactly what was saved
			if catalog, err = a.store.Load(); err != nil {
				return fmt.Errorf("loading store: %w", err)
			}

		case "6":
			fmt.Fprintln(a.out, "Goodbye!")
			return nil

		default:
			fmt.Fprintln(a.out, "Invalid choice. Please enter 1–6.")
		}
	}
}
