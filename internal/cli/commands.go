package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/ctx-theatre/internal/api"
	"github.com/pfrederiksen/ctx-theatre/internal/calendar"
	"github.com/pfrederiksen/ctx-theatre/internal/export"
	"github.com/pfrederiksen/ctx-theatre/internal/filter"
	"github.com/pfrederiksen/ctx-theatre/internal/logger"
)

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch the feed and production pages into the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, report, err := a.sync(cmd.Context())
			if err != nil {
				return err
			}
			return WriteSyncResult(a.out, report, catalog, a.format)
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var (
		future    bool
		venues    []string
		sortOrder string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached productions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := parseSortOrder(sortOrder)
			if err != nil {
				return err
			}

			catalog, err := a.store.Load()
			if err != nil {
				return fmt.Errorf("loading store: %w", err)
			}

			f := filter.NewFilter()
			f.Venues = venues
			listing := &Listing{Heading: "All Productions"}
			if future {
				today := a.now()
				f.EndingFrom = &today
				listing = futureListing(today)
			}
			if len(venues) > 0 {
				a.log.Debug("applying filter", logger.Fields{"filter": f.String()})
			}

			listing.Productions = f.Apply(catalog.All())
			sortProductions(listing.Productions, order)
			return WriteListing(a.out, listing, a.format)
		},
	}

	cmd.Flags().BoolVar(&future, "future", false, "Only productions ending today or later")
	cmd.Flags().StringSliceVar(&venues, "venue", nil, "Only productions at venues containing this text (repeatable)")
	cmd.Flags().StringVar(&sortOrder, "sort", string(SortByDate), "Sort order: date, title or venue")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var sortOrder string

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search cached productions by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := parseSortOrder(sortOrder)
			if err != nil {
				return err
			}

			keyword := strings.TrimSpace(strings.Join(args, " "))
			if keyword == "" {
				return fmt.Errorf("no keyword entered")
			}

			catalog, err := a.store.Load()
			if err != nil {
				return fmt.Errorf("loading store: %w", err)
			}

			listing := searchListing(keyword)
			listing.Productions = filter.Search(catalog, keyword)
			sortProductions(listing.Productions, order)
			return WriteListing(a.out, listing, a.format)
		},
	}

	cmd.Flags().StringVar(&sortOrder, "sort", string(SortByDate), "Sort order: date, title or venue")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Add a production manually (interactive)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.store.Load()
			if err != nil {
				return fmt.Errorf("loading store: %w", err)
			}
			return a.addManual(catalog)
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export cached productions to other formats",
	}

	var output string
	var futureOnly bool
	ics := &cobra.Command{
		Use:   "ics",
		Short: "Write productions as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.store.Load()
			if err != nil {
				return fmt.Errorf("loading store: %w", err)
			}

			productions := filter.All(catalog)
			if futureOnly {
				productions = filter.Future(catalog, a.now())
			}
			doc := calendar.GenerateICS(productions, a.now())

			if output == "" || output == "-" {
				_, err := fmt.Fprint(a.out, doc)
				return err
			}
			if err := os.WriteFile(output, []byte(doc), 0644); err != nil {
				return fmt.Errorf("writing calendar: %w", err)
			}
			a.log.Info("calendar written", logger.Fields{"path": output, "productions": len(productions)})
			return nil
		},
	}
	ics.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	ics.Flags().BoolVar(&futureOnly, "future", false, "Only productions ending today or later")

	var dbPath string
	sqlite := &cobra.Command{
		Use:   "sqlite",
		Short: "Mirror the store into a SQLite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = a.cfg.Export.DatabasePath
			}

			catalog, err := a.store.Load()
			if err != nil {
				return fmt.Errorf("loading store: %w", err)
			}

			exporter, err := export.OpenSQLite(dbPath)
			if err != nil {
				return err
			}
			defer exporter.Close()

			n, err := exporter.Export(cmd.Context(), catalog)
			if err != nil {
				return err
			}
			if a.format == FormatText {
				fmt.Fprintf(a.out, "Exported %d productions to %s\n", n, dbPath)
			}
			a.log.Info("sqlite export complete", logger.Fields{"path": dbPath, "rows": n})
			return nil
		},
	}
	sqlite.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default events.db)")

	cmd.AddCommand(ics, sqlite)
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cached productions over a read-only HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			if !a.verbose {
				gin.SetMode(gin.ReleaseMode)
			}
			return serve(cmd.Context(), addr, api.NewRouter(api.NewHandler(a.store, a.log)), a.log)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default :8080)")
	return cmd
}

// serve runs handler until ctx is cancelled, then shuts down gracefully.
func serve(ctx context.Context, addr string, handler http.Handler, log *logger.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening", logger.Fields{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down api: %w", err)
	}
	log.Info("api stopped", nil)
	return nil
}
