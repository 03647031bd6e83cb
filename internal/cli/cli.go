package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/ctx-theatre/internal/config"
	"github.com/pfrederiksen/ctx-theatre/internal/logger"
	"github.com/pfrederiksen/ctx-theatre/internal/production"
	"github.com/pfrederiksen/ctx-theatre/internal/scraper"
	"github.com/pfrederiksen/ctx-theatre/internal/storage"
	"github.com/pfrederiksen/ctx-theatre/internal/syncer"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// options holds the global flags.
type options struct {
	configPath string
	storePath  string
	format     string
	verbose    bool
	syncOnly   bool
}

// deps are the collaborators tests replace.
type deps struct {
	// fetcher replaces the HTTP client; fallback files still apply.
	fetcher scraper.Fetcher
	now     func() time.Time
}

// app is the state shared by every command of one invocation.
type app struct {
	cfg     config.Config
	store   *storage.Storage
	format  OutputFormat
	verbose bool

	in  *bufio.Reader
	out io.Writer

	log     *logger.Logger
	metrics *logger.Metrics
	fetcher scraper.Fetcher
	now     func() time.Time
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(deps{})
}

func newRootCmd(d deps) *cobra.Command {
	opts := &options{}
	a := &app{}

	cmd := &cobra.Command{
		Use:   "ctx-theatre",
		Short: "Browse and cache CTX Live Theatre productions",
		Long: `A CLI tool that keeps a local cache of CTX Live Theatre productions.
Syncs the RSS feed and production pages into a JSON store, lists and searches
cached productions, and accepts productions entered by hand.

Run without arguments for the interactive menu.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, opts, d)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.syncOnly {
				return a.runSyncOnly(cmd.Context())
			}
			return a.runMenu(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&opts.syncOnly, "sync-only", false, "Sync productions and exit without the interactive menu")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file (default $CTX_THEATRE_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.storePath, "store", "", "Path to the JSON store (default events.json)")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newSyncCmd(a),
		newListCmd(a),
		newSearchCmd(a),
		newAddCmd(a),
		newExportCmd(a),
		newServeCmd(a),
	)

	return cmd
}

// setup resolves configuration and wires the logger, store and fetchers.
func (a *app) setup(cmd *cobra.Command, opts *options, d deps) error {
	format := OutputFormat(strings.ToLower(opts.format))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", opts.format)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.storePath != "" {
		cfg.Store.Path = opts.storePath
	}

	level := logger.ParseLevel(cfg.Logging.Level)
	if opts.verbose {
		level = logger.LevelDebug
	}
	a.log = logger.New(level, cmd.ErrOrStderr())
	logger.SetDefault(a.log)
	a.metrics = logger.NewMetrics()

	store, err := storage.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	a.cfg = cfg
	a.store = store
	a.format = format
	a.verbose = opts.verbose
	a.in = bufio.NewReader(cmd.InOrStdin())
	a.out = cmd.OutOrStdout()

	a.fetcher = d.fetcher
	if a.fetcher == nil {
		a.fetcher = scraper.New(cfg.HTTP.Timeout, cfg.HTTP.UserAgent)
	}
	a.now = d.now
	if a.now == nil {
		a.now = time.Now
	}

	a.log.Debug("configuration loaded", logger.Fields{
		"store":    store.Path(),
		"feed_url": cfg.Feed.URL,
		"timeout":  cfg.HTTP.Timeout.String(),
	})
	return nil
}

// synchronizer builds a Synchronizer with the configured fallback files.
func (a *app) synchronizer() *syncer.Synchronizer {
	return syncer.New(syncer.Options{
		FeedURL: a.cfg.Feed.URL,
		Feeds:   scraper.WithFallback(a.fetcher, a.cfg.Feed.FeedFallback, a.log, a.metrics),
		Pages:   scraper.WithFallback(a.fetcher, a.cfg.Feed.PageFallback, a.log, a.metrics),
		Logger:  a.log,
		Metrics: a.metrics,
	})
}

// sync loads the store, runs one pass and saves the result. The store is
// left untouched when the pass fails.
func (a *app) sync(ctx context.Context) (production.Catalog, *syncer.Report, error) {
	catalog, err := a.store.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading store: %w", err)
	}

	report, err := a.synchronizer().Sync(ctx, catalog)
	if err != nil {
		return nil, nil, fmt.Errorf("syncing productions: %w", err)
	}

	if err := a.store.Save(catalog); err != nil {
		return nil, nil, fmt.Errorf("saving store: %w", err)
	}

	a.log.Info("sync complete", a.metrics.Summary())
	return catalog, report, nil
}

func (a *app) runSyncOnly(ctx context.Context) error {
	if a.format == FormatText {
		fmt.Fprintln(a.out, "Running sync-only mode...")
	}
	catalog, report, err := a.sync(ctx)
	if err != nil {
		return err
	}
	if err := WriteSyncResult(a.out, report, catalog, a.format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if a.format == FormatText {
		fmt.Fprintln(a.out, "Sync-only complete.")
	}
	return nil
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
