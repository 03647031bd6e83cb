// Package syncer turns the feed and production pages into catalog records.
//
// A sync pass fetches the feed, keeps items in the "Productions" category,
// fetches each production page, extracts its details, resolves dates and
// stores the assembled record under its slug. Items are processed one at a
// time in feed order. The pass only mutates the in-memory catalog; saving it
// is the caller's decision.
package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/ctx-theatre/internal/feed"
	"github.com/pfrederiksen/ctx-theatre/internal/htmltext"
	"github.com/pfrederiksen/ctx-theatre/internal/logger"
	"github.com/pfrederiksen/ctx-theatre/internal/production"
	"github.com/pfrederiksen/ctx-theatre/internal/scraper"
)

// Synchronizer merges the feed into a catalog
type Synchronizer struct {
	feedURL string
	feeds   scraper.Fetcher
	pages   scraper.Fetcher
	log     *logger.Logger
	metrics *logger.Metrics
}

// Options configures a Synchronizer.
type Options struct {
	FeedURL string
	// Feeds fetches the feed document; Pages fetches production pages.
	// They are usually the same HTTPFetcher wrapped with different fallback files.
	Feeds   scraper.Fetcher
	Pages   scraper.Fetcher
	Logger  *logger.Logger
	Metrics *logger.Metrics
}

// New creates a Synchronizer. Pages defaults to Feeds.
func New(opts Options) *Synchronizer {
	s := &Synchronizer{
		feedURL: opts.FeedURL,
		feeds:   opts.Feeds,
		pages:   opts.Pages,
		log:     opts.Logger,
		metrics: opts.Metrics,
	}
	if s.pages == nil {
		s.pages = s.feeds
	}
	if s.log == nil {
		s.log = logger.Default()
	}
	if s.metrics == nil {
		s.metrics = logger.DefaultMetrics()
	}
	return s
}

// Report summarizes one sync pass. Slices list slugs in feed order; Synced
// holds every slug written, the others classify them.
type Report struct {
	Synced    []string            `json:"synced"`
	Added     []string            `json:"added"`
	Updated   []string            `json:"updated"`
	Unchanged []string            `json:"unchanged"`
	Skipped   int                 `json:"skipped"`
	Changes   []production.Change `json:"changes,omitempty"`
}

// Total returns the number of production records written by the pass.
func (r *Report) Total() int {
	return len(r.Synced)
}

// Sync runs one pass against catalog. Feed fetch and feed parse failures, as
// well as page fetches that fail without a fallback, abort the pass; records
// already written to catalog by then stay in memory only.
func (s *Synchronizer) Sync(ctx context.Context, catalog production.Catalog) (*Report, error) {
	content, err := s.feeds.Fetch(ctx, s.feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}

	items, err := feed.Parse(content)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, item := range items {
		if item.Category != production.CategoryProductions {
			report.Skipped++
			s.metrics.IncrCounter("sync.skipped")
			continue
		}

		if production.SlugFromURL(item.Link) == "" {
			report.Skipped++
			s.metrics.IncrCounter("sync.skipped")
			s.log.Warn("production item has no usable link", logger.Fields{"title": item.Title})
			continue
		}

		record, err := s.build(ctx, item)
		if err != nil {
			return report, err
		}

		previous, _ := catalog.Get(record.Slug)
		changes := production.DetectChanges(previous, record)
		switch {
		case previous == nil:
			report.Added = append(report.Added, record.Slug)
		case len(changes) > 0:
			report.Updated = append(report.Updated, record.Slug)
		default:
			report.Unchanged = append(report.Unchanged, record.Slug)
		}
		report.Changes = append(report.Changes, changes...)

		catalog.Put(record)
		report.Synced = append(report.Synced, record.Slug)
		s.metrics.IncrCounter("sync.items")
		s.log.Info(fmt.Sprintf("Updated: %s → %s", record.Slug, record.Title), logger.Fields{
			"slug":    record.Slug,
			"changes": len(changes),
		})
	}

	return report, nil
}

// build assembles the record for one production feed item.
func (s *Synchronizer) build(ctx context.Context, item feed.Item) (*production.Production, error) {
	slug := production.SlugFromURL(item.Link)

	started := time.Now()
	html, err := s.pages.Fetch(ctx, item.Link)
	s.metrics.RecordTiming("fetch.page", time.Since(started))
	if err != nil {
		return nil, fmt.Errorf("fetching production page %s: %w", slug, err)
	}

	page := scraper.ExtractPage(html)
	dates := production.ResolveDates(page.DateText, html)

	s.log.Debug("extracted production page", logger.Fields{
		"slug":       slug,
		"date_text":  dates.Text,
		"start_date": dates.Start,
		"end_date":   dates.End,
		"venue":      page.VenueName,
	})

	return &production.Production{
		Slug:               slug,
		URL:                item.Link,
		Title:              item.Title,
		Category:           item.Category,
		DateText:           dates.Text,
		StartDate:          dates.Start,
		EndDate:            dates.End,
		DaysOfWeek:         dates.DaysOfWeek,
		VenueName:          page.VenueName,
		VenueAddress:       page.VenueAddress,
		RSSDescriptionHTML: item.Description,
		RSSDescription:     htmltext.ToText(item.Description),
		HTMLSynopsis:       page.Synopsis,
	}, nil
}
