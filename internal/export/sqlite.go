// Package export mirrors the production catalog into other formats.
//
// The SQLite mirror is a convenience for ad-hoc queries; the JSON store stays
// the source of truth and the mirror is rebuilt from it on every export.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pfrederiksen/ctx-theatre/internal/production"
)

const table = "productions"

const schema = `
CREATE TABLE IF NOT EXISTS productions (
	slug                 TEXT PRIMARY KEY,
	url                  TEXT NOT NULL DEFAULT '',
	title                TEXT NOT NULL,
	category             TEXT NOT NULL DEFAULT '',
	date_text            TEXT NOT NULL DEFAULT '',
	start_date           TEXT NOT NULL DEFAULT '',
	end_date             TEXT NOT NULL DEFAULT '',
	days_of_week         TEXT NOT NULL DEFAULT '',
	venue_name           TEXT NOT NULL DEFAULT '',
	venue_address        TEXT NOT NULL DEFAULT '',
	rss_description_html TEXT NOT NULL DEFAULT '',
	rss_description      TEXT NOT NULL DEFAULT '',
	html_synopsis        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_productions_start_date ON productions(start_date);
`

var columns = []string{
	"slug", "url", "title", "category", "date_text", "start_date", "end_date",
	"days_of_week", "venue_name", "venue_address",
	"rss_description_html", "rss_description", "html_synopsis",
}

// SQLiteExporter writes catalogs into a SQLite database file.
type SQLiteExporter struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteExporter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma journal_mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteExporter{db: db}, nil
}

// Close releases the database.
func (e *SQLiteExporter) Close() error {
	return e.db.Close()
}

// Export upserts every record of catalog in one transaction and returns the
// number of rows written. Rows for slugs not in catalog are left alone.
func (e *SQLiteExporter) Export(ctx context.Context, catalog production.Catalog) (int, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin export: %w", err)
	}
	defer tx.Rollback()

	written := 0
	for _, p := range catalog.All() {
		query, args, err := upsert(p).ToSql()
		if err != nil {
			return written, fmt.Errorf("building upsert for %s: %w", p.Slug, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return written, fmt.Errorf("upserting %s: %w", p.Slug, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit export: %w", err)
	}
	return written, nil
}

// Productions reads the mirrored rows back, ordered by start date then slug.
func (e *SQLiteExporter) Productions(ctx context.Context) ([]*production.Production, error) {
	query, args, err := sq.Select(columns...).
		From(table).
		OrderBy("start_date", "slug").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying productions: %w", err)
	}
	defer rows.Close()

	var out []*production.Production
	for rows.Next() {
		var p production.Production
		if err := rows.Scan(
			&p.Slug, &p.URL, &p.Title, &p.Category, &p.DateText, &p.StartDate, &p.EndDate,
			&p.DaysOfWeek, &p.VenueName, &p.VenueAddress,
			&p.RSSDescriptionHTML, &p.RSSDescription, &p.HTMLSynopsis,
		); err != nil {
			return nil, fmt.Errorf("scanning production: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func upsert(p *production.Production) sq.InsertBuilder {
	b := sq.Insert(table).
		Columns(columns...).
		Values(
			p.Slug, p.URL, p.Title, p.Category, p.DateText, p.StartDate, p.EndDate,
			p.DaysOfWeek, p.VenueName, p.VenueAddress,
			p.RSSDescriptionHTML, p.RSSDescription, p.HTMLSynopsis,
		)

	set := ""
	for i, col := range columns[1:] {
		if i > 0 {
			set += ", "
		}
		set += fmt.Sprintf("%s = excluded.%s", col, col)
	}
	return b.Suffix("ON CONFLICT(slug) DO UPDATE SET " + set)
}
