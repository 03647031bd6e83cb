package export

import (
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pfrederiksen/ctx-theatre/internal/production"
)

func openTestDB(t *testing.T) *SQLiteExporter {
	t.Helper()
	e, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "events.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func TestSQLiteExporter_Export(t *testing.T) {
	ctx := context.Background()
	e := openTestDB(t)

	catalog := production.NewCatalog()
	catalog.Put(&production.Production{
		Slug:         "annie",
		URL:          "https://ctxlivetheatre.com/productions/annie/",
		Title:        "Annie",
		Category:     production.CategoryProductions,
		StartDate:    "2026-03-01",
		EndDate:      "2026-03-15",
		VenueName:    "Waco Civic Theatre",
		HTMLSynopsis: "Tomorrow’s <b>sun</b>",
	})
	catalog.Put(&production.Production{
		Slug:      "into-the-woods",
		Title:     "Into the Woods",
		Category:  production.CategoryManual,
		StartDate: "2026-01-10",
	})

	n, err := e.Export(ctx, catalog)
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if n != 2 {
		t.Errorf("Export() wrote %d rows, want 2", n)
	}

	got, err := e.Productions(ctx)
	if err != nil {
		t.Fatalf("Productions() error: %v", err)
	}
	want := []*production.Production{catalog["into-the-woods"], catalog["annie"]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Productions() = %+v, want %+v", got, want)
	}
}

func TestSQLiteExporter_ExportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	e := openTestDB(t)

	catalog := production.NewCatalog()
	catalog.Put(&production.Production{Slug: "annie", Title: "Annie"})

	for i := 0; i < 2; i++ {
		if _, err := e.Export(ctx, catalog); err != nil {
			t.Fatalf("Export() #%d error: %v", i+1, err)
		}
	}

	catalog.Put(&production.Production{Slug: "annie", Title: "Annie (revival)"})
	if _, err := e.Export(ctx, catalog); err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	got, err := e.Productions(ctx)
	if err != nil {
		t.Fatalf("Productions() error: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Annie (revival)" {
		t.Errorf("Productions() = %+v, want one updated row", got)
	}
}

func TestUpsert(t *testing.T) {
	query, args, err := upsert(&production.Production{Slug: "annie", Title: "Annie"}).ToSql()
	if err != nil {
		t.Fatalf("ToSql() error: %v", err)
	}

	for _, want := range []string{
		"INSERT INTO productions (slug,url,title,",
		"ON CONFLICT(slug) DO UPDATE SET url = excluded.url, title = excluded.title",
		"html_synopsis = excluded.html_synopsis",
	} {
		if !strings.Contains(query, want) {
			t.Errorf("query missing %q:\n%s", want, query)
		}
	}
	if strings.Contains(query, "slug = excluded.slug") {
		t.Error("primary key should not be updated")
	}
	if len(args) != len(columns) {
		t.Errorf("got %d args, want %d", len(args), len(columns))
	}
}
