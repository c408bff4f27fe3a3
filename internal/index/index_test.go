package index

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"brewbook/internal/config"
	"brewbook/internal/logging"
	"brewbook/internal/recipe"
	"brewbook/internal/srm"
	"brewbook/internal/testsupport"
)

func openTestIndex(t *testing.T) (*Index, string) {
	t.Helper()
	table, err := srm.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	path := filepath.Join(t.TempDir(), "index.db")
	x, err := OpenSQLite(context.Background(), path, table, logging.NewNop())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	x.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { _ = x.Close() })
	return x, path
}

func TestRecipeChangedUpsertsAndGet(t *testing.T) {
	ctx := context.Background()
	x, _ := openTestIndex(t)

	r := testsupport.SampleRecipe("citra-pale")
	if err := x.RecipeChanged(ctx, r); err != nil {
		t.Fatalf("RecipeChanged: %v", err)
	}
	got, err := x.Get(ctx, "citra-pale")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Citra Pale Ale" || got.HopCount != 2 || got.ABV != "5.25" {
		t.Fatalf("unexpected summary %+v", got)
	}
	if got.ColorSRM == nil || *got.ColorSRM != 6 || got.ColorHex != "#F8A600" {
		t.Fatalf("unexpected color %v %q", got.ColorSRM, got.ColorHex)
	}
	if !got.UpdatedAt.Equal(x.now()) {
		t.Fatalf("unexpected updated_at %v", got.UpdatedAt)
	}

	r.Metadata.Name = "Citra Pale Ale v2"
	r.Stats.IBU = nil
	if err := x.RecipeChanged(ctx, r); err != nil {
		t.Fatalf("RecipeChanged update: %v", err)
	}
	got, err = x.Get(ctx, "citra-pale")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Citra Pale Ale v2" || got.IBU != nil {
		t.Fatalf("update not applied: %+v", got)
	}
	if n, _ := x.Count(ctx); n != 1 {
		t.Fatalf("expected one row, got %d", n)
	}
}

func TestRecipeRemoved(t *testing.T) {
	ctx := context.Background()
	x, _ := openTestIndex(t)
	if err := x.RecipeChanged(ctx, testsupport.MinimalRecipe("mild", "Mild")); err != nil {
		t.Fatalf("RecipeChanged: %v", err)
	}
	if err := x.RecipeRemoved(ctx, "mild"); err != nil {
		t.Fatalf("RecipeRemoved: %v", err)
	}
	if _, err := x.Get(ctx, "mild"); !errors.Is(err, recipe.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := x.RecipeRemoved(ctx, "mild"); err != nil {
		t.Fatalf("removing a missing row should succeed: %v", err)
	}
}

func TestRebuildAndSearch(t *testing.T) {
	ctx := context.Background()
	x, _ := openTestIndex(t)

	stale := testsupport.MinimalRecipe("stale", "Stale")
	if err := x.RecipeChanged(ctx, stale); err != nil {
		t.Fatalf("RecipeChanged: %v", err)
	}

	stout := testsupport.MinimalRecipe("dry-stout", "Dry Stout")
	stout.Metadata.Style = "Irish Stout"
	pale := testsupport.SampleRecipe("citra-pale")
	odd := testsupport.MinimalRecipe("percent", "100% Brett")
	count, err := x.Rebuild(ctx, []*recipe.Recipe{stout, pale, odd, nil})
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if count != 3 {
		t.Fatalf("Rebuild count = %d", count)
	}
	if _, err := x.Get(ctx, "stale"); !errors.Is(err, recipe.ErrNotFound) {
		t.Fatal("rebuild should drop rows not in the input")
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"percent", "citra-pale", "dry-stout"}},
		{"STOUT", []string{"dry-stout"}},
		{"pale ale", []string{"citra-pale"}},
		{"%", []string{"percent"}},
		{"lager", nil},
	}
	for _, tt := range tests {
		got, err := x.Search(ctx, tt.query, 0)
		if err != nil {
			t.Fatalf("Search(%q): %v", tt.query, err)
		}
		var slugs []string
		for _, s := range got {
			slugs = append(slugs, s.Slug)
		}
		if len(slugs) != len(tt.want) {
			t.Fatalf("Search(%q) = %v, want %v", tt.query, slugs, tt.want)
		}
		for i := range slugs {
			if slugs[i] != tt.want[i] {
				t.Fatalf("Search(%q) = %v, want %v", tt.query, slugs, tt.want)
			}
		}
	}

	limited, err := x.Search(ctx, "", 2)
	if err != nil || len(limited) != 2 {
		t.Fatalf("limited search = %d, %v", len(limited), err)
	}
}

func TestSchemaMismatch(t *testing.T) {
	ctx := context.Background()
	x, path := openTestIndex(t)
	if _, err := x.db.ExecContext(ctx, "UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = x.Close()

	_, err := OpenSQLite(ctx, path, nil, nil)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestReopenKeepsRows(t *testing.T) {
	ctx := context.Background()
	x, path := openTestIndex(t)
	if err := x.RecipeChanged(ctx, testsupport.MinimalRecipe("kept", "Kept")); err != nil {
		t.Fatalf("RecipeChanged: %v", err)
	}
	_ = x.Close()

	reopened, err := OpenSQLite(ctx, path, nil, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if n, err := reopened.Count(ctx); err != nil || n != 1 {
		t.Fatalf("Count = %d, %v", n, err)
	}
}

func TestRebindForPostgres(t *testing.T) {
	x := &Index{dialect: postgresDriver}
	got := x.rebind("SELECT * FROM t WHERE a = ? AND b = ?")
	if got != "SELECT * FROM t WHERE a = $1 AND b = $2" {
		t.Fatalf("unexpected rebind %q", got)
	}
	sqlite := &Index{dialect: sqliteDriver}
	if sqlite.rebind("a = ?") != "a = ?" {
		t.Fatal("sqlite queries should be unchanged")
	}
}

func TestOpenRoutesByDriver(t *testing.T) {
	ctx := context.Background()
	cfg := testsupport.NewConfig(t)
	cfg.Index.Driver = config.IndexPostgres
	cfg.Index.DSN = "postgres://example.invalid/brewbook"

	var gotDriver string
	prev := sqlOpen
	sqlOpen = func(driverName, dsn string) (*sql.DB, error) {
		gotDriver = driverName
		return nil, errors.New("no network in tests")
	}
	t.Cleanup(func() { sqlOpen = prev })

	if _, err := Open(ctx, cfg, nil, nil); err == nil {
		t.Fatal("expected open error")
	}
	if gotDriver != postgresDriver {
		t.Fatalf("expected pgx driver, got %q", gotDriver)
	}

	cfg.Index.DSN = ""
	if _, err := OpenPostgres(ctx, cfg.Index.DSN, nil, nil); err == nil {
		t.Fatal("expected error for empty dsn")
	}
	cfg.Index.Driver = "mysql"
	if _, err := Open(ctx, cfg, nil, nil); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}
