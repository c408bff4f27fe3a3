package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"

	"brewbook/internal/config"
	"brewbook/internal/logging"
	"brewbook/internal/recipe"
)

const (
	sqliteDriver   = "sqlite"
	postgresDriver = "pgx"
)

var sqlOpen = sql.Open

// Index is the recipe summary table.
type Index struct {
	db      *sql.DB
	dialect string
	colors  ColorLookup
	logger  *slog.Logger
	now     func() time.Time
}

// Open connects to the index described by cfg.Index.
func Open(ctx context.Context, cfg *config.Config, colors ColorLookup, logger *slog.Logger) (*Index, error) {
	if cfg == nil {
		return nil, errors.New("index: config is required")
	}
	switch cfg.Index.Driver {
	case config.IndexSQLite, "":
		return OpenSQLite(ctx, cfg.Index.Path, colors, logger)
	case config.IndexPostgres:
		return OpenPostgres(ctx, cfg.Index.DSN, colors, logger)
	default:
		return nil, fmt.Errorf("index: unsupported driver %q", cfg.Index.Driver)
	}
}

// OpenSQLite opens or creates an index database file at path.
func OpenSQLite(ctx context.Context, path string, colors ColorLookup, logger *slog.Logger) (*Index, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("index: sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure index directory: %w", err)
	}
	db, err := sqlOpen(sqliteDriver, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	return newIndex(ctx, db, sqliteDriver, colors, logger)
}

// OpenPostgres connects to a Postgres database through pgx.
func OpenPostgres(ctx context.Context, dsn string, colors ColorLookup, logger *slog.Logger) (*Index, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("index: postgres dsn is required")
	}
	db, err := sqlOpen(postgresDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return newIndex(ctx, db, postgresDriver, colors, logger)
}

func newIndex(ctx context.Context, db *sql.DB, dialect string, colors ColorLookup, logger *slog.Logger) (*Index, error) {
	x := &Index{
		db:      db,
		dialect: dialect,
		colors:  colors,
		logger:  logging.NewComponentLogger(logger, "index"),
		now:     time.Now,
	}
	if err := x.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return x, nil
}

// Close closes the underlying database connection.
func (x *Index) Close() error {
	if x == nil || x.db == nil {
		return nil
	}
	return x.db.Close()
}

// Driver reports the database engine in use.
func (x *Index) Driver() string {
	if x.dialect == postgresDriver {
		return config.IndexPostgres
	}
	return config.IndexSQLite
}

// RecipeChanged upserts the summary for r.
func (x *Index) RecipeChanged(ctx context.Context, r *recipe.Recipe) error {
	if r == nil {
		return errors.New("index: recipe is nil")
	}
	if err := x.upsert(ctx, x.db, SummaryFromRecipe(r, x.colors, x.now())); err != nil {
		return err
	}
	x.logger.Debug("summary updated", logging.String(logging.FieldSlug, r.Slug))
	return nil
}

// RecipeRemoved deletes the summary for slug.
func (x *Index) RecipeRemoved(ctx context.Context, slug string) error {
	if _, err := x.db.ExecContext(ctx, x.rebind("DELETE FROM recipe_summaries WHERE slug = ?"), slug); err != nil {
		return fmt.Errorf("delete summary %q: %w", slug, err)
	}
	x.logger.Debug("summary removed", logging.String(logging.FieldSlug, slug))
	return nil
}

// Rebuild replaces the whole table with summaries of recipes in one
// transaction and returns the number of rows written.
func (x *Index) Rebuild(ctx context.Context, recipes []*recipe.Recipe) (int, error) {
	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin rebuild tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM recipe_summaries"); err != nil {
		return 0, fmt.Errorf("clear summaries: %w", err)
	}
	now := x.now()
	count := 0
	for _, r := range recipes {
		if r == nil {
			continue
		}
		if err := x.upsert(ctx, tx, SummaryFromRecipe(r, x.colors, now)); err != nil {
			return 0, err
		}
		count++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit rebuild: %w", err)
	}
	x.logger.Info("index rebuilt", logging.Int("recipes", count), logging.String("driver", x.Driver()))
	return count, nil
}

// Search returns summaries whose name or style contains query, ignoring case.
// An empty query returns everything. A limit <= 0 means no limit.
func (x *Index) Search(ctx context.Context, query string, limit int) ([]Summary, error) {
	stmt := "SELECT " + summaryColumns + " FROM recipe_summaries"
	var args []any
	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
		stmt += ` WHERE LOWER(name) LIKE ? ESCAPE '\' OR LOWER(style) LIKE ? ESCAPE '\'`
		args = append(args, pattern, pattern)
	}
	stmt += " ORDER BY LOWER(name), slug"
	if limit > 0 {
		stmt += " LIMIT " + strconv.Itoa(limit)
	}

	rows, err := x.db.QueryContext(ctx, x.rebind(stmt), args...)
	if err != nil {
		return nil, fmt.Errorf("search summaries: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search summaries: %w", err)
	}
	return out, nil
}

// Get returns the summary for slug or an error wrapping recipe.ErrNotFound.
func (x *Index) Get(ctx context.Context, slug string) (*Summary, error) {
	row := x.db.QueryRowContext(ctx, x.rebind("SELECT "+summaryColumns+" FROM recipe_summaries WHERE slug = ?"), slug)
	s, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("summary %q: %w", slug, recipe.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}
	return &s, nil
}

// Count returns the number of indexed recipes.
func (x *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := x.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM recipe_summaries").Scan(&n); err != nil {
		return 0, fmt.Errorf("count summaries: %w", err)
	}
	return n, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (x *Index) upsert(ctx context.Context, db execer, s Summary) error {
	_, err := db.ExecContext(ctx, x.rebind(`INSERT INTO recipe_summaries (
            slug, name, style, author, og, fg, abv, ibu, color_srm, color_hex, hop_count, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (slug) DO UPDATE SET
            name = excluded.name, style = excluded.style, author = excluded.author,
            og = excluded.og, fg = excluded.fg, abv = excluded.abv, ibu = excluded.ibu,
            color_srm = excluded.color_srm, color_hex = excluded.color_hex,
            hop_count = excluded.hop_count, updated_at = excluded.updated_at`),
		s.Slug,
		s.Name,
		s.Style,
		s.Author,
		nullableFloat(s.OG),
		nullableFloat(s.FG),
		s.ABV,
		nullableFloat(s.IBU),
		nullableFloat(s.ColorSRM),
		s.ColorHex,
		s.HopCount,
		s.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert summary %q: %w", s.Slug, err)
	}
	return nil
}

// rebind rewrites ? placeholders to $n for Postgres.
func (x *Index) rebind(query string) string {
	if x.dialect != postgresDriver {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
