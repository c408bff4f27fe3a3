// Package app assembles the runtime collaborators shared by the CLI and the
// HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"brewbook/internal/catalog"
	"brewbook/internal/config"
	"brewbook/internal/index"
	"brewbook/internal/logging"
	"brewbook/internal/srm"
	"brewbook/internal/storage"
)

// App holds the opened backends. Index is nil when indexing is disabled.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    storage.Backend
	Catalog  *catalog.Service
	Index    *index.Index
	Colors   *srm.Lazy
	Registry *prometheus.Registry
}

// Options tweaks Open.
type Options struct {
	// SkipIndex leaves the index closed even when enabled in config.
	SkipIndex bool
	// RuntimeMetrics registers the Go and process collectors.
	RuntimeMetrics bool
}

// Open wires storage, the color table, the optional index and the catalog.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Colors:   srm.NewLazy(colorSource(cfg)),
		Registry: prometheus.NewRegistry(),
	}
	if opts.RuntimeMetrics {
		a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	if err := a.Colors.Err(); err != nil {
		logging.WarnWithContext(logger, "color table unavailable; using fallback color", "color_table_load_failed",
			logging.String("path", cfg.Colors.TablePath),
			logging.String(logging.FieldErrorHint, "check colors.table_path"),
			logging.Error(err),
		)
	}

	catalogOpts := []catalog.Option{
		catalog.WithLogger(logger),
		catalog.WithMetrics(catalog.NewMetrics(a.Registry)),
	}
	if cfg.Index.Enabled && !opts.SkipIndex {
		idx, err := index.Open(ctx, cfg, a.Colors, logger)
		if err != nil {
			return nil, fmt.Errorf("open index: %w", err)
		}
		a.Index = idx
		catalogOpts = append(catalogOpts, catalog.WithInvalidator(idx))
	}
	a.Catalog = catalog.New(store, catalogOpts...)
	return a, nil
}

// Close releases the index connection.
func (a *App) Close() error {
	if a == nil || a.Index == nil {
		return nil
	}
	return a.Index.Close()
}

// RebuildIndex refreshes the index from the catalog. It returns the number
// of indexed recipes.
func (a *App) RebuildIndex(ctx context.Context) (int, error) {
	if a.Index == nil {
		return 0, errors.New("index is disabled")
	}
	recipes, err := a.Catalog.List(ctx)
	if err != nil {
		return 0, err
	}
	n, err := a.Index.Rebuild(ctx, recipes)
	if err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}
	return n, nil
}

func colorSource(cfg *config.Config) srm.Source {
	if path := strings.TrimSpace(cfg.Colors.TablePath); path != "" {
		return srm.FileSource(path)
	}
	return srm.EmbeddedSource()
}
