package preflight

import (
	"context"

	"brewbook/internal/config"
)

// Result reports the outcome of a single preflight check. Optional checks
// do not fail the run when they do not pass.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	if cfg.Storage.Driver == config.StorageFilesystem {
		results = append(results, CheckDirectoryAccess("Recipes directory", cfg.Paths.RecipesDir))
	}

	results = append(results, CheckStorage(ctx, cfg))

	if cfg.Index.Enabled {
		results = append(results, CheckIndex(ctx, cfg))
	}

	results = append(results, CheckColorTable(cfg.Colors.TablePath))
	results = append(results, CheckServer(ctx, cfg.Server.Bind, cfg.Server.APIToken))

	return results
}

// Failed reports whether any required check did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}
