package preflight

import (
	"context"
	"fmt"

	"essendeejay/internal/config"
	"essendeejay/internal/features"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every applicable preflight check for the given config and
// feature catalog.
func RunAll(ctx context.Context, cfg *config.Config, catalog *features.Catalog) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Models directory", cfg.Paths.ModelsDir))
	results = append(results, CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir))
	if cfg.Cache.Enabled {
		results = append(results, CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir))
	}

	for _, status := range CheckSystemDeps(ctx, cfg) {
		result := Result{Name: status.Name, Passed: status.Available}
		if status.Available {
			result.Detail = "Found"
		} else {
			result.Detail = status.Detail
		}
		if status.Optional && !status.Available {
			result.Passed = true
			result.Detail = fmt.Sprintf("%s (optional)", status.Detail)
		}
		results = append(results, result)
	}

	if catalog != nil {
		results = append(results, CheckModelGraphs(cfg, catalog)...)
	}

	return results
}

// AllPassed reports whether every result in the set passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
