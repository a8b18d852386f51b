package preflight

import (
	"context"
	"fmt"
	"os"
	"sort"

	"golang.org/x/sys/unix"

	"essendeejay/internal/config"
	"essendeejay/internal/deps"
	"essendeejay/internal/features"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates all external binaries an analysis run needs.
// Both the analyze and status commands use this to avoid duplicating the
// requirements list.
func CheckSystemDeps(_ context.Context, cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for metadata inspection",
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for mono downmix and resampling",
		},
		{
			Name:        "uvx",
			Command:     cfg.Inference.UvxCommand,
			Description: "Required to run the TensorFlow inference helper",
		},
	}
	return deps.CheckBinaries(requirements)
}

// CheckModelGraphs verifies that every graph file the catalog references
// exists under the models directory. Each graph file is reported once even
// when several features share it.
func CheckModelGraphs(cfg *config.Config, catalog *features.Catalog) []Result {
	seen := make(map[string]bool)
	var graphs []string
	for _, name := range catalog.Names() {
		entry, err := catalog.Lookup(name)
		if err != nil {
			continue
		}
		for _, graph := range []string{entry.EmbeddingGraph, entry.PredictionGraph} {
			if graph == "" || seen[graph] {
				continue
			}
			seen[graph] = true
			graphs = append(graphs, graph)
		}
	}
	sort.Strings(graphs)

	results := make([]Result, 0, len(graphs))
	for _, graph := range graphs {
		path := cfg.GraphPath(graph)
		info, err := os.Stat(path)
		switch {
		case err != nil:
			results = append(results, Result{Name: graph, Detail: fmt.Sprintf("%s (missing)", path)})
		case info.IsDir():
			results = append(results, Result{Name: graph, Detail: fmt.Sprintf("%s (is a directory)", path)})
		default:
			results = append(results, Result{Name: graph, Passed: true, Detail: path})
		}
	}
	return results
}
