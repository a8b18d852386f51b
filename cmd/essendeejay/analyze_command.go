package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"essendeejay/internal/analyzer"
	"essendeejay/internal/preflight"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var featureFlags []string
	var category int
	var allFeatures bool
	var jsonOutput bool
	var skipChecks bool

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Compute feature metrics for an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(featureFlags) == 0 && !allFeatures {
				return fmt.Errorf("select features with --feature or pass --all")
			}

			return ctx.withAnalyzer(cmd.Context(), func(a *analyzer.Analyzer) error {
				if !skipChecks {
					if err := runPreflight(cmd.Context(), ctx, a); err != nil {
						return err
					}
				}

				names := featureFlags
				if allFeatures {
					names = a.Catalog().Names()
				}

				metrics := make([]analyzer.Metric, 0, len(names))
				for _, name := range names {
					metric, err := a.ComputeMetric(cmd.Context(), args[0], name, category)
					if err != nil {
						return fmt.Errorf("feature %q: %w", name, err)
					}
					metrics = append(metrics, metric)
				}

				if jsonOutput {
					return writeJSON(cmd, metrics)
				}

				rows := make([][]string, 0, len(metrics))
				for _, metric := range metrics {
					rows = append(rows, []string{
						metric.Feature,
						metric.Algorithm,
						strconv.FormatFloat(metric.Value(), 'f', 4, 64),
						strconv.Itoa(metric.Segments),
						yesNo(metric.Cached),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Feature", "Algorithm", "Value", "Segments", "Cached"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&featureFlags, "feature", "f", nil, "Feature to compute (repeatable)")
	cmd.Flags().BoolVar(&allFeatures, "all", false, "Compute every feature in the catalog")
	cmd.Flags().IntVar(&category, "category", 0, "Classifier output column to report")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")
	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "Skip readiness checks before analysis")
	return cmd
}

// runPreflight fails fast when a readiness check does not pass, so a missing
// binary or model graph surfaces before any audio is decoded.
func runPreflight(runCtx context.Context, ctx *commandContext, a *analyzer.Analyzer) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	results := preflight.RunAll(runCtx, cfg, a.Catalog())
	if preflight.AllPassed(results) {
		return nil
	}
	var failures []string
	for _, result := range results {
		if !result.Passed {
			failures = append(failures, fmt.Sprintf("%s: %s", result.Name, result.Detail))
		}
	}
	return fmt.Errorf("readiness checks failed:\n  %s", strings.Join(failures, "\n  "))
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
