package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"essendeejay/internal/analyzer"
	"essendeejay/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show tool, path, and model readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			return ctx.withAnalyzer(cmd.Context(), func(a *analyzer.Analyzer) error {
				for _, line := range renderSectionHeader("Configuration", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Models directory", statusInfo, cfg.Paths.ModelsDir, colorize))
				fmt.Fprintln(out, renderStatusLine("Work directory", statusInfo, cfg.Paths.WorkDir, colorize))
				fmt.Fprintln(out, renderStatusLine("Metric cache", statusInfo, cacheDetail(cfg.Cache.Enabled, cfg.MetricCachePath()), colorize))
				fmt.Fprintln(out, renderStatusLine("Catalog features", statusInfo, strconv.Itoa(a.Catalog().Len()), colorize))
				fmt.Fprintln(out)

				for _, line := range renderSectionHeader("Readiness", colorize) {
					fmt.Fprintln(out, line)
				}
				failures := 0
				for _, result := range preflight.RunAll(cmd.Context(), cfg, a.Catalog()) {
					kind := statusOK
					if !result.Passed {
						kind = statusError
						failures++
					}
					fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
				}
				if failures > 0 {
					return fmt.Errorf("%d readiness check(s) failed", failures)
				}
				return nil
			})
		},
	}
}

func cacheDetail(enabled bool, path string) string {
	if !enabled {
		return "disabled"
	}
	return path
}
