package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"essendeejay/internal/analyzer"
	"essendeejay/internal/features"
)

func newFeaturesCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "features",
		Short: "List the features the catalog can compute",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withAnalyzer(cmd.Context(), func(a *analyzer.Analyzer) error {
				catalog := a.Catalog()

				if jsonOutput {
					entries := make(map[string]features.Entry, catalog.Len())
					for _, name := range catalog.Names() {
						entry, err := catalog.Lookup(name)
						if err != nil {
							return err
						}
						entries[name] = entry
					}
					return writeJSON(cmd, entries)
				}

				rows := make([][]string, 0, catalog.Len())
				for _, name := range catalog.Names() {
					entry, err := catalog.Lookup(name)
					if err != nil {
						return err
					}
					rows = append(rows, []string{name, entry.Model, entry.Algorithm, entry.EmbeddingGraph, entry.PredictionGraph})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Feature", "Model", "Algorithm", "Embedding graph", "Prediction graph"},
					rows,
					nil,
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")
	return cmd
}
