package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"essendeejay/internal/analyzer"
)

func newMetadataCommand(ctx *commandContext) *cobra.Command {
	var descriptor string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "metadata FILE",
		Short: "Show the flattened tag metadata of an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withAnalyzer(cmd.Context(), func(a *analyzer.Analyzer) error {
				if strings.TrimSpace(descriptor) != "" {
					value, err := a.MetadataValue(cmd.Context(), args[0], descriptor)
					if err != nil {
						return err
					}
					if jsonOutput {
						return writeJSON(cmd, map[string]string{descriptor: value})
					}
					fmt.Fprintln(cmd.OutOrStdout(), value)
					return nil
				}

				tags, err := a.Metadata(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, tags)
				}

				keys := make([]string, 0, len(tags))
				for key := range tags {
					keys = append(keys, key)
				}
				sort.Strings(keys)

				title := cases.Title(language.Und)
				rows := make([][]string, 0, len(keys))
				for _, key := range keys {
					rows = append(rows, []string{title.String(strings.ReplaceAll(key, "_", " ")), tags[key]})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Tag", "Value"},
					rows,
					[]columnAlignment{alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&descriptor, "key", "k", "", "Print a single descriptor value (dotted keys flatten to their last segment)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")
	return cmd
}
