package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"essendeejay/internal/config"
	"essendeejay/internal/resultcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Metric cache maintenance",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePurgeCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how many metrics are cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, cmd, func(store *resultcache.Store) error {
				count, err := store.Count(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d cached metric(s)\n", count)
				return nil
			})
		},
	}
}

func newCachePurgeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "purge FILE",
		Short: "Drop all cached metrics for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, cmd, func(store *resultcache.Store) error {
				path, err := config.ExpandPath(args[0])
				if err != nil {
					return err
				}
				affected, err := store.Purge(cmd.Context(), path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Purged %d cached metric(s) for %s\n", affected, path)
				return nil
			})
		},
	}
}

func withStore(ctx *commandContext, cmd *cobra.Command, fn func(*resultcache.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Cache.Enabled {
		return errors.New("metric cache is disabled in configuration")
	}
	store, err := resultcache.Open(cmd.Context(), cfg.MetricCachePath(), ctx.ensureLogger())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	return fn(store)
}
