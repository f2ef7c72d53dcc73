package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the content cache",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheSweepCommand(ctx))
	cacheCmd.AddCommand(newCachePurgeCommand(ctx))
	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache record counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.cacheStore()
			if err != nil {
				return err
			}
			stats := store.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Metric", "Value"},
				[][]string{
					{"Path", stats.Path},
					{"Records", strconv.Itoa(stats.Records)},
					{"Fresh identities", strconv.Itoa(stats.FreshIdentities)},
					{"Fresh update verdicts", strconv.Itoa(stats.FreshUpdates)},
				},
				1,
			))
			return nil
		},
	}
}

func newCacheSweepCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Drop records whose sections have all expired",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.cacheStore()
			if err != nil {
				return err
			}
			removed, err := store.Sweep()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired records\n", removed)
			return nil
		},
	}
}

func newCachePurgeCommand(ctx *commandContext) *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove cache records, optionally for a single instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.cacheStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if scope != "" {
				removed, err := store.RemoveScope(scope)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %d records for instance %s\n", removed, scope)
				return nil
			}
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(out, "Cache cleared")
			return nil
		},
	}

	cmd.Flags().StringVarP(&scope, "instance", "i", "", "Limit the purge to one instance id")
	return cmd
}
