package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lodestone/internal/catalog"
)

func newCheckUpdatesCommand(ctx *commandContext) *cobra.Command {
	var instanceID string
	var contentTypeFlag string

	cmd := &cobra.Command{
		Use:   "check-updates",
		Short: "Check identified content for newer compatible files",
		Long: `Check-updates consults each identified file's catalog for a newer file
matching the instance's game version and loader. Verdicts are cached, so
repeat runs within the cache window make no network calls. CurseForge
content is reported as manual-only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := ctx.instanceRegistry()
			if err != nil {
				return err
			}
			instance, err := registry.ByID(instanceID)
			if err != nil {
				return err
			}
			checker, err := ctx.updateChecker()
			if err != nil {
				return err
			}

			contentType := catalog.NormalizeContentType(contentTypeFlag)
			summary, err := checker.CheckInstance(cmd.Context(), instance, contentType)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(summary.Verdicts) == 0 {
				fmt.Fprintf(out, "No identified %s files to check (%d skipped, %d failed)\n",
					contentType, summary.Skipped, summary.Failed)
				return nil
			}

			rows := make([][]string, 0, len(summary.Verdicts))
			for _, verdict := range summary.Verdicts {
				status := "up to date"
				latest := "-"
				if verdict.Update.Available {
					status = "update available"
					latest = verdict.Update.LatestVersion
				}
				cached := yesNo(verdict.FromCache)
				rows = append(rows, []string{verdict.FileName, status, latest, cached})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"File", "Status", "Latest", "Cached"},
				rows,
			))
			fmt.Fprintf(out, "%d updates available, %d skipped, %d failed\n",
				summary.UpdatesFound, summary.Skipped, summary.Failed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&instanceID, "instance", "i", "", "Instance id")
	cmd.Flags().StringVarP(&contentTypeFlag, "type", "t", "mod", "Content type (mod, resourcepack, shader)")
	_ = cmd.MarkFlagRequired("instance")
	return cmd
}
