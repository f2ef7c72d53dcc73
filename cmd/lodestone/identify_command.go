package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lodestone/internal/catalog"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var instanceID string
	var contentTypeFlag string

	cmd := &cobra.Command{
		Use:   "identify",
		Short: "Resolve installed files against the catalogs",
		Long: `Identify matches each content file in an instance against Modrinth and,
when an API key is configured, CurseForge. Accepted matches are cached so
repeat runs only touch files that are still unidentified.

Examples:
  lodestone identify -i my-instance
  lodestone identify -i my-instance -t resourcepack`,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := ctx.instanceRegistry()
			if err != nil {
				return err
			}
			instance, err := registry.ByID(instanceID)
			if err != nil {
				return err
			}
			enricher, err := ctx.enricher()
			if err != nil {
				return err
			}

			contentType := catalog.NormalizeContentType(contentTypeFlag)
			summary, err := enricher.RefreshInstance(cmd.Context(), instance, contentType)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader(fmt.Sprintf("Identify %s (%s)", instance.Name, contentType), colorize) {
				fmt.Fprintln(out, line)
			}
			for _, item := range summary.Items {
				switch {
				case item.Err != nil:
					fmt.Fprintln(out, renderStatusLine(item.FileName, statusError, item.Err.Error(), colorize))
				case item.Identified && item.FromCache:
					fmt.Fprintln(out, renderStatusLine(item.FileName, statusOK, item.Identity.Title+" (cached)", colorize))
				case item.Identified:
					fmt.Fprintln(out, renderStatusLine(item.FileName, statusOK, item.Identity.Title, colorize))
				default:
					fmt.Fprintln(out, renderStatusLine(item.FileName, statusWarn, "no confident match", colorize))
				}
			}
			fmt.Fprintf(out, "\n%d identified, %d unidentified, %d failed",
				summary.Identified, summary.Unidentified, summary.Failed)
			if summary.SweptOrphans > 0 {
				fmt.Fprintf(out, ", %d orphaned cache records swept", summary.SweptOrphans)
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&instanceID, "instance", "i", "", "Instance id")
	cmd.Flags().StringVarP(&contentTypeFlag, "type", "t", "mod", "Content type (mod, resourcepack, shader)")
	_ = cmd.MarkFlagRequired("instance")
	return cmd
}
