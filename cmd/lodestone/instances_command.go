package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInstancesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "instances",
		Short: "List installed game instances",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := ctx.instanceRegistry()
			if err != nil {
				return err
			}
			all, err := registry.LoadAll()
			if err != nil {
				return fmt.Errorf("load instances: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(all) == 0 {
				fmt.Fprintln(out, "No instances found")
				return nil
			}

			rows := make([][]string, 0, len(all))
			for _, instance := range all {
				loader := instance.Loader()
				if loader == "" {
					loader = "vanilla"
				}
				rows = append(rows, []string{
					instance.ID,
					instance.Name,
					instance.MinecraftVersion,
					loader,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Name", "Minecraft", "Loader"},
				rows,
			))
			return nil
		},
	}
}
