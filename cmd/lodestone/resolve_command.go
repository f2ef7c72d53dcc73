package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lodestone/internal/catalog"
	"lodestone/internal/compat"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var contentTypeFlag string
	var gameVersion string
	var loader string

	cmd := &cobra.Command{
		Use:   "resolve <project-id>",
		Short: "Pick the best installable file for a catalog project",
		Long: `Resolve lists a Modrinth project's versions and selects the newest one
compatible with the given game version and loader, printing the file that
would be installed or the reason none qualifies.

Examples:
  lodestone resolve AANobbMI --game-version 1.20.4 --loader fabric
  lodestone resolve 1KVo5zza --type shader --game-version 1.20.1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if gameVersion == "" {
				return errors.New("--game-version is required")
			}
			listers, err := ctx.versionListers()
			if err != nil {
				return err
			}
			lister := listers[catalog.PlatformModrinth]

			contentType := catalog.NormalizeContentType(contentTypeFlag)
			filters := catalog.VersionFilters{GameVersions: []string{gameVersion}}
			if contentType == catalog.ContentTypeMod {
				if normalized := compat.NormalizeLoader(loader); compat.ListableLoader(normalized) {
					filters.Loaders = []string{normalized}
				}
			}

			versions, err := lister.ListVersions(cmd.Context(), args[0], filters)
			if err != nil {
				return fmt.Errorf("list versions: %w", err)
			}

			result := compat.Resolve(contentType, versions, gameVersion, loader)
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			if result.Reason != compat.ReasonNone {
				fmt.Fprintln(out, renderStatusLine("Resolution", statusError, result.Reason.String(), colorize))
				return fmt.Errorf("no installable version: %s", result.Reason.String())
			}

			fmt.Fprintln(out, renderStatusLine("Version", statusOK, result.Version.VersionNumber, colorize))
			fmt.Fprintln(out, renderStatusLine("File", statusInfo, result.File.Filename, colorize))
			fmt.Fprintln(out, renderStatusLine("Download", statusInfo, result.File.URL, colorize))
			return nil
		},
	}

	cmd.Flags().StringVarP(&contentTypeFlag, "type", "t", "mod", "Content type (mod, resourcepack, shader, modpack)")
	cmd.Flags().StringVar(&gameVersion, "game-version", "", "Target Minecraft version")
	cmd.Flags().StringVar(&loader, "loader", "", "Target loader (fabric, forge, neoforge, quilt)")
	return cmd
}
