package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lodestone/internal/catalog"
	"lodestone/internal/enrich"
)

func newContentCommand(ctx *commandContext) *cobra.Command {
	contentCmd := &cobra.Command{
		Use:   "content",
		Short: "Inspect installed content",
	}
	contentCmd.AddCommand(newContentListCommand(ctx))
	contentCmd.AddCommand(newContentToggleCommand(ctx, "enable", true))
	contentCmd.AddCommand(newContentToggleCommand(ctx, "disable", false))
	return contentCmd
}

func newContentListCommand(ctx *commandContext) *cobra.Command {
	var instanceID string
	var contentTypeFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List content files with their resolved identities",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := ctx.instanceRegistry()
			if err != nil {
				return err
			}
			instance, err := registry.ByID(instanceID)
			if err != nil {
				return err
			}
			cache, err := ctx.cacheStore()
			if err != nil {
				return err
			}

			contentType := catalog.NormalizeContentType(contentTypeFlag)
			items, err := registry.ListContent(instance, contentType)
			if err != nil {
				return fmt.Errorf("list content: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintf(out, "No %s files in %s\n", contentType, instance.Name)
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, item := range items {
				title := enrich.FallbackName(item.FileName)
				author := "Unknown"
				source := "-"
				if record, ok := cache.Get(instance.ID, contentType, item.FileName); ok && record.Identity != nil {
					title = record.Identity.Title
					author = record.Identity.Author
					source = string(record.Identity.Source)
				}
				rows = append(rows, []string{
					item.FileName,
					title,
					author,
					source,
					yesNo(item.Enabled),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"File", "Title", "Author", "Source", "Enabled"},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&instanceID, "instance", "i", "", "Instance id")
	cmd.Flags().StringVarP(&contentTypeFlag, "type", "t", "mod", "Content type (mod, resourcepack, shader)")
	_ = cmd.MarkFlagRequired("instance")
	return cmd
}

func newContentToggleCommand(ctx *commandContext, verb string, enable bool) *cobra.Command {
	var instanceID string
	var contentTypeFlag string

	cmd := &cobra.Command{
		Use:   verb + " <file>",
		Short: capitalize(verb) + " a content file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := ctx.instanceRegistry()
			if err != nil {
				return err
			}
			instance, err := registry.ByID(instanceID)
			if err != nil {
				return err
			}
			contentType := catalog.NormalizeContentType(contentTypeFlag)
			if err := registry.SetEnabled(instance, contentType, args[0], enable); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%sd %s\n", capitalize(verb), args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&instanceID, "instance", "i", "", "Instance id")
	cmd.Flags().StringVarP(&contentTypeFlag, "type", "t", "mod", "Content type (mod, resourcepack, shader)")
	_ = cmd.MarkFlagRequired("instance")
	return cmd
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
