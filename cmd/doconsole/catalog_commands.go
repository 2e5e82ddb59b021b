package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephberger/doconsole/internal/render"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "List available regions, sizes, and images",
	}

	catalogCmd.AddCommand(&cobra.Command{
		Use:   "regions",
		Short: "List available region slugs",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.manager()
			if err != nil {
				return err
			}
			regions, err := manager.ListRegions(cmd.Context())
			if err != nil {
				return err
			}
			slugs := make([]string, 0, len(regions))
			for _, region := range regions {
				if region.Available {
					slugs = append(slugs, region.Slug)
				}
			}
			printSlugs(cmd, "Regions", slugs)
			return nil
		},
	})

	catalogCmd.AddCommand(&cobra.Command{
		Use:   "sizes",
		Short: "List available size slugs",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.manager()
			if err != nil {
				return err
			}
			sizes, err := manager.ListSizes(cmd.Context())
			if err != nil {
				return err
			}
			slugs := make([]string, 0, len(sizes))
			for _, size := range sizes {
				if size.Available {
					slugs = append(slugs, size.Slug)
				}
			}
			printSlugs(cmd, "Sizes", slugs)
			return nil
		},
	})

	catalogCmd.AddCommand(&cobra.Command{
		Use:   "images",
		Short: "List distribution image slugs",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.manager()
			if err != nil {
				return err
			}
			images, err := manager.ListImages(cmd.Context())
			if err != nil {
				return err
			}
			slugs := make([]string, 0, len(images))
			for _, image := range images {
				if image.Slug != "" {
					slugs = append(slugs, image.Slug)
				}
			}
			printSlugs(cmd, "Images", slugs)
			return nil
		},
	})

	return catalogCmd
}

func printSlugs(cmd *cobra.Command, title string, slugs []string) {
	out := cmd.OutOrStdout()
	if len(slugs) == 0 {
		fmt.Fprintf(out, "%s\n\nNone available.\n", title)
		return
	}
	fmt.Fprintf(out, "%s\n\n%s\n", title, render.Columns(slugs, 0))
}
