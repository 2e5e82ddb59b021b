package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephberger/doconsole/internal/services/digitalocean"
)

func newCreateCommand(ctx *commandContext) *cobra.Command {
	var region, size, image string
	var tags []string
	var noWait bool

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a droplet and wait until it is reachable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			manager, err := ctx.manager()
			if err != nil {
				return err
			}

			req := digitalocean.CreateRequest{
				Name:    args[0],
				Region:  cfg.Droplet.Region,
				Size:    cfg.Droplet.Size,
				Image:   cfg.Droplet.Image,
				Backups: cfg.Droplet.Backups,
				Tags:    append(append([]string{}, cfg.Droplet.Tags...), tags...),
			}
			if region != "" {
				req.Region = region
			}
			if size != "" {
				req.Size = size
			}
			if image != "" {
				req.Image = image
			}

			out := cmd.OutOrStdout()
			droplet, err := manager.CreateDroplet(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Creating %s (id %d) in %s", droplet.Name, droplet.ID, req.Region)
			if noWait {
				fmt.Fprintln(out)
				return nil
			}

			ready, err := digitalocean.WaitForDroplet(cmd.Context(), manager, droplet.ID, digitalocean.WaitOptions{
				Interval: time.Duration(cfg.Provision.PollInterval) * time.Second,
				Progress: func(marker string) { fmt.Fprint(out, marker) },
			})
			fmt.Fprintln(out)
			if err != nil {
				return fmt.Errorf("waiting for droplet %d: %w", droplet.ID, err)
			}
			fmt.Fprintf(out, "%s is ready at %s\n", ready.Name, digitalocean.PublicIP(ready))
			return nil
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "Region slug (defaults to the configured region)")
	cmd.Flags().StringVar(&size, "size", "", "Size slug (defaults to the configured size)")
	cmd.Flags().StringVar(&image, "image", "", "Image slug (defaults to the configured image)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag to apply to the new droplet (repeatable)")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Return immediately instead of waiting for a public IP")
	return cmd
}
