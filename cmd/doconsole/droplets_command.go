package main

import (
	"fmt"
	"strconv"

	"github.com/digitalocean/godo"
	"github.com/spf13/cobra"

	"github.com/josephberger/doconsole/internal/inventory"
	"github.com/josephberger/doconsole/internal/render"
	"github.com/josephberger/doconsole/internal/services/digitalocean"
)

func newDropletsCommand(ctx *commandContext) *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "droplets",
		Short: "List droplets on the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cached {
				return printCachedDroplets(cmd, ctx)
			}

			manager, err := ctx.manager()
			if err != nil {
				return err
			}
			droplets, err := manager.ListDroplets(cmd.Context())
			if err != nil {
				return err
			}

			out, err := renderDroplets(droplets)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "Read from the local inventory cache instead of the API")
	return cmd
}

func renderDroplets(droplets []godo.Droplet) (string, error) {
	records := make([]render.Record, 0, len(droplets))
	for _, droplet := range droplets {
		records = append(records, render.Record{
			"id":      strconv.Itoa(droplet.ID),
			"name":    droplet.Name,
			"status":  droplet.Status,
			"ip":      digitalocean.PublicIP(&droplet),
			"size":    droplet.SizeSlug,
			"created": droplet.Created,
		})
	}
	opts := []render.Option{render.WithPreamble("Droplets")}
	if len(records) == 0 {
		opts = append(opts, render.WithFooter("No droplets found."))
	}
	return render.Table([]render.Column{
		{Header: "ID", Field: "id"},
		{Header: "Name", Field: "name"},
		{Header: "Status", Field: "status"},
		{Header: "Public IP", Field: "ip"},
		{Header: "Size", Field: "size"},
		{Header: "Created", Field: "created"},
	}, records, opts...)
}

func printCachedDroplets(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Inventory.Enabled {
		return fmt.Errorf("inventory cache is disabled in the configuration")
	}
	store, err := inventory.Open(cfg.Inventory.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	snapshots, err := store.List(cmd.Context())
	if err != nil {
		return err
	}

	records := make([]render.Record, 0, len(snapshots))
	for _, snap := range snapshots {
		records = append(records, render.Record{
			"id":     strconv.Itoa(snap.ID),
			"name":   snap.Name,
			"status": snap.Status,
			"ip":     snap.PublicIP,
			"seen":   snap.SeenAt.Local().Format("2006-01-02 15:04"),
		})
	}
	opts := []render.Option{render.WithPreamble("Cached droplets")}
	if len(records) == 0 {
		opts = append(opts, render.WithFooter("Inventory cache is empty; run 'doconsole droplets' to fill it."))
	}
	out, err := render.Table([]render.Column{
		{Header: "ID", Field: "id"},
		{Header: "Name", Field: "name"},
		{Header: "Status", Field: "status"},
		{Header: "Public IP", Field: "ip"},
		{Header: "Seen", Field: "seen"},
	}, records, opts...)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
