package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/josephberger/doconsole/internal/playbooks"
	"github.com/josephberger/doconsole/internal/render"
)

func newPlaybooksCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "playbooks",
		Short: "List Ansible playbooks in the playbooks directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			catalog, err := playbooks.Discover(cfg.Paths.PlaybooksDir)
			if err != nil {
				return err
			}

			records := make([]render.Record, 0, len(catalog))
			for i, path := range catalog {
				records = append(records, render.Record{
					"index": strconv.Itoa(i),
					"name":  filepath.Base(path),
				})
			}
			opts := []render.Option{render.WithPreamble("Playbooks in " + cfg.Paths.PlaybooksDir)}
			if len(records) == 0 {
				opts = append(opts, render.WithFooter("No playbooks found."))
			}
			out, err := render.Table([]render.Column{
				{Header: "#", Field: "index"},
				{Header: "Playbook", Field: "name"},
			}, records, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
