package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/josephberger/doconsole/internal/render"
)

func newAccountCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show account details",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.manager()
			if err != nil {
				return err
			}
			account, err := manager.Account(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.SingleRecord([]render.Field{
				{Key: "Email", Value: account.Email},
				{Key: "Status", Value: account.Status},
				{Key: "Droplet limit", Value: strconv.Itoa(account.DropletLimit)},
				{Key: "UUID", Value: account.UUID},
			}, render.WithPreamble("Account")))
			return nil
		},
	}
}

func newKeysCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List SSH keys registered on the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.manager()
			if err != nil {
				return err
			}
			keys, err := manager.ListKeys(cmd.Context())
			if err != nil {
				return err
			}

			records := make([]render.Record, 0, len(keys))
			for _, key := range keys {
				records = append(records, render.Record{
					"id":          strconv.Itoa(key.ID),
					"name":        key.Name,
					"fingerprint": key.Fingerprint,
				})
			}
			opts := []render.Option{render.WithPreamble("SSH keys")}
			if len(records) == 0 {
				opts = append(opts, render.WithFooter("No SSH keys registered."))
			}
			out, err := render.Table([]render.Column{
				{Header: "ID", Field: "id"},
				{Header: "Name", Field: "name"},
				{Header: "Fingerprint", Field: "fingerprint"},
			}, records, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
