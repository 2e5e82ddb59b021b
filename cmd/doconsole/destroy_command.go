package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/digitalocean/godo"
	"github.com/spf13/cobra"

	"github.com/josephberger/doconsole/internal/services/digitalocean"
)

func newDestroyCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "destroy <id|name>",
		Short: "Destroy a droplet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.manager()
			if err != nil {
				return err
			}

			droplet, err := resolveDroplet(cmd, manager, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !force {
				fmt.Fprintf(out, "Destroy %s (id %d)? Type 'yes' to continue: ", droplet.Name, droplet.ID)
				scanner := bufio.NewScanner(cmd.InOrStdin())
				if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "yes" {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
			}

			if err := manager.DeleteDroplet(cmd.Context(), droplet.ID); err != nil {
				return err
			}
			fmt.Fprintf(out, "Destroyed %s (id %d).\n", droplet.Name, droplet.ID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	return cmd
}

// resolveDroplet matches ref against droplet IDs first, then names. A name
// shared by several droplets is ambiguous and must be disambiguated by ID.
func resolveDroplet(cmd *cobra.Command, manager digitalocean.Manager, ref string) (godo.Droplet, error) {
	droplets, err := manager.ListDroplets(cmd.Context())
	if err != nil {
		return godo.Droplet{}, err
	}

	if id, err := strconv.Atoi(ref); err == nil {
		for _, droplet := range droplets {
			if droplet.ID == id {
				return droplet, nil
			}
		}
		return godo.Droplet{}, fmt.Errorf("no droplet with id %d", id)
	}

	var matches []godo.Droplet
	for _, droplet := range droplets {
		if droplet.Name == ref {
			matches = append(matches, droplet)
		}
	}
	switch len(matches) {
	case 0:
		return godo.Droplet{}, fmt.Errorf("no droplet named %q", ref)
	case 1:
		return matches[0], nil
	default:
		return godo.Droplet{}, fmt.Errorf("%d droplets named %q; destroy by id instead", len(matches), ref)
	}
}
