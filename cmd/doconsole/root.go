package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var tokenFlag string
	var keyFlag string
	var playbooksFlag string
	var initFlag bool

	ctx := newCommandContext(&configFlag, &tokenFlag, &keyFlag, &playbooksFlag)

	rootCmd := &cobra.Command{
		Use:           "doconsole",
		Short:         "Interactive console for DigitalOcean droplets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			repl, cleanup, err := ctx.buildConsole()
			if err != nil {
				return err
			}
			defer cleanup()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if initFlag {
				repl.Bootstrap(runCtx)
			}
			return repl.Run(runCtx)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "DigitalOcean API token (overrides config and environment)")
	rootCmd.PersistentFlags().StringVar(&keyFlag, "key", "", "SSH private key used for ssh and playbook runs")
	rootCmd.PersistentFlags().StringVar(&playbooksFlag, "playbooks", "", "Directory scanned for Ansible playbooks")
	rootCmd.Flags().BoolVar(&initFlag, "init", false, "List droplets and playbooks before the first prompt")

	rootCmd.AddCommand(newDropletsCommand(ctx))
	rootCmd.AddCommand(newCreateCommand(ctx))
	rootCmd.AddCommand(newDestroyCommand(ctx))
	rootCmd.AddCommand(newAccountCommand(ctx))
	rootCmd.AddCommand(newKeysCommand(ctx))
	rootCmd.AddCommand(newCatalogCommand(ctx))
	rootCmd.AddCommand(newPlaybooksCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}
