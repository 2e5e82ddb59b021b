package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/josephberger/doconsole/internal/config"
	"github.com/josephberger/doconsole/internal/console"
	"github.com/josephberger/doconsole/internal/inventory"
	"github.com/josephberger/doconsole/internal/logging"
	"github.com/josephberger/doconsole/internal/services/digitalocean"
)

type commandContext struct {
	configFlag    *string
	tokenFlag     *string
	keyFlag       *string
	playbooksFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, tokenFlag, keyFlag, playbooksFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		tokenFlag:     tokenFlag,
		keyFlag:       keyFlag,
		playbooksFlag: playbooksFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := c.applyOverrides(cfg); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// applyOverrides layers command-line flags over the loaded file.
func (c *commandContext) applyOverrides(cfg *config.Config) error {
	if c.tokenFlag != nil && strings.TrimSpace(*c.tokenFlag) != "" {
		cfg.API.Token = strings.TrimSpace(*c.tokenFlag)
	}
	if c.keyFlag != nil && strings.TrimSpace(*c.keyFlag) != "" {
		expanded, err := config.ExpandPath(*c.keyFlag)
		if err != nil {
			return fmt.Errorf("resolve ssh key path: %w", err)
		}
		cfg.SSH.Key = expanded
	}
	if c.playbooksFlag != nil && strings.TrimSpace(*c.playbooksFlag) != "" {
		expanded, err := config.ExpandPath(*c.playbooksFlag)
		if err != nil {
			return fmt.Errorf("resolve playbooks directory: %w", err)
		}
		cfg.Paths.PlaybooksDir = expanded
	}
	return nil
}

// newManager builds an API client for the given token. Also used as the
// console's factory when the operator replaces the token mid-session.
func (c *commandContext) newManager(token string) (digitalocean.Manager, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return digitalocean.New(token, digitalocean.WithBaseURL(cfg.API.BaseURL))
}

// manager returns a client for the configured token, or a setup hint when no
// token is available anywhere.
func (c *commandContext) manager() (digitalocean.Manager, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.API.Token) == "" {
		return nil, fmt.Errorf("no API token configured; set api.token in the config, export DO_API_TOKEN, or pass --token")
	}
	return c.newManager(cfg.API.Token)
}

// buildConsole assembles the interactive console from the resolved config.
// The returned cleanup closes the inventory store and log sinks.
func (c *commandContext) buildConsole() (*console.Console, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, _, logCloser, err := logging.NewLogger(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "doconsole.log")},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("configure logging: %w", err)
	}

	var manager digitalocean.Manager
	if strings.TrimSpace(cfg.API.Token) != "" {
		manager, err = c.newManager(cfg.API.Token)
		if err != nil {
			logCloser.Close()
			return nil, nil, err
		}
	}

	var store *inventory.Store
	if cfg.Inventory.Enabled {
		store, err = inventory.Open(cfg.Inventory.Path)
		if err != nil {
			// The cache is an optimization; run without it rather than fail.
			logger.Warn("inventory cache unavailable", slog.String("error", err.Error()))
			store = nil
		}
	}

	repl := console.New(console.Options{
		Config:         cfg,
		Manager:        manager,
		ManagerFactory: c.newManager,
		Store:          store,
		Logger:         logger,
		Interactive:    isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	})

	cleanup := func() {
		if store != nil {
			if err := store.Close(); err != nil {
				logger.Warn("inventory close failed", slog.String("error", err.Error()))
			}
		}
		logCloser.Close()
	}
	return repl, cleanup, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
