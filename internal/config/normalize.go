package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeAPI(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSSH()
	c.normalizeDroplet()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeAPI() error {
	c.API.Token = strings.TrimSpace(c.API.Token)
	if c.API.Token == "" {
		// DO_API_TOKEN is the historical name; DIGITALOCEAN_TOKEN matches
		// doctl's convention.
		for _, name := range []string{"DO_API_TOKEN", "DIGITALOCEAN_TOKEN"} {
			if value, ok := os.LookupEnv(name); ok && strings.TrimSpace(value) != "" {
				c.API.Token = strings.TrimSpace(value)
				break
			}
		}
	}
	c.API.BaseURL = strings.TrimSpace(c.API.BaseURL)
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultAPIBaseURL
	}
	if c.API.RequestTimeout <= 0 {
		c.API.RequestTimeout = defaultRequestTimeout
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.PlaybooksDir) == "" {
		c.Paths.PlaybooksDir = defaultPlaybooksDir
	}
	if c.Paths.PlaybooksDir, err = expandPath(c.Paths.PlaybooksDir); err != nil {
		return fmt.Errorf("paths.playbooks_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Inventory.Path) == "" {
		c.Inventory.Path = defaultInventoryPath
	}
	if c.Inventory.Path, err = expandPath(c.Inventory.Path); err != nil {
		return fmt.Errorf("inventory.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeSSH() {
	c.SSH.Key = strings.TrimSpace(c.SSH.Key)
	if c.SSH.Key == "" {
		c.SSH.Key = defaultSSHKey
	}
	if expanded, err := expandPath(c.SSH.Key); err == nil {
		c.SSH.Key = expanded
	}
	c.SSH.User = strings.TrimSpace(c.SSH.User)
	if c.SSH.User == "" {
		c.SSH.User = defaultSSHUser
	}
}

func (c *Config) normalizeDroplet() {
	c.Droplet.Region = strings.TrimSpace(c.Droplet.Region)
	c.Droplet.Image = strings.TrimSpace(c.Droplet.Image)
	c.Droplet.Size = strings.TrimSpace(c.Droplet.Size)
	trimmed := c.Droplet.Tags[:0]
	for _, tag := range c.Droplet.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			trimmed = append(trimmed, tag)
		}
	}
	c.Droplet.Tags = trimmed
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
