package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. The API token is not checked
// here: the console can start without one and accept it via the `token`
// command; commands that need the API enforce its presence.
func (c *Config) Validate() error {
	if err := c.validateDroplet(); err != nil {
		return err
	}
	if err := c.validateProvision(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDroplet() error {
	if c.Droplet.Region == "" {
		return errors.New("droplet.region must be set")
	}
	if c.Droplet.Image == "" {
		return errors.New("droplet.image must be set")
	}
	if c.Droplet.Size == "" {
		return errors.New("droplet.size must be set")
	}
	return nil
}

func (c *Config) validateProvision() error {
	if c.Provision.PollInterval < 1 {
		return errors.New("provision.poll_interval must be at least 1 second")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
