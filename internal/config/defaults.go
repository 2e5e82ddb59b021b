package config

const (
	defaultAPIBaseURL     = "https://api.digitalocean.com"
	defaultRequestTimeout = 30
	defaultSSHKey         = "~/.ssh/id_rsa"
	defaultSSHUser        = "root"
	defaultRegion         = "nyc1"
	defaultImage          = "ubuntu-20-04-x64"
	defaultSize           = "s-1vcpu-1gb"
	defaultPlaybooksDir   = "playbooks"
	defaultLogDir         = "~/.local/share/doconsole/logs"
	defaultInventoryPath  = "~/.local/share/doconsole/inventory.db"
	defaultPollInterval   = 1
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:        defaultAPIBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		SSH: SSH{
			Key:  defaultSSHKey,
			User: defaultSSHUser,
		},
		Droplet: Droplet{
			Region: defaultRegion,
			Image:  defaultImage,
			Size:   defaultSize,
		},
		Paths: Paths{
			PlaybooksDir: defaultPlaybooksDir,
			LogDir:       defaultLogDir,
		},
		Inventory: Inventory{
			Enabled: true,
			Path:    defaultInventoryPath,
		},
		Provision: Provision{
			PollInterval: defaultPollInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
