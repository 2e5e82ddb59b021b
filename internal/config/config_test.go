package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DO_API_TOKEN", "")
	t.Setenv("DIGITALOCEAN_TOKEN", "")

	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Droplet.Region != "nyc1" || cfg.Droplet.Image != "ubuntu-20-04-x64" || cfg.Droplet.Size != "s-1vcpu-1gb" {
		t.Fatalf("unexpected droplet defaults: %+v", cfg.Droplet)
	}
	if cfg.SSH.User != "root" {
		t.Fatalf("SSH.User = %q, want root", cfg.SSH.User)
	}
	if cfg.Provision.PollInterval != 1 {
		t.Fatalf("PollInterval = %d, want 1", cfg.Provision.PollInterval)
	}
}

func TestLoadReadsFileAndExpandsPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[api]
token = "abc123"

[ssh]
key = "~/.ssh/work_rsa"

[paths]
playbooks_dir = "~/infra/playbooks"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	if cfg.API.Token != "abc123" {
		t.Fatalf("API.Token = %q", cfg.API.Token)
	}
	want := filepath.Join(home, ".ssh", "work_rsa")
	if cfg.SSH.Key != want {
		t.Fatalf("SSH.Key = %q, want %q", cfg.SSH.Key, want)
	}
	if !strings.HasPrefix(cfg.Paths.PlaybooksDir, home) {
		t.Fatalf("PlaybooksDir %q not under home %q", cfg.Paths.PlaybooksDir, home)
	}
}

func TestLoadTokenEnvFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DO_API_TOKEN", "env-token")
	t.Setenv("DIGITALOCEAN_TOKEN", "other-token")

	cfg, _, _, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.Token != "env-token" {
		t.Fatalf("API.Token = %q, want env-token", cfg.API.Token)
	}
}

func TestLoadRejectsBadPollInterval(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[provision]\npoll_interval = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected validation error for poll_interval = 0")
	}
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected validation error for logging.format = xml")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DO_API_TOKEN", "")
	t.Setenv("DIGITALOCEAN_TOKEN", "")

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample() error = %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load(sample) error = %v", err)
	}
	if !exists {
		t.Fatal("sample config not found after CreateSample")
	}
	if cfg.Droplet.Region != "nyc1" {
		t.Fatalf("sample region = %q", cfg.Droplet.Region)
	}
}
