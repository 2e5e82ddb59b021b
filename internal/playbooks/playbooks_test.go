package playbooks_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/josephberger/doconsole/internal/playbooks"
	"github.com/josephberger/doconsole/internal/services"
)

type captureExecutor struct {
	binary string
	args   []string
	err    error
}

func (c *captureExecutor) Run(ctx context.Context, binary string, args []string) error {
	c.binary = binary
	c.args = args
	return c.err
}

func TestDiscoverFindsYAMLFilesSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"web.yml", "db.yaml", "notes.txt", "base.yml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("---\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "roles.yml"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files, err := playbooks.Discover(dir)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "base.yml"),
		filepath.Join(dir, "db.yaml"),
		filepath.Join(dir, "web.yml"),
	}
	if len(files) != len(want) {
		t.Fatalf("unexpected catalog: %v", files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("catalog[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestDiscoverMissingDirectory(t *testing.T) {
	files, err := playbooks.Discover(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if files != nil {
		t.Fatalf("expected empty catalog, got %v", files)
	}
}

func TestRunnerBuildsInlineInventory(t *testing.T) {
	dir := t.TempDir()
	playbook := filepath.Join(dir, "web.yml")
	if err := os.WriteFile(playbook, []byte("---\n"), 0o644); err != nil {
		t.Fatalf("write playbook: %v", err)
	}

	exec := &captureExecutor{}
	runner := playbooks.NewRunner(playbooks.WithExecutor(exec))

	if err := runner.Run(context.Background(), playbook, "203.0.113.10", "root", "/keys/id_rsa"); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if exec.binary != "ansible-playbook" {
		t.Fatalf("unexpected binary %q", exec.binary)
	}
	want := []string{"-i", "203.0.113.10,", "-u", "root", "--private-key=/keys/id_rsa", playbook}
	if len(exec.args) != len(want) {
		t.Fatalf("unexpected args: %v", exec.args)
	}
	for i := range want {
		if exec.args[i] != want[i] {
			t.Fatalf("args[%d] = %q, want %q", i, exec.args[i], want[i])
		}
	}
}

func TestRunnerMissingPlaybook(t *testing.T) {
	runner := playbooks.NewRunner(playbooks.WithExecutor(&captureExecutor{}))
	err := runner.Run(context.Background(), filepath.Join(t.TempDir(), "absent.yml"), "203.0.113.10", "root", "")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRunnerWrapsToolFailure(t *testing.T) {
	dir := t.TempDir()
	playbook := filepath.Join(dir, "web.yml")
	if err := os.WriteFile(playbook, []byte("---\n"), 0o644); err != nil {
		t.Fatalf("write playbook: %v", err)
	}

	exec := &captureExecutor{err: errors.New("exit status 2")}
	runner := playbooks.NewRunner(playbooks.WithExecutor(exec))

	err := runner.Run(context.Background(), playbook, "203.0.113.10", "root", "")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}
