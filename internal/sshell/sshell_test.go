package sshell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/josephberger/doconsole/internal/services"
	"github.com/josephberger/doconsole/internal/sshell"
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

func TestConnectBuildsArgs(t *testing.T) {
	exec := &captureExecutor{}
	launcher := sshell.NewLauncher(sshell.WithExecutor(exec))

	if err := launcher.Connect(context.Background(), "203.0.113.10", "root", "/keys/id_rsa"); err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	want := []string{"-i", "/keys/id_rsa", "root@203.0.113.10"}
	if exec.binary != "ssh" || len(exec.args) != len(want) {
		t.Fatalf("unexpected invocation: %s %v", exec.binary, exec.args)
	}
	for i := range want {
		if exec.args[i] != want[i] {
			t.Fatalf("args[%d] = %q, want %q", i, exec.args[i], want[i])
		}
	}
}

func TestConnectDefaultsUser(t *testing.T) {
	exec := &captureExecutor{}
	launcher := sshell.NewLauncher(sshell.WithExecutor(exec))

	if err := launcher.Connect(context.Background(), "203.0.113.10", "", ""); err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	if exec.args[len(exec.args)-1] != "root@203.0.113.10" {
		t.Fatalf("unexpected destination %v", exec.args)
	}
}

func TestConnectRequiresHost(t *testing.T) {
	launcher := sshell.NewLauncher(sshell.WithExecutor(&captureExecutor{}))
	if err := launcher.Connect(context.Background(), " ", "root", ""); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestConnectWrapsFailure(t *testing.T) {
	launcher := sshell.NewLauncher(sshell.WithExecutor(&captureExecutor{err: errors.New("exit status 255")}))
	if err := launcher.Connect(context.Background(), "203.0.113.10", "root", ""); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}
