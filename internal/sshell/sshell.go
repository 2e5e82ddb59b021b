package sshell

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/josephberger/doconsole/internal/services"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) error
}

// Launcher opens interactive SSH sessions using the ssh binary from PATH.
// Sessions block the caller until the remote shell exits.
type Launcher struct {
	binary string
	exec   Executor
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(l *Launcher) {
		if exec != nil {
			l.exec = exec
		}
	}
}

// NewLauncher constructs a Launcher.
func NewLauncher(opts ...Option) *Launcher {
	l := &Launcher{
		binary: "ssh",
		exec:   terminalExecutor{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Connect opens an interactive session to user@host with the given private
// key and blocks until it ends.
func (l *Launcher) Connect(ctx context.Context, host, user, privateKey string) error {
	host = strings.TrimSpace(host)
	if host == "" {
		return services.Wrap(services.ErrConfiguration, "ssh", "connect", "target host required", nil)
	}
	if strings.TrimSpace(user) == "" {
		user = "root"
	}

	var args []string
	if strings.TrimSpace(privateKey) != "" {
		args = append(args, "-i", privateKey)
	}
	args = append(args, user+"@"+host)

	if err := l.exec.Run(ctx, l.binary, args); err != nil {
		return services.Wrap(services.ErrExternalTool, "ssh", "connect", host, err)
	}
	return nil
}

type terminalExecutor struct{}

func (terminalExecutor) Run(ctx context.Context, binary string, args []string) error {
	path, err := exec.LookPath(binary)
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w", binary, err)
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
