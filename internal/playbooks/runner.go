package playbooks

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

// Runner invokes ansible-playbook against a single host.
type Runner struct {
	binary string
	exec   Executor
}

// Option configures a Runner.
type Option func(*Runner)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// NewRunner constructs a Runner using the ansible-playbook binary from PATH.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		binary: "ansible-playbook",
		exec:   interactiveExecutor{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run applies the playbook to host as user with the given private key,
// blocking until ansible-playbook exits. The host is passed as a one-entry
// inline inventory.
func (r *Runner) Run(ctx context.Context, playbookPath, host, user, privateKey string) error {
	playbookPath = strings.TrimSpace(playbookPath)
	if playbookPath == "" {
		return services.Wrap(services.ErrConfiguration, "ansible", "run", "playbook path required", nil)
	}
	if _, err := os.Stat(playbookPath); err != nil {
		return services.Wrap(services.ErrNotFound, "ansible", "run", fmt.Sprintf("playbook %s", playbookPath), err)
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return services.Wrap(services.ErrConfiguration, "ansible", "run", "target host required", nil)
	}

	args := []string{"-i", host + ",", "-u", user}
	if strings.TrimSpace(privateKey) != "" {
		args = append(args, "--private-key="+privateKey)
	}
	args = append(args, playbookPath)

	if err := r.exec.Run(ctx, r.binary, args); err != nil {
		return services.Wrap(services.ErrExternalTool, "ansible", "run", playbookPath, err)
	}
	return nil
}

// interactiveExecutor runs the child with the console's terminal attached so
// Ansible output and prompts pass straight through.
type interactiveExecutor struct{}

func (interactiveExecutor) Run(ctx context.Context, binary string, args []string) error {
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
