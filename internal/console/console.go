package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/josephberger/doconsole/internal/config"
	"github.com/josephberger/doconsole/internal/inventory"
	"github.com/josephberger/doconsole/internal/logging"
	"github.com/josephberger/doconsole/internal/playbooks"
	"github.com/josephberger/doconsole/internal/services/digitalocean"
	"github.com/josephberger/doconsole/internal/session"
	"github.com/josephberger/doconsole/internal/sshell"
)

// ManagerFactory builds an API manager for a token. The console uses it when
// the operator sets or replaces the token mid-session.
type ManagerFactory func(token string) (digitalocean.Manager, error)

// Options assembles a Console. Manager may be nil when no token is available
// yet; API commands then fail with a hint until `token` is used.
type Options struct {
	Config         *config.Config
	Manager        digitalocean.Manager
	ManagerFactory ManagerFactory
	Store          *inventory.Store
	Runner         *playbooks.Runner
	SSH            *sshell.Launcher
	Logger         *slog.Logger
	Input          io.Reader
	Output         io.Writer
	// Interactive controls whether the prompt is printed before each read.
	Interactive bool
	// WaitInterval overrides the provisioning poll interval (tests).
	WaitInterval time.Duration
}

// Console is the interactive shell. It processes one command at a time and
// is not safe for concurrent use.
type Console struct {
	cfg            *config.Config
	manager        digitalocean.Manager
	managerFactory ManagerFactory
	store          *inventory.Store
	runner         *playbooks.Runner
	ssh            *sshell.Launcher
	logger         *slog.Logger
	session        *session.Session
	in             *bufio.Scanner
	out            io.Writer
	interactive    bool
	waitInterval   time.Duration
}

// New constructs a Console from opts, applying defaults for anything unset.
func New(opts Options) *Console {
	cfg := opts.Config
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	input := opts.Input
	if input == nil {
		input = os.Stdin
	}
	output := opts.Output
	if output == nil {
		output = os.Stdout
	}
	runner := opts.Runner
	if runner == nil {
		runner = playbooks.NewRunner()
	}
	launcher := opts.SSH
	if launcher == nil {
		launcher = sshell.NewLauncher()
	}
	waitInterval := opts.WaitInterval
	if waitInterval <= 0 {
		waitInterval = time.Duration(cfg.Provision.PollInterval) * time.Second
	}

	return &Console{
		cfg:            cfg,
		manager:        opts.Manager,
		managerFactory: opts.ManagerFactory,
		store:          opts.Store,
		runner:         runner,
		ssh:            launcher,
		logger:         logger,
		session:        session.New(cfg.SSH.Key, cfg.SSH.User),
		in:             bufio.NewScanner(input),
		out:            output,
		interactive:    opts.Interactive,
		waitInterval:   waitInterval,
	}
}

// Session exposes the console state, primarily for the one-shot commands and
// tests.
func (c *Console) Session() *session.Session {
	return c.session
}

// Bootstrap prints the droplet list and playbook catalog before the first
// prompt, mirroring a fresh `droplets` + `playbooks` invocation. Failures
// (typically a missing token) are reported and do not prevent the console
// from starting.
func (c *Console) Bootstrap(ctx context.Context) {
	if err := c.handleDroplets(ctx); err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
	if err := c.handlePlaybooks(); err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
}

// Run reads and dispatches commands until quit, EOF, or context
// cancellation. Handler errors are printed and the loop continues; only
// read failures and cancellation end the session with an error.
func (c *Console) Run(ctx context.Context) error {
	if c.interactive {
		fmt.Fprintln(c.out, "doconsole - DigitalOcean droplet console. Type 'help' for commands.")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.interactive {
			fmt.Fprint(c.out, c.prompt())
		}
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return fmt.Errorf("read command: %w", err)
			}
			return nil
		}

		verb, args := splitCommand(c.in.Text())
		if verb == "" {
			continue
		}
		if verb == "quit" || verb == "exit" {
			return nil
		}

		if err := c.dispatch(ctx, verb, args); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			c.logger.Warn("command failed", slog.String("command", verb), slog.String("error", err.Error()))
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
}

func (c *Console) dispatch(ctx context.Context, verb string, args []string) error {
	switch verb {
	case "help":
		return c.handleHelp()
	case "info":
		return c.handleInfo()
	case "token":
		return c.handleToken(args)
	case "ssh-key":
		return c.handleSSHKey(args)
	case "droplets":
		return c.handleDroplets(ctx)
	case "cached":
		return c.handleCached(ctx)
	case "use":
		return c.handleUse(args)
	case "create":
		return c.handleCreate(ctx, args)
	case "destroy":
		return c.handleDestroy(ctx)
	case "tag":
		return c.handleTag(ctx, args)
	case "untag":
		return c.handleUntag(ctx, args)
	case "ssh":
		return c.handleSSH(ctx)
	case "playbooks":
		return c.handlePlaybooks()
	case "playbook":
		return c.handleSetPlaybook(args)
	case "run":
		return c.handleRun(ctx, args)
	case "account":
		return c.handleAccount(ctx)
	case "keys":
		return c.handleKeys(ctx)
	case "regions":
		return c.handleRegions(ctx)
	case "sizes":
		return c.handleSizes(ctx)
	case "images":
		return c.handleImages(ctx)
	default:
		return fmt.Errorf("unknown command %q; type 'help'", verb)
	}
}

func (c *Console) prompt() string {
	if label := c.session.PromptLabel(); label != "" {
		return fmt.Sprintf("(doconsole) [%s]> ", label)
	}
	return "(doconsole)> "
}

func (c *Console) requireManager() (digitalocean.Manager, error) {
	if c.manager == nil {
		return nil, errors.New("no API token configured; set one with 'token <value>'")
	}
	return c.manager, nil
}

// confirm reads one line and reports whether it is exactly "yes".
func (c *Console) confirm(question string) bool {
	fmt.Fprintf(c.out, "%s Type 'yes' to continue: ", question)
	if !c.in.Scan() {
		return false
	}
	return strings.TrimSpace(c.in.Text()) == "yes"
}

func splitCommand(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}
