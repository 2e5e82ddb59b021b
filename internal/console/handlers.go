package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/digitalocean/godo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/josephberger/doconsole/internal/config"
	"github.com/josephberger/doconsole/internal/inventory"
	"github.com/josephberger/doconsole/internal/playbooks"
	"github.com/josephberger/doconsole/internal/render"
	"github.com/josephberger/doconsole/internal/services/digitalocean"
	"github.com/josephberger/doconsole/internal/session"
)

const helpText = `Commands:
  droplets                 refresh and list droplets
  cached                   list droplets from the local inventory cache
  use <index|all|none>     target one droplet, all of them, or clear
  create <name> [region [size [image]]]
                           create a droplet and wait until it is reachable
  destroy                  destroy the targeted droplet(s) after confirmation
  tag <name>               apply a tag to the targeted droplet(s)
  untag <name>             remove a tag from the targeted droplet(s)
  ssh                      open an SSH session to the targeted droplet
  playbooks                list Ansible playbooks in the playbooks directory
  playbook <index>         select the active playbook
  run [path]               run the active (or given) playbook on the target(s)
  account                  show account details
  keys                     list SSH keys registered on the account
  regions | sizes | images list available slugs
  token <value>            set or replace the API token for this session
  ssh-key <path>           set the private key used for ssh and run
  info                     show current settings and target
  quit | exit              leave the console`

func (c *Console) handleHelp() error {
	fmt.Fprintln(c.out, helpText)
	return nil
}

func (c *Console) handleInfo() error {
	tokenState := "not set"
	if c.manager != nil {
		tokenState = "set"
	}
	target := "none"
	switch t := c.session.Target(); t.Kind {
	case session.TargetSingle:
		target = t.Droplet.Name
	case session.TargetAll:
		target = "all"
	}
	playbook := c.session.ActivePlaybookName()
	if playbook == "" {
		playbook = "none"
	}

	fmt.Fprintln(c.out, render.SingleRecord([]render.Field{
		{Key: "Token", Value: tokenState},
		{Key: "Target", Value: target},
		{Key: "Playbook", Value: playbook},
		{Key: "SSH key", Value: c.session.SSHKey()},
		{Key: "SSH user", Value: c.session.SSHUser()},
		{Key: "Region", Value: c.cfg.Droplet.Region},
		{Key: "Image", Value: c.cfg.Droplet.Image},
		{Key: "Size", Value: c.cfg.Droplet.Size},
		{Key: "Playbooks dir", Value: c.cfg.Paths.PlaybooksDir},
	}))
	return nil
}

func (c *Console) handleToken(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: token <value>")
	}
	if c.managerFactory == nil {
		return errors.New("token changes are not supported in this session")
	}
	manager, err := c.managerFactory(args[0])
	if err != nil {
		return err
	}
	c.manager = manager
	c.logger.Info("api token replaced")
	fmt.Fprintln(c.out, "Token updated.")
	return nil
}

func (c *Console) handleSSHKey(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: ssh-key <path>")
	}
	path, err := config.ExpandPath(args[0])
	if err != nil {
		return err
	}
	if err := c.session.SetSSHKey(path); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "SSH key set to %s\n", path)
	return nil
}

func (c *Console) handleDroplets(ctx context.Context) error {
	droplets, err := c.refreshDroplets(ctx)
	if err != nil {
		return err
	}
	return c.printDroplets(droplets)
}

// refreshDroplets pulls the droplet list from the API, updates the session,
// and mirrors the result into the inventory cache.
func (c *Console) refreshDroplets(ctx context.Context) ([]godo.Droplet, error) {
	manager, err := c.requireManager()
	if err != nil {
		return nil, err
	}
	droplets, err := manager.ListDroplets(ctx)
	if err != nil {
		return nil, err
	}
	c.session.SetDroplets(droplets)

	if c.store != nil {
		snapshots := make([]inventory.Snapshot, 0, len(droplets))
		for _, droplet := range droplets {
			snapshots = append(snapshots, inventory.Snapshot{
				ID:       droplet.ID,
				Name:     droplet.Name,
				Status:   droplet.Status,
				PublicIP: digitalocean.PublicIP(&droplet),
				Region:   regionSlug(droplet),
				Size:     droplet.SizeSlug,
				Tags:     droplet.Tags,
				Created:  droplet.Created,
				SeenAt:   time.Now(),
			})
		}
		if err := c.store.ReplaceAll(ctx, snapshots); err != nil {
			c.logger.Warn("inventory update failed", slog.String("error", err.Error()))
		}
	}
	return droplets, nil
}

var dropletColumns = []render.Column{
	{Header: "#", Field: "index"},
	{Header: "ID", Field: "id"},
	{Header: "Name", Field: "name"},
	{Header: "Status", Field: "status"},
	{Header: "Public IP", Field: "ip"},
	{Header: "Created", Field: "created"},
}

func (c *Console) printDroplets(droplets []godo.Droplet) error {
	records := make([]render.Record, 0, len(droplets))
	for i, droplet := range droplets {
		records = append(records, render.Record{
			"index":   strconv.Itoa(i),
			"id":      strconv.Itoa(droplet.ID),
			"name":    droplet.Name,
			"status":  displayStatus(droplet.Status),
			"ip":      digitalocean.PublicIP(&droplet),
			"created": shortDate(droplet.Created),
		})
	}
	out, err := render.Table(dropletColumns, records,
		render.WithPreamble("Droplets"),
		emptyFooter(len(records), "No droplets found."))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, out)
	return nil
}

func (c *Console) handleCached(ctx context.Context) error {
	if c.store == nil {
		return errors.New("inventory cache is disabled")
	}
	snapshots, err := c.store.List(ctx)
	if err != nil {
		return err
	}
	records := make([]render.Record, 0, len(snapshots))
	for _, snap := range snapshots {
		records = append(records, render.Record{
			"id":     strconv.Itoa(snap.ID),
			"name":   snap.Name,
			"status": displayStatus(snap.Status),
			"ip":     snap.PublicIP,
			"seen":   snap.SeenAt.Local().Format("2006-01-02 15:04"),
		})
	}
	out, err := render.Table([]render.Column{
		{Header: "ID", Field: "id"},
		{Header: "Name", Field: "name"},
		{Header: "Status", Field: "status"},
		{Header: "Public IP", Field: "ip"},
		{Header: "Seen", Field: "seen"},
	}, records,
		render.WithPreamble("Cached droplets"),
		emptyFooter(len(records), "Inventory cache is empty; run 'droplets' to fill it."))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, out)
	return nil
}

func (c *Console) handleUse(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: use <index|all|none>")
	}
	if strings.EqualFold(args[0], "none") {
		c.session.ClearTarget()
		fmt.Fprintln(c.out, "Target cleared.")
		return nil
	}
	if strings.EqualFold(args[0], "all") {
		if err := c.session.UseAll(); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Targeting all %d droplets.\n", len(c.session.Droplets()))
		return nil
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("use: %q is not an index, 'all', or 'none'", args[0])
	}
	droplet, err := c.session.UseIndex(index)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Targeting %s (id %d).\n", droplet.Name, droplet.ID)
	return nil
}

func (c *Console) handleCreate(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 4 {
		return errors.New("usage: create <name> [region [size [image]]]")
	}
	manager, err := c.requireManager()
	if err != nil {
		return err
	}

	req := digitalocean.CreateRequest{
		Name:    args[0],
		Region:  c.cfg.Droplet.Region,
		Size:    c.cfg.Droplet.Size,
		Image:   c.cfg.Droplet.Image,
		Backups: c.cfg.Droplet.Backups,
		Tags:    c.cfg.Droplet.Tags,
	}
	if len(args) > 1 {
		req.Region = args[1]
	}
	if len(args) > 2 {
		req.Size = args[2]
	}
	if len(args) > 3 {
		req.Image = args[3]
	}

	droplet, err := manager.CreateDroplet(ctx, req)
	if err != nil {
		return err
	}
	c.logger.Info("droplet created",
		slog.String("name", droplet.Name), slog.Int("id", droplet.ID))
	fmt.Fprintf(c.out, "Creating %s (id %d) in %s", droplet.Name, droplet.ID, req.Region)

	ready, err := digitalocean.WaitForDroplet(ctx, manager, droplet.ID, digitalocean.WaitOptions{
		Interval: c.waitInterval,
		Progress: func(marker string) { fmt.Fprint(c.out, marker) },
	})
	fmt.Fprintln(c.out)
	if err != nil {
		return fmt.Errorf("waiting for droplet %d: %w", droplet.ID, err)
	}
	fmt.Fprintf(c.out, "%s is ready at %s\n", ready.Name, digitalocean.PublicIP(ready))

	if _, err := c.refreshDroplets(ctx); err != nil {
		c.logger.Warn("droplet refresh after create failed", slog.String("error", err.Error()))
	}
	return nil
}

func (c *Console) handleDestroy(ctx context.Context) error {
	manager, err := c.requireManager()
	if err != nil {
		return err
	}
	targets, err := c.targetDroplets()
	if err != nil {
		return err
	}

	names := make([]string, len(targets))
	for i, droplet := range targets {
		names[i] = droplet.Name
	}
	if !c.confirm(fmt.Sprintf("Destroy %s?", strings.Join(names, ", "))) {
		fmt.Fprintln(c.out, "Aborted.")
		return nil
	}

	for _, droplet := range targets {
		if err := manager.DeleteDroplet(ctx, droplet.ID); err != nil {
			return fmt.Errorf("destroy %s: %w", droplet.Name, err)
		}
		c.logger.Info("droplet destroyed",
			slog.String("name", droplet.Name), slog.Int("id", droplet.ID))
		fmt.Fprintf(c.out, "Destroyed %s (id %d).\n", droplet.Name, droplet.ID)
	}
	c.session.ClearTarget()

	if _, err := c.refreshDroplets(ctx); err != nil {
		c.logger.Warn("droplet refresh after destroy failed", slog.String("error", err.Error()))
	}
	return nil
}

func (c *Console) handleTag(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: tag <name>")
	}
	manager, err := c.requireManager()
	if err != nil {
		return err
	}
	targets, err := c.targetDroplets()
	if err != nil {
		return err
	}
	for _, droplet := range targets {
		if err := manager.TagDroplet(ctx, droplet.ID, args[0]); err != nil {
			return fmt.Errorf("tag %s: %w", droplet.Name, err)
		}
		fmt.Fprintf(c.out, "Tagged %s with %s.\n", droplet.Name, args[0])
	}
	return nil
}

func (c *Console) handleUntag(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: untag <name>")
	}
	manager, err := c.requireManager()
	if err != nil {
		return err
	}
	targets, err := c.targetDroplets()
	if err != nil {
		return err
	}
	for _, droplet := range targets {
		if err := manager.UntagDroplet(ctx, droplet.ID, args[0]); err != nil {
			return fmt.Errorf("untag %s: %w", droplet.Name, err)
		}
		fmt.Fprintf(c.out, "Removed %s from %s.\n", args[0], droplet.Name)
	}
	return nil
}

func (c *Console) handleSSH(ctx context.Context) error {
	target := c.session.Target()
	if target.Kind != session.TargetSingle {
		return errors.New("ssh needs a single targeted droplet; run 'use <index>' first")
	}
	host := digitalocean.PublicIP(&target.Droplet)
	if host == "" {
		return fmt.Errorf("%s has no public IP yet", target.Droplet.Name)
	}
	c.logger.Info("opening ssh session",
		slog.String("host", host), slog.String("droplet", target.Droplet.Name))
	return c.ssh.Connect(ctx, host, c.session.SSHUser(), c.session.SSHKey())
}

func (c *Console) handlePlaybooks() error {
	catalog, err := playbooks.Discover(c.cfg.Paths.PlaybooksDir)
	if err != nil {
		return err
	}
	c.session.SetPlaybooks(catalog)

	records := make([]render.Record, 0, len(catalog))
	for i, path := range catalog {
		records = append(records, render.Record{
			"index": strconv.Itoa(i),
			"name":  filepath.Base(path),
		})
	}
	out, err := render.Table([]render.Column{
		{Header: "#", Field: "index"},
		{Header: "Playbook", Field: "name"},
	}, records,
		render.WithPreamble("Playbooks in "+c.cfg.Paths.PlaybooksDir),
		emptyFooter(len(records), "No playbooks found."))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, out)
	return nil
}

func (c *Console) handleSetPlaybook(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: playbook <index>")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("playbook: %q is not an index", args[0])
	}
	path, err := c.session.SetActivePlaybook(index)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Active playbook: %s\n", path)
	return nil
}

func (c *Console) handleRun(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errors.New("usage: run [path]")
	}
	playbook := c.session.ActivePlaybook()
	if len(args) == 1 {
		expanded, err := config.ExpandPath(args[0])
		if err != nil {
			return err
		}
		playbook = expanded
	}
	if playbook == "" {
		return errors.New("no active playbook; run 'playbooks' then 'playbook <index>', or pass a path")
	}
	name := filepath.Base(playbook)
	targets, err := c.targetDroplets()
	if err != nil {
		return err
	}
	for _, droplet := range targets {
		host := digitalocean.PublicIP(&droplet)
		if host == "" {
			return fmt.Errorf("%s has no public IP yet", droplet.Name)
		}
		c.logger.Info("running playbook",
			slog.String("playbook", name),
			slog.String("host", host))
		fmt.Fprintf(c.out, "Running %s on %s (%s)\n", name, droplet.Name, host)
		if err := c.runner.Run(ctx, playbook, host, c.session.SSHUser(), c.session.SSHKey()); err != nil {
			return fmt.Errorf("run on %s: %w", droplet.Name, err)
		}
	}
	return nil
}

func (c *Console) handleAccount(ctx context.Context) error {
	manager, err := c.requireManager()
	if err != nil {
		return err
	}
	account, err := manager.Account(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, render.SingleRecord([]render.Field{
		{Key: "Email", Value: account.Email},
		{Key: "Status", Value: displayStatus(account.Status)},
		{Key: "Droplet limit", Value: strconv.Itoa(account.DropletLimit)},
		{Key: "UUID", Value: account.UUID},
	}, render.WithPreamble("Account")))
	return nil
}

func (c *Console) handleKeys(ctx context.Context) error {
	manager, err := c.requireManager()
	if err != nil {
		return err
	}
	keys, err := manager.ListKeys(ctx)
	if err != nil {
		return err
	}
	records := make([]render.Record, 0, len(keys))
	for _, key := range keys {
		records = append(records, render.Record{
			"id":          strconv.Itoa(key.ID),
			"name":        key.Name,
			"fingerprint": key.Fingerprint,
		})
	}
	out, err := render.Table([]render.Column{
		{Header: "ID", Field: "id"},
		{Header: "Name", Field: "name"},
		{Header: "Fingerprint", Field: "fingerprint"},
	}, records,
		render.WithPreamble("SSH keys"),
		emptyFooter(len(records), "No SSH keys registered."))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, out)
	return nil
}

func (c *Console) handleRegions(ctx context.Context) error {
	manager, err := c.requireManager()
	if err != nil {
		return err
	}
	regions, err := manager.ListRegions(ctx)
	if err != nil {
		return err
	}
	slugs := make([]string, 0, len(regions))
	for _, region := range regions {
		if region.Available {
			slugs = append(slugs, region.Slug)
		}
	}
	c.printSlugs("Regions", slugs)
	return nil
}

func (c *Console) handleSizes(ctx context.Context) error {
	manager, err := c.requireManager()
	if err != nil {
		return err
	}
	sizes, err := manager.ListSizes(ctx)
	if err != nil {
		return err
	}
	slugs := make([]string, 0, len(sizes))
	for _, size := range sizes {
		if size.Available {
			slugs = append(slugs, size.Slug)
		}
	}
	c.printSlugs("Sizes", slugs)
	return nil
}

func (c *Console) handleImages(ctx context.Context) error {
	manager, err := c.requireManager()
	if err != nil {
		return err
	}
	images, err := manager.ListImages(ctx)
	if err != nil {
		return err
	}
	slugs := make([]string, 0, len(images))
	for _, image := range images {
		if image.Slug != "" {
			slugs = append(slugs, image.Slug)
		}
	}
	c.printSlugs("Images", slugs)
	return nil
}

func (c *Console) printSlugs(title string, slugs []string) {
	if len(slugs) == 0 {
		fmt.Fprintf(c.out, "%s\n\nNone available.\n", title)
		return
	}
	fmt.Fprintf(c.out, "%s\n\n%s\n", title, render.Columns(slugs, 0))
}

// targetDroplets resolves the session target to the droplets a command
// should act on.
func (c *Console) targetDroplets() ([]godo.Droplet, error) {
	switch target := c.session.Target(); target.Kind {
	case session.TargetSingle:
		return []godo.Droplet{target.Droplet}, nil
	case session.TargetAll:
		droplets := c.session.Droplets()
		if len(droplets) == 0 {
			return nil, errors.New("no droplets cached; run 'droplets' first")
		}
		return droplets, nil
	default:
		return nil, errors.New("no target selected; run 'use <index>' or 'use all'")
	}
}

var statusTitler = cases.Title(language.English)

func displayStatus(status string) string {
	return statusTitler.String(strings.ToLower(strings.TrimSpace(status)))
}

// shortDate trims an RFC3339 timestamp to its date part.
func shortDate(value string) string {
	if len(value) >= 10 {
		return value[:10]
	}
	return value
}

func emptyFooter(count int, message string) render.Option {
	if count == 0 {
		return render.WithFooter(message)
	}
	return render.WithFooter()
}

func regionSlug(droplet godo.Droplet) string {
	if droplet.Region != nil {
		return droplet.Region.Slug
	}
	return ""
}
