package digitalocean

import (
	"context"
	"time"

	"github.com/digitalocean/godo"
)

// StatusClient is the read-only API surface the provisioning wait needs.
type StatusClient interface {
	DropletActions(ctx context.Context, dropletID int) ([]godo.Action, error)
	ActionStatus(ctx context.Context, actionID int) (string, error)
	GetDroplet(ctx context.Context, id int) (*godo.Droplet, error)
}

// WaitOptions tunes the provisioning wait loop.
type WaitOptions struct {
	// Interval between status checks. Defaults to one second.
	Interval time.Duration
	// Progress receives one marker per status check: "." while waiting and
	// "!" when the creation action completes. May be nil.
	Progress func(marker string)
}

// WaitForDroplet blocks until the droplet's creation action reports
// "completed" and the droplet record exposes a public IPv4 address, then
// returns the refreshed record.
//
// The wait is deliberately unbounded: droplet provisioning has no useful
// upper latency bound, so there is no timeout and no backoff. Callers bound
// the wait through ctx. Any API read or authentication failure aborts the
// loop immediately; a partially provisioned droplet is not rolled back and
// remains the operator's responsibility.
func WaitForDroplet(ctx context.Context, client StatusClient, dropletID int, opts WaitOptions) (*godo.Droplet, error) {
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Second
	}
	emit := func(marker string) {
		if opts.Progress != nil {
			opts.Progress(marker)
		}
	}

	for completed := false; !completed; {
		actions, err := client.DropletActions(ctx, dropletID)
		if err != nil {
			return nil, err
		}
		if len(actions) == 0 {
			// Creation action not visible yet.
			emit(".")
			if err := sleep(ctx, interval); err != nil {
				return nil, err
			}
			continue
		}
		for _, action := range actions {
			status, err := client.ActionStatus(ctx, action.ID)
			if err != nil {
				return nil, err
			}
			if status == godo.ActionCompleted {
				emit("!")
				completed = true
				break
			}
			emit(".")
			if err := sleep(ctx, interval); err != nil {
				return nil, err
			}
		}
	}

	for {
		droplet, err := client.GetDroplet(ctx, dropletID)
		if err != nil {
			return nil, err
		}
		if PublicIP(droplet) != "" {
			return droplet, nil
		}
		if err := sleep(ctx, interval); err != nil {
			return nil, err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
