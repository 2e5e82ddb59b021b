package digitalocean_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/digitalocean/godo"

	"github.com/josephberger/doconsole/internal/services/digitalocean"
)

type fakeStatusClient struct {
	statuses    []string
	statusCalls int
	getCalls    int
	droplet     *godo.Droplet
	readyAfter  int
	actionsErr  error
}

func (f *fakeStatusClient) DropletActions(ctx context.Context, dropletID int) ([]godo.Action, error) {
	if f.actionsErr != nil {
		return nil, f.actionsErr
	}
	return []godo.Action{{ID: 42, Type: "create"}}, nil
}

func (f *fakeStatusClient) ActionStatus(ctx context.Context, actionID int) (string, error) {
	if f.statusCalls >= len(f.statuses) {
		return godo.ActionCompleted, nil
	}
	status := f.statuses[f.statusCalls]
	f.statusCalls++
	return status, nil
}

func (f *fakeStatusClient) GetDroplet(ctx context.Context, id int) (*godo.Droplet, error) {
	f.getCalls++
	if f.getCalls < f.readyAfter {
		return &godo.Droplet{ID: id, Status: "new"}, nil
	}
	return f.droplet, nil
}

func activeDroplet() *godo.Droplet {
	return &godo.Droplet{
		ID:     7,
		Name:   "web-1",
		Status: "active",
		Networks: &godo.Networks{
			V4: []godo.NetworkV4{{IPAddress: "203.0.113.10", Type: "public"}},
		},
	}
}

func TestWaitForDropletStopsOnCompleted(t *testing.T) {
	client := &fakeStatusClient{
		statuses: []string{godo.ActionInProgress, godo.ActionInProgress, godo.ActionCompleted},
		droplet:  activeDroplet(),
	}

	var markers strings.Builder
	droplet, err := digitalocean.WaitForDroplet(context.Background(), client, 7, digitalocean.WaitOptions{
		Interval: time.Millisecond,
		Progress: func(marker string) { markers.WriteString(marker) },
	})
	if err != nil {
		t.Fatalf("WaitForDroplet returned error: %v", err)
	}

	if client.statusCalls != 3 {
		t.Fatalf("expected three status checks, got %d", client.statusCalls)
	}
	if markers.String() != "..!" {
		t.Fatalf("unexpected progress markers: %q", markers.String())
	}
	// Once the action completes, exactly one refresh finds the address.
	if client.getCalls != 1 {
		t.Fatalf("expected one droplet refresh, got %d", client.getCalls)
	}
	if droplet.Name != "web-1" {
		t.Fatalf("unexpected droplet: %+v", droplet)
	}
}

func TestWaitForDropletRefreshesUntilAddress(t *testing.T) {
	client := &fakeStatusClient{
		statuses:   []string{godo.ActionCompleted},
		droplet:    activeDroplet(),
		readyAfter: 3,
	}

	droplet, err := digitalocean.WaitForDroplet(context.Background(), client, 7, digitalocean.WaitOptions{Interval: time.Millisecond})
	if err != nil {
		t.Fatalf("WaitForDroplet returned error: %v", err)
	}
	if client.getCalls != 3 {
		t.Fatalf("expected three refreshes before the address appeared, got %d", client.getCalls)
	}
	if digitalocean.PublicIP(droplet) != "203.0.113.10" {
		t.Fatalf("expected droplet with address, got %+v", droplet)
	}
}

func TestWaitForDropletSurfacesReadErrors(t *testing.T) {
	readErr := errors.New("read failed")
	client := &fakeStatusClient{actionsErr: readErr, droplet: activeDroplet()}

	if _, err := digitalocean.WaitForDroplet(context.Background(), client, 7, digitalocean.WaitOptions{Interval: time.Millisecond}); !errors.Is(err, readErr) {
		t.Fatalf("expected read error surfaced unmodified, got %v", err)
	}
}

func TestWaitForDropletHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &fakeStatusClient{
		statuses: []string{godo.ActionInProgress, godo.ActionInProgress, godo.ActionInProgress},
		droplet:  &godo.Droplet{ID: 7},
	}

	checks := 0
	_, err := digitalocean.WaitForDroplet(ctx, client, 7, digitalocean.WaitOptions{
		Interval: time.Millisecond,
		Progress: func(string) {
			checks++
			if checks == 2 {
				cancel()
			}
		},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
