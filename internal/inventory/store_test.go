package inventory_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/josephberger/doconsole/internal/inventory"
)

func openStore(t *testing.T) *inventory.Store {
	t.Helper()
	store, err := inventory.Open(filepath.Join(t.TempDir(), "inventory.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestReplaceAllRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	snapshots := []inventory.Snapshot{
		{ID: 2, Name: "web-1", Status: "active", PublicIP: "203.0.113.10", Region: "nyc1", Size: "s-1vcpu-1gb", Tags: []string{"web", "prod"}, Created: "2026-08-01T12:00:00Z"},
		{ID: 1, Name: "db-1", Status: "off", Region: "nyc3", Size: "s-2vcpu-4gb"},
	}
	if err := store.ReplaceAll(ctx, snapshots); err != nil {
		t.Fatalf("ReplaceAll returned error: %v", err)
	}

	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected two snapshots, got %d", len(got))
	}
	// Ordered by name.
	if got[0].Name != "db-1" || got[1].Name != "web-1" {
		t.Fatalf("unexpected order: %q, %q", got[0].Name, got[1].Name)
	}
	if got[1].PublicIP != "203.0.113.10" {
		t.Fatalf("unexpected address %q", got[1].PublicIP)
	}
	if len(got[1].Tags) != 2 || got[1].Tags[0] != "web" {
		t.Fatalf("unexpected tags %v", got[1].Tags)
	}
	if got[0].SeenAt.IsZero() || time.Since(got[0].SeenAt) > time.Minute {
		t.Fatalf("expected fresh seen_at, got %v", got[0].SeenAt)
	}
}

func TestReplaceAllRemovesStaleRows(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.ReplaceAll(ctx, []inventory.Snapshot{{ID: 1, Name: "old", Status: "active"}}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if err := store.ReplaceAll(ctx, []inventory.Snapshot{{ID: 2, Name: "new", Status: "active"}}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "new" {
		t.Fatalf("stale rows survived: %+v", got)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := inventory.Open("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

func TestCloseThenReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.db")
	store, err := inventory.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.ReplaceAll(context.Background(), []inventory.Snapshot{{ID: 1, Name: "web", Status: "new"}}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := inventory.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Name != "web" {
		t.Fatalf("snapshots lost across reopen: %+v", got)
	}
}
