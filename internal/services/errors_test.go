package services_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/josephberger/doconsole/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("boom")
	err := services.Wrap(services.ErrAuth, "digitalocean", "list droplets", "", cause)

	if !errors.Is(err, services.ErrAuth) {
		t.Fatalf("expected ErrAuth marker, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "digitalocean: list droplets") {
		t.Fatalf("missing context detail: %v", err)
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "ssh", "connect", "no address", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected ErrTransient fallback, got %v", err)
	}
}
