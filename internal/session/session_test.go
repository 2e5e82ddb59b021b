package session_test

import (
	"testing"

	"github.com/digitalocean/godo"

	"github.com/josephberger/doconsole/internal/session"
)

func droplets() []godo.Droplet {
	return []godo.Droplet{
		{ID: 1, Name: "web-1", Status: "active"},
		{ID: 2, Name: "db-1", Status: "active"},
	}
}

func TestUseIndexSelectsSingleTarget(t *testing.T) {
	s := session.New("~/.ssh/id_rsa", "root")
	s.SetDroplets(droplets())

	selected, err := s.UseIndex(1)
	if err != nil {
		t.Fatalf("UseIndex returned error: %v", err)
	}
	if selected.Name != "db-1" {
		t.Fatalf("unexpected selection: %+v", selected)
	}
	if target := s.Target(); target.Kind != session.TargetSingle || target.Droplet.ID != 2 {
		t.Fatalf("unexpected target: %+v", target)
	}
	if s.PromptLabel() != "db-1" {
		t.Fatalf("unexpected prompt label %q", s.PromptLabel())
	}
}

func TestUseIndexOutOfRange(t *testing.T) {
	s := session.New("", "root")
	s.SetDroplets(droplets())

	if _, err := s.UseIndex(5); err == nil {
		t.Fatal("expected error for out-of-range index")
	}
	if s.Target().Kind != session.TargetNone {
		t.Fatal("failed selection must not change the target")
	}
}

func TestUseAllRequiresCachedDroplets(t *testing.T) {
	s := session.New("", "root")
	if err := s.UseAll(); err == nil {
		t.Fatal("expected error with empty cache")
	}

	s.SetDroplets(droplets())
	if err := s.UseAll(); err != nil {
		t.Fatalf("UseAll returned error: %v", err)
	}
	if s.PromptLabel() != "all" {
		t.Fatalf("unexpected prompt label %q", s.PromptLabel())
	}
}

func TestSetDropletsRefreshesSingleTarget(t *testing.T) {
	s := session.New("", "root")
	s.SetDroplets(droplets())
	if _, err := s.UseIndex(0); err != nil {
		t.Fatalf("UseIndex: %v", err)
	}

	refreshed := droplets()
	refreshed[0].Status = "off"
	s.SetDroplets(refreshed)

	if got := s.Target().Droplet.Status; got != "off" {
		t.Fatalf("target not refreshed: status %q", got)
	}
}

func TestSetDropletsClearsVanishedTarget(t *testing.T) {
	s := session.New("", "root")
	s.SetDroplets(droplets())
	if _, err := s.UseIndex(0); err != nil {
		t.Fatalf("UseIndex: %v", err)
	}

	s.SetDroplets([]godo.Droplet{{ID: 2, Name: "db-1"}})

	if s.Target().Kind != session.TargetNone {
		t.Fatalf("expected target cleared, got %+v", s.Target())
	}
}

func TestSetPlaybooksDropsStaleActiveSelection(t *testing.T) {
	s := session.New("", "root")
	s.SetPlaybooks([]string{"/pb/web.yml", "/pb/db.yml"})
	if _, err := s.SetActivePlaybook(1); err != nil {
		t.Fatalf("SetActivePlaybook: %v", err)
	}
	if s.ActivePlaybookName() != "db.yml" {
		t.Fatalf("unexpected active playbook %q", s.ActivePlaybookName())
	}

	s.SetPlaybooks([]string{"/pb/web.yml"})
	if s.ActivePlaybook() != "" {
		t.Fatalf("expected active playbook cleared, got %q", s.ActivePlaybook())
	}
}

func TestSetSSHKeyRejectsEmpty(t *testing.T) {
	s := session.New("initial", "root")
	if err := s.SetSSHKey("  "); err == nil {
		t.Fatal("expected error for blank key path")
	}
	if s.SSHKey() != "initial" {
		t.Fatalf("key changed on failed set: %q", s.SSHKey())
	}
}
