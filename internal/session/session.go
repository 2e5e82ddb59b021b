package session

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/digitalocean/godo"
)

// TargetKind distinguishes the three target states.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetSingle
	TargetAll
)

// Target identifies which droplet(s) subsequent commands operate on.
// Droplet is meaningful only when Kind is TargetSingle.
type Target struct {
	Kind    TargetKind
	Droplet godo.Droplet
}

// Session is the per-console state passed explicitly to command handlers.
// It is not safe for concurrent use; the console processes one command at a
// time.
type Session struct {
	droplets       []godo.Droplet
	target         Target
	playbooks      []string
	activePlaybook string
	sshKey         string
	sshUser        string
}

// New creates a session with the given SSH settings.
func New(sshKey, sshUser string) *Session {
	return &Session{sshKey: sshKey, sshUser: sshUser}
}

// SetDroplets replaces the cached droplet list. A single-droplet target is
// re-resolved by ID against the new list so later commands see fresh status
// and addresses; if the droplet is gone the target resets to none.
func (s *Session) SetDroplets(droplets []godo.Droplet) {
	s.droplets = droplets
	if s.target.Kind != TargetSingle {
		return
	}
	for _, droplet := range droplets {
		if droplet.ID == s.target.Droplet.ID {
			s.target.Droplet = droplet
			return
		}
	}
	s.target = Target{}
}

// Droplets returns the cached droplet list from the last refresh.
func (s *Session) Droplets() []godo.Droplet {
	return s.droplets
}

// UseIndex targets the droplet at the given position in the cached list.
func (s *Session) UseIndex(index int) (godo.Droplet, error) {
	if index < 0 || index >= len(s.droplets) {
		return godo.Droplet{}, fmt.Errorf("droplet index %d out of range; run 'droplets' to list indices", index)
	}
	s.target = Target{Kind: TargetSingle, Droplet: s.droplets[index]}
	return s.target.Droplet, nil
}

// UseAll targets every droplet in the cached list.
func (s *Session) UseAll() error {
	if len(s.droplets) == 0 {
		return fmt.Errorf("no droplets cached; run 'droplets' first")
	}
	s.target = Target{Kind: TargetAll}
	return nil
}

// ClearTarget resets the target to none.
func (s *Session) ClearTarget() {
	s.target = Target{}
}

// Target returns the current target.
func (s *Session) Target() Target {
	return s.target
}

// PromptLabel returns the target text shown in the console prompt: the
// droplet name, "all", or "" when nothing is selected.
func (s *Session) PromptLabel() string {
	switch s.target.Kind {
	case TargetSingle:
		return s.target.Droplet.Name
	case TargetAll:
		return "all"
	default:
		return ""
	}
}

// SetPlaybooks replaces the cached playbook catalog. The active playbook is
// kept only if it is still present.
func (s *Session) SetPlaybooks(playbooks []string) {
	s.playbooks = playbooks
	if s.activePlaybook == "" {
		return
	}
	for _, playbook := range playbooks {
		if playbook == s.activePlaybook {
			return
		}
	}
	s.activePlaybook = ""
}

// Playbooks returns the cached playbook catalog.
func (s *Session) Playbooks() []string {
	return s.playbooks
}

// SetActivePlaybook selects the playbook at the given catalog index.
func (s *Session) SetActivePlaybook(index int) (string, error) {
	if index < 0 || index >= len(s.playbooks) {
		return "", fmt.Errorf("playbook index %d out of range; run 'playbooks' to list indices", index)
	}
	s.activePlaybook = s.playbooks[index]
	return s.activePlaybook, nil
}

// ActivePlaybook returns the selected playbook path, or "".
func (s *Session) ActivePlaybook() string {
	return s.activePlaybook
}

// ActivePlaybookName returns the selected playbook's base name, or "".
func (s *Session) ActivePlaybookName() string {
	if s.activePlaybook == "" {
		return ""
	}
	return filepath.Base(s.activePlaybook)
}

// SSHKey returns the private key path used for SSH and Ansible.
func (s *Session) SSHKey() string {
	return s.sshKey
}

// SetSSHKey replaces the private key path.
func (s *Session) SetSSHKey(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("ssh key path must not be empty")
	}
	s.sshKey = path
	return nil
}

// SSHUser returns the remote user for SSH and Ansible runs.
func (s *Session) SSHUser() string {
	return s.sshUser
}
