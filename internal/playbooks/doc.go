// Package playbooks discovers Ansible playbooks on disk and runs
// ansible-playbook against a single droplet address.
//
// Runs are synchronous: the console blocks until ansible-playbook exits.
// There is no timeout; an operator interrupts the process externally.
package playbooks
