// Package console implements the interactive droplet management shell.
//
// The console reads one command per line, dispatches it to a handler, and
// prints the result. Handlers share a session holding the cached droplet
// list, the current target, and the playbook catalog. Commands that reach
// the DigitalOcean API go through the services/digitalocean manager; SSH and
// Ansible hand the terminal to the child process until it exits.
package console
