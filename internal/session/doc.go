// Package session holds the mutable console state threaded through command
// handlers: the cached droplet list, the selected target, the playbook
// catalog, and SSH settings.
//
// The target is a tagged variant (none, a single droplet, or all droplets)
// rather than an overloaded field. It is cleared whenever the droplet it
// references disappears from a refreshed listing or is destroyed.
package session
