// Package sshell starts interactive SSH sessions to droplet addresses.
package sshell
