// Package main hosts the doconsole CLI entrypoint and command graph.
//
// Running the binary with no subcommand starts the interactive console; the
// subcommands expose the same droplet operations for one-shot scripted use.
// This package resolves configuration, builds the DigitalOcean client, and
// wires logging; the actual behavior lives in the internal packages.
package main
