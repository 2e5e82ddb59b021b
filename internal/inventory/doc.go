// Package inventory persists droplet snapshots in SQLite so the console can
// show last-known state without hitting the API.
//
// Snapshots are written wholesale on every refresh; the store is a cache, not
// a source of truth. A file lock guards the database against a second
// console instance writing concurrently.
package inventory
