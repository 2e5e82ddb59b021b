// Package config loads, normalizes, and validates doconsole configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// DO_API_TOKEN. The Config type centralizes every knob the console needs, so
// downstream code receives sanitized paths and clear validation errors.
package config
