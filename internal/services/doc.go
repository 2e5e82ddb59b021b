// Package services defines the shared error taxonomy for external
// integrations (the DigitalOcean API, ansible-playbook, ssh).
//
// Errors are tagged with sentinel markers via Wrap so callers can classify a
// failure with errors.Is without parsing message text. None of the wrappers
// attempt recovery; retry and cleanup policy belongs to the caller.
package services
