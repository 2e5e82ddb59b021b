// Package digitalocean wraps the godo API client behind the narrow surface
// the console needs: droplet CRUD, account and SSH key lookups, catalog
// listings, tagging, and the wait-until-ready provisioning loop.
//
// Every call is synchronous and carries a context.Context; the package adds
// no retries or caching of its own. API failures are tagged with the
// sentinel markers from the services package (ErrAuth for 401/403,
// ErrNotFound for 404, ErrTransient otherwise).
package digitalocean
