package digitalocean

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/digitalocean/godo"

	"github.com/josephberger/doconsole/internal/services"
)

const listPageSize = 200

// CreateRequest carries the droplet creation parameters the console exposes.
// Every SSH key registered on the account is installed on the new droplet.
type CreateRequest struct {
	Name    string
	Region  string
	Size    string
	Image   string
	Backups bool
	Tags    []string
}

// Manager defines the DigitalOcean operations used by the console.
type Manager interface {
	Account(ctx context.Context) (*godo.Account, error)
	ListDroplets(ctx context.Context) ([]godo.Droplet, error)
	GetDroplet(ctx context.Context, id int) (*godo.Droplet, error)
	CreateDroplet(ctx context.Context, req CreateRequest) (*godo.Droplet, error)
	DeleteDroplet(ctx context.Context, id int) error
	DropletActions(ctx context.Context, dropletID int) ([]godo.Action, error)
	ActionStatus(ctx context.Context, actionID int) (string, error)
	ListKeys(ctx context.Context) ([]godo.Key, error)
	ListRegions(ctx context.Context) ([]godo.Region, error)
	ListSizes(ctx context.Context) ([]godo.Size, error)
	ListImages(ctx context.Context) ([]godo.Image, error)
	TagDroplet(ctx context.Context, dropletID int, tag string) error
	UntagDroplet(ctx context.Context, dropletID int, tag string) error
}

// Client implements Manager on top of godo.
type Client struct {
	api *godo.Client
}

var _ Manager = (*Client)(nil)

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL points the client at an alternate API endpoint (tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed == "" {
			return nil
		}
		if !strings.HasSuffix(trimmed, "/") {
			trimmed += "/"
		}
		parsed, err := url.Parse(trimmed)
		if err != nil {
			return services.Wrap(services.ErrConfiguration, "digitalocean", "new", "invalid base url", err)
		}
		c.api.BaseURL = parsed
		return nil
	}
}

// New creates a DigitalOcean client for the given API token.
func New(token string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, services.Wrap(services.ErrConfiguration, "digitalocean", "new", "api token required", nil)
	}
	client := &Client{api: godo.NewFromToken(token)}
	for _, opt := range opts {
		if err := opt(client); err != nil {
			return nil, err
		}
	}
	return client, nil
}

// Account fetches the account record for the authenticated token.
func (c *Client) Account(ctx context.Context) (*godo.Account, error) {
	account, _, err := c.api.Account.Get(ctx)
	if err != nil {
		return nil, wrapAPIError("get account", err)
	}
	return account, nil
}

// ListDroplets returns every droplet on the account, following pagination.
func (c *Client) ListDroplets(ctx context.Context) ([]godo.Droplet, error) {
	opt := &godo.ListOptions{PerPage: listPageSize}
	var all []godo.Droplet
	for {
		droplets, resp, err := c.api.Droplets.List(ctx, opt)
		if err != nil {
			return nil, wrapAPIError("list droplets", err)
		}
		all = append(all, droplets...)
		if resp.Links == nil || resp.Links.IsLastPage() {
			return all, nil
		}
		page, err := resp.Links.CurrentPage()
		if err != nil {
			return nil, wrapAPIError("list droplets", err)
		}
		opt.Page = page + 1
	}
}

// GetDroplet refreshes a single droplet record.
func (c *Client) GetDroplet(ctx context.Context, id int) (*godo.Droplet, error) {
	droplet, _, err := c.api.Droplets.Get(ctx, id)
	if err != nil {
		return nil, wrapAPIError("get droplet", err)
	}
	return droplet, nil
}

// CreateDroplet provisions a new droplet with the account's SSH keys
// installed. The returned record is the immediate API response; callers that
// need a usable address should follow up with WaitForDroplet.
func (c *Client) CreateDroplet(ctx context.Context, req CreateRequest) (*godo.Droplet, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, services.Wrap(services.ErrConfiguration, "digitalocean", "create droplet", "droplet name required", nil)
	}

	keys, err := c.ListKeys(ctx)
	if err != nil {
		return nil, err
	}
	sshKeys := make([]godo.DropletCreateSSHKey, 0, len(keys))
	for _, key := range keys {
		sshKeys = append(sshKeys, godo.DropletCreateSSHKey{ID: key.ID})
	}

	droplet, _, err := c.api.Droplets.Create(ctx, &godo.DropletCreateRequest{
		Name:    name,
		Region:  req.Region,
		Size:    req.Size,
		Image:   godo.DropletCreateImage{Slug: req.Image},
		SSHKeys: sshKeys,
		Backups: req.Backups,
		Tags:    req.Tags,
	})
	if err != nil {
		return nil, wrapAPIError("create droplet", err)
	}
	return droplet, nil
}

// DeleteDroplet destroys a droplet. The API call is not reversible.
func (c *Client) DeleteDroplet(ctx context.Context, id int) error {
	if _, err := c.api.Droplets.Delete(ctx, id); err != nil {
		return wrapAPIError("delete droplet", err)
	}
	return nil
}

// DropletActions lists the in-flight and historical actions for a droplet.
func (c *Client) DropletActions(ctx context.Context, dropletID int) ([]godo.Action, error) {
	actions, _, err := c.api.Droplets.Actions(ctx, dropletID, &godo.ListOptions{PerPage: listPageSize})
	if err != nil {
		return nil, wrapAPIError("list droplet actions", err)
	}
	return actions, nil
}

// ActionStatus refreshes a single action and returns its current status.
func (c *Client) ActionStatus(ctx context.Context, actionID int) (string, error) {
	action, _, err := c.api.Actions.Get(ctx, actionID)
	if err != nil {
		return "", wrapAPIError("get action", err)
	}
	return action.Status, nil
}

// ListKeys returns the SSH keys registered on the account.
func (c *Client) ListKeys(ctx context.Context) ([]godo.Key, error) {
	keys, _, err := c.api.Keys.List(ctx, &godo.ListOptions{PerPage: listPageSize})
	if err != nil {
		return nil, wrapAPIError("list ssh keys", err)
	}
	return keys, nil
}

// ListRegions returns the available datacenter regions.
func (c *Client) ListRegions(ctx context.Context) ([]godo.Region, error) {
	regions, _, err := c.api.Regions.List(ctx, &godo.ListOptions{PerPage: listPageSize})
	if err != nil {
		return nil, wrapAPIError("list regions", err)
	}
	return regions, nil
}

// ListSizes returns the available droplet size slugs.
func (c *Client) ListSizes(ctx context.Context) ([]godo.Size, error) {
	sizes, _, err := c.api.Sizes.List(ctx, &godo.ListOptions{PerPage: listPageSize})
	if err != nil {
		return nil, wrapAPIError("list sizes", err)
	}
	return sizes, nil
}

// ListImages returns the public distribution images.
func (c *Client) ListImages(ctx context.Context) ([]godo.Image, error) {
	images, _, err := c.api.Images.ListDistribution(ctx, &godo.ListOptions{PerPage: listPageSize})
	if err != nil {
		return nil, wrapAPIError("list images", err)
	}
	return images, nil
}

// TagDroplet applies a tag to a droplet, creating the tag if needed.
func (c *Client) TagDroplet(ctx context.Context, dropletID int, tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return services.Wrap(services.ErrConfiguration, "digitalocean", "tag droplet", "tag name required", nil)
	}
	// Creating an existing tag returns 422; that just means it already exists.
	if _, _, err := c.api.Tags.Create(ctx, &godo.TagCreateRequest{Name: tag}); err != nil && !isStatus(err, http.StatusUnprocessableEntity) {
		return wrapAPIError("create tag", err)
	}
	req := &godo.TagResourcesRequest{
		Resources: []godo.Resource{{ID: strconv.Itoa(dropletID), Type: godo.DropletResourceType}},
	}
	if _, err := c.api.Tags.TagResources(ctx, tag, req); err != nil {
		return wrapAPIError("tag droplet", err)
	}
	return nil
}

// UntagDroplet removes a tag from a droplet.
func (c *Client) UntagDroplet(ctx context.Context, dropletID int, tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return services.Wrap(services.ErrConfiguration, "digitalocean", "untag droplet", "tag name required", nil)
	}
	req := &godo.UntagResourcesRequest{
		Resources: []godo.Resource{{ID: strconv.Itoa(dropletID), Type: godo.DropletResourceType}},
	}
	if _, err := c.api.Tags.UntagResources(ctx, tag, req); err != nil {
		return wrapAPIError("untag droplet", err)
	}
	return nil
}

// PublicIP extracts a droplet's public IPv4 address, or "" when none is
// assigned yet.
func PublicIP(droplet *godo.Droplet) string {
	if droplet == nil {
		return ""
	}
	ip, err := droplet.PublicIPv4()
	if err != nil {
		return ""
	}
	return ip
}

func wrapAPIError(operation string, err error) error {
	var apiErr *godo.ErrorResponse
	if errors.As(err, &apiErr) && apiErr.Response != nil {
		switch apiErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return services.Wrap(services.ErrAuth, "digitalocean", operation, "", err)
		case http.StatusNotFound:
			return services.Wrap(services.ErrNotFound, "digitalocean", operation, "", err)
		}
	}
	return services.Wrap(services.ErrTransient, "digitalocean", operation, "", err)
}

func isStatus(err error, status int) bool {
	var apiErr *godo.ErrorResponse
	return errors.As(err, &apiErr) && apiErr.Response != nil && apiErr.Response.StatusCode == status
}
