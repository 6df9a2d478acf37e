package api

import (
	"context"
	"fmt"
)

// ListCustomersPage returns one page of customers.
func (c *Client) ListCustomersPage(ctx context.Context, page, pageSize int) (*Paginated[Customer], error) {
	var out Paginated[Customer]
	if err := c.get(ctx, "/customers", pageQuery(page, pageSize), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCustomer registers a sale counterparty and returns it with its
// generated id.
func (c *Client) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	var out Customer
	if err := c.post(ctx, "/customers", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProviders returns all providers.
func (c *Client) ListProviders(ctx context.Context) ([]Provider, error) {
	var providers []Provider
	if err := c.get(ctx, "/providers", nil, &providers); err != nil {
		return nil, err
	}
	return providers, nil
}

// ListProvidersPage returns one page of providers.
func (c *Client) ListProvidersPage(ctx context.Context, page, pageSize int) (*Paginated[Provider], error) {
	var out Paginated[Provider]
	if err := c.get(ctx, "/providers/paginate", pageQuery(page, pageSize), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProvider registers a purchase counterparty.
func (c *Client) CreateProvider(ctx context.Context, req CreateProviderRequest) (*Provider, error) {
	var out Provider
	if err := c.post(ctx, "/providers", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProvider edits a provider.
func (c *Client) UpdateProvider(ctx context.Context, req UpdateProviderRequest) (*Provider, error) {
	var out Provider
	if err := c.put(ctx, fmt.Sprintf("/providers/%d", req.ID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProvider removes a provider.
func (c *Client) DeleteProvider(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/providers/%d", id))
}
