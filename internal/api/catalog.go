package api

import "context"

// ListCategories returns all product categories.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.get(ctx, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPresentations returns all product presentations.
func (c *Client) ListPresentations(ctx context.Context) ([]Presentation, error) {
	var out []Presentation
	if err := c.get(ctx, "/presentations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRoles returns all user roles.
func (c *Client) ListRoles(ctx context.Context) ([]Role, error) {
	var out []Role
	if err := c.get(ctx, "/roles", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
