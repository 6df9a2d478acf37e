package api

import (
	"context"
	"fmt"
)

// Login authenticates an operator and returns the bearer token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.post(ctx, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsersPage returns one page of operator accounts.
func (c *Client) ListUsersPage(ctx context.Context, page, pageSize int) (*Paginated[User], error) {
	var out Paginated[User]
	if err := c.get(ctx, "/users", pageQuery(page, pageSize), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser registers an operator account.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	var out User
	if err := c.post(ctx, "/users", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser edits an operator account.
func (c *Client) UpdateUser(ctx context.Context, req UpdateUserRequest) (*User, error) {
	var out User
	if err := c.put(ctx, fmt.Sprintf("/users/%d", req.ID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUserRole reassigns an operator's role.
func (c *Client) UpdateUserRole(ctx context.Context, userID, roleID int64) (*User, error) {
	var out User
	if err := c.put(ctx, fmt.Sprintf("/users/%d/role/%d", userID, roleID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes an operator account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/users/%d", id))
}
