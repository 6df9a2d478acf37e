package api

import (
	"context"
	"fmt"
)

// ListProducts returns the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.get(ctx, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListProductsPage returns one catalog page.
func (c *Client) ListProductsPage(ctx context.Context, page, pageSize int) (*Paginated[Product], error) {
	var out Paginated[Product]
	if err := c.get(ctx, "/products/paginate", pageQuery(page, pageSize), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct adds a catalog entry.
func (c *Client) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	var out Product
	if err := c.post(ctx, "/products", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct edits a catalog entry.
func (c *Client) UpdateProduct(ctx context.Context, req UpdateProductRequest) (*Product, error) {
	var out Product
	if err := c.put(ctx, fmt.Sprintf("/products/%d", req.ID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct removes a catalog entry.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/products/%d", id))
}

// AddStock increments a product's stock outside the purchase flow.
func (c *Client) AddStock(ctx context.Context, productID int64, quantity int) (*Product, error) {
	var out Product
	body := map[string]int{"quantity": quantity}
	if err := c.post(ctx, fmt.Sprintf("/products/%d/stock", productID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
