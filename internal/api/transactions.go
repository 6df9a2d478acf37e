package api

import "context"

// CreateSale commits a composed sale against an existing customer.
func (c *Client) CreateSale(ctx context.Context, req CreateSaleRequest) (*Sale, error) {
	var out Sale
	if err := c.post(ctx, "/sale-products", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSalesPage returns one page of committed sales.
func (c *Client) ListSalesPage(ctx context.Context, page, pageSize int) (*Paginated[Sale], error) {
	var out Paginated[Sale]
	if err := c.get(ctx, "/sale-products", pageQuery(page, pageSize), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePurchase commits a composed purchase.
func (c *Client) CreatePurchase(ctx context.Context, req CreatePurchaseRequest) (*Purchase, error) {
	var out Purchase
	if err := c.post(ctx, "/purchase-products", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPurchasesPage returns one page of committed purchases.
func (c *Client) ListPurchasesPage(ctx context.Context, page, pageSize int) (*Paginated[Purchase], error) {
	var out Paginated[Purchase]
	if err := c.get(ctx, "/purchase-products", pageQuery(page, pageSize), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
