package composer

import (
	"context"

	"github.com/JosCraft/sisfarm-go/internal/api"
	"github.com/JosCraft/sisfarm-go/internal/dispatch"
)

// APIBackend commits composed transactions through the mutation
// dispatcher so the dependent cache keys are invalidated on success.
type APIBackend struct {
	client     *api.Client
	dispatcher *dispatch.Dispatcher
}

// NewAPIBackend constructs an APIBackend.
func NewAPIBackend(client *api.Client, dispatcher *dispatch.Dispatcher) *APIBackend {
	return &APIBackend{client: client, dispatcher: dispatcher}
}

// CreateCustomer implements SaleBackend.
func (b *APIBackend) CreateCustomer(ctx context.Context, req api.CreateCustomerRequest) (*api.Customer, error) {
	return dispatch.Do(ctx, b.dispatcher, dispatch.CreateCustomer, func(ctx context.Context) (*api.Customer, error) {
		return b.client.CreateCustomer(ctx, req)
	})
}

// CreateSale implements SaleBackend.
func (b *APIBackend) CreateSale(ctx context.Context, req api.CreateSaleRequest) (*api.Sale, error) {
	return dispatch.Do(ctx, b.dispatcher, dispatch.CreateSale, func(ctx context.Context) (*api.Sale, error) {
		return b.client.CreateSale(ctx, req)
	})
}

// CreatePurchase implements PurchaseBackend.
func (b *APIBackend) CreatePurchase(ctx context.Context, req api.CreatePurchaseRequest) (*api.Purchase, error) {
	return dispatch.Do(ctx, b.dispatcher, dispatch.CreatePurchase, func(ctx context.Context) (*api.Purchase, error) {
		return b.client.CreatePurchase(ctx, req)
	})
}
