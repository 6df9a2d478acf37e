// Package dispatch executes remote mutations and keeps the entity
// cache coherent. Invalidation rules live in one declarative table
// instead of being repeated at call sites.
package dispatch

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JosCraft/sisfarm-go/internal/api"
	"github.com/JosCraft/sisfarm-go/internal/cache"
)

// Kind identifies a mutation for invalidation purposes.
type Kind string

// Mutation kinds.
const (
	CreateCustomer Kind = "customer.create"
	CreateSale     Kind = "sale.create"
	CreatePurchase Kind = "purchase.create"

	CreateProduct Kind = "product.create"
	UpdateProduct Kind = "product.update"
	DeleteProduct Kind = "product.delete"
	AddStock      Kind = "product.add-stock"

	CreateProvider Kind = "provider.create"
	UpdateProvider Kind = "provider.update"
	DeleteProvider Kind = "provider.delete"

	CreateUser     Kind = "user.create"
	UpdateUser     Kind = "user.update"
	UpdateUserRole Kind = "user.update-role"
	DeleteUser     Kind = "user.delete"
)

// invalidations maps each mutation kind to the cache keys it dirties.
// A trailing "*" marks every key with that prefix. Committed sales and
// purchases move stock, so they dirty the product collections too.
var invalidations = map[Kind][]string{
	CreateCustomer: {cache.PrefixCustomersPage + "*"},
	CreateSale:     {cache.PrefixSalesPage + "*", cache.KeyProducts, cache.PrefixProductsPage + "*"},
	CreatePurchase: {cache.PrefixPurchasesPage + "*", cache.KeyProducts, cache.PrefixProductsPage + "*"},

	CreateProduct: {cache.KeyProducts, cache.PrefixProductsPage + "*"},
	UpdateProduct: {cache.KeyProducts, cache.PrefixProductsPage + "*"},
	DeleteProduct: {cache.KeyProducts, cache.PrefixProductsPage + "*"},
	AddStock:      {cache.KeyProducts, cache.PrefixProductsPage + "*"},

	CreateProvider: {cache.KeyProviders, cache.PrefixProvidersPage + "*"},
	UpdateProvider: {cache.KeyProviders, cache.PrefixProvidersPage + "*"},
	DeleteProvider: {cache.KeyProviders, cache.PrefixProvidersPage + "*"},

	CreateUser:     {cache.PrefixUsersPage + "*"},
	UpdateUser:     {cache.PrefixUsersPage + "*"},
	UpdateUserRole: {cache.PrefixUsersPage + "*"},
	DeleteUser:     {cache.PrefixUsersPage + "*"},
}

// KeysFor returns the cache keys a successful mutation of this kind
// invalidates.
func KeysFor(kind Kind) []string {
	return invalidations[kind]
}

// Dispatcher runs mutations fire-once: no retries, and cache keys are
// invalidated exactly once per success, never on failure.
type Dispatcher struct {
	cache  *cache.Cache
	logger *slog.Logger
}

// New constructs a Dispatcher.
func New(c *cache.Cache, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{cache: c, logger: logger}
}

// Do executes one mutation. Each call is tagged with a fresh request id
// the API client forwards as X-Request-ID. On failure the error is
// returned untouched for the caller to present; the cache is left
// alone.
func Do[T any](ctx context.Context, d *Dispatcher, kind Kind, call func(context.Context) (T, error)) (T, error) {
	requestID := uuid.NewString()
	ctx = api.WithRequestID(ctx, requestID)

	out, err := call(ctx)
	if err != nil {
		d.logger.Warn("mutation failed",
			slog.String("kind", string(kind)),
			slog.String("request_id", requestID),
			slog.Any("error", err))
		return out, err
	}

	if keys := KeysFor(kind); len(keys) > 0 {
		d.cache.Invalidate(ctx, keys...)
	}
	d.logger.Info("mutation committed",
		slog.String("kind", string(kind)),
		slog.String("request_id", requestID))
	return out, nil
}
