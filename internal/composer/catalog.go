package composer

import (
	"github.com/shopspring/decimal"

	"github.com/JosCraft/sisfarm-go/internal/api"
)

// Catalog is a point-in-time product index the composers consult for
// price auto-fill and product existence checks. It holds copies; line
// edits never touch the cached products behind it.
type Catalog struct {
	byID map[int64]api.Product
}

// NewCatalog indexes a product snapshot.
func NewCatalog(products []api.Product) *Catalog {
	byID := make(map[int64]api.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Catalog{byID: byID}
}

// Product returns the product with the given id.
func (c *Catalog) Product(id int64) (api.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Price implements ledger.PriceLookup.
func (c *Catalog) Price(id int64) (decimal.Decimal, bool) {
	p, ok := c.byID[id]
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(p.Price), true
}
