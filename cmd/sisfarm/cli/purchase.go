package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JosCraft/sisfarm-go/internal/api"
	"github.com/JosCraft/sisfarm-go/internal/cache"
	"github.com/JosCraft/sisfarm-go/internal/composer"
)

// lotEditor routes the purchase-only line commands to the composer.
type lotEditor struct {
	c *composer.PurchaseComposer
}

func (l *lotEditor) apply(a *App, fields []string) {
	if len(fields) != 3 {
		fmt.Fprintf(a.out, "usage: %s <line> <value>\n", fields[0])
		return
	}
	index, err := strconv.Atoi(fields[1])
	if err != nil || index < 0 {
		fmt.Fprintf(a.out, "usage: %s <line> <value>\n", fields[0])
		return
	}
	switch fields[0] {
	case "date":
		date, err := time.Parse("2006-01-02", fields[2])
		if err != nil {
			fmt.Fprintln(a.out, "date must be yyyy-mm-dd")
			return
		}
		l.c.SetExpiration(index, date)
	case "batch":
		l.c.SetBatchCode(index, fields[2])
	}
}

// Purchase drives the purchase composer interactively. The provider is
// chosen from the existing list; there is no counterparty creation.
func (a *App) Purchase(ctx context.Context) error {
	catalog, products, err := a.loadCatalog(ctx)
	if err != nil {
		return err
	}
	providers, err := cache.Fetch(ctx, a.cache, cache.KeyProviders, a.client.ListProviders)
	if err != nil {
		a.reportAPIError(err)
		return err
	}
	if len(providers) == 0 {
		return errors.New("no providers registered; create one first")
	}

	backend := composer.NewAPIBackend(a.client, a.dispatcher)
	c := composer.NewPurchase(backend, catalog)

	a.printCatalog(products)
	fmt.Fprintln(a.out, "providers:")
	for _, p := range providers {
		fmt.Fprintf(a.out, "  %3d  %s\n", p.ID, p.Name)
	}

	providerID, err := strconv.ParseInt(a.prompt("provider id"), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid provider id: %w", err)
	}
	c.SetProvider(providerID)

	payment := a.prompt("payment type [efectivo|tarjeta|transferencia|credito] (default efectivo)")
	if payment != "" {
		if err := c.SetPayment(composer.PurchasePayment(payment)); err != nil {
			return err
		}
	}

	lots := &lotEditor{c: c}
	for {
		if err := a.editLines(c, true, lots); err != nil {
			return err
		}

		total, _ := c.Total().Float64()
		fmt.Fprintf(a.out, "purchase total: %s\n", a.money(total))
		if !strings.EqualFold(a.prompt("submit? [y/n]"), "y") {
			return errAborted
		}

		purchase, err := c.Submit(ctx)
		if err != nil {
			if errors.Is(err, composer.ErrLedgerEmpty) ||
				errors.Is(err, composer.ErrInvalidLines) ||
				errors.Is(err, composer.ErrInvalidCounterparty) {
				a.printFieldErrors(c.FieldErrors())
				continue
			}
			a.reportAPIError(err)
			if strings.EqualFold(a.prompt("retry? [y/n]"), "y") {
				continue
			}
			return err
		}

		fmt.Fprintf(a.out, "purchase %d committed with provider %s (%s)\n",
			purchase.ID, providerName(providers, purchase.ProviderID), a.money(purchase.Total))
		return nil
	}
}

func providerName(providers []api.Provider, id int64) string {
	for _, p := range providers {
		if p.ID == id {
			return p.Name
		}
	}
	return fmt.Sprintf("provider %d", id)
}
