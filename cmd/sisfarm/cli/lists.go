package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/JosCraft/sisfarm-go/internal/api"
	"github.com/JosCraft/sisfarm-go/internal/cache"
)

func parsePageFlag(name string, args []string) (int, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return 0, err
	}
	if *page < 1 {
		return 0, fmt.Errorf("page must be at least 1, got %d", *page)
	}
	return *page, nil
}

func (a *App) printPageFooter(p api.Pagination) {
	fmt.Fprintf(a.out, "page %d/%d (%d items)", p.CurrentPage, p.TotalPages, p.TotalItems)
	if p.HasNext {
		fmt.Fprint(a.out, " (more available)")
	}
	fmt.Fprintln(a.out)
}

// Products lists one catalog page.
func (a *App) Products(ctx context.Context, args []string) error {
	page, err := parsePageFlag("products", args)
	if err != nil {
		return err
	}
	key := cache.PageKey(cache.PrefixProductsPage, page)
	result, err := cache.Fetch(ctx, a.cache, key, func(ctx context.Context) (*api.Paginated[api.Product], error) {
		return a.client.ListProductsPage(ctx, page, a.cfg.PageSize)
	})
	if err != nil {
		a.reportAPIError(err)
		return err
	}

	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCODE\tNAME\tPRICE\tSTOCK\tMIN")
	for _, p := range result.Data {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\n", p.ID, p.Code, p.Name, a.money(p.Price), p.Stock, p.StockMin)
	}
	w.Flush()
	a.printPageFooter(result.Pagination)
	return nil
}

// LowStock lists products at or below their minimum stock level.
func (a *App) LowStock(ctx context.Context) error {
	products, err := cache.Fetch(ctx, a.cache, cache.KeyProducts, a.client.ListProducts)
	if err != nil {
		a.reportAPIError(err)
		return err
	}
	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTOCK\tMIN")
	count := 0
	for _, p := range products {
		if p.Stock <= p.StockMin {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", p.ID, p.Name, p.Stock, p.StockMin)
			count++
		}
	}
	w.Flush()
	fmt.Fprintf(a.out, "%d product(s) need restocking\n", count)
	return nil
}

// Customers lists one customer page.
func (a *App) Customers(ctx context.Context, args []string) error {
	page, err := parsePageFlag("customers", args)
	if err != nil {
		return err
	}
	key := cache.PageKey(cache.PrefixCustomersPage, page)
	result, err := cache.Fetch(ctx, a.cache, key, func(ctx context.Context) (*api.Paginated[api.Customer], error) {
		return a.client.ListCustomersPage(ctx, page, a.cfg.PageSize)
	})
	if err != nil {
		a.reportAPIError(err)
		return err
	}

	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCI\tPHONE\tADDRESS")
	for _, c := range result.Data {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.FullName, c.CI, c.Phone, c.Address)
	}
	w.Flush()
	a.printPageFooter(result.Pagination)
	return nil
}

// Providers lists one provider page.
func (a *App) Providers(ctx context.Context, args []string) error {
	page, err := parsePageFlag("providers", args)
	if err != nil {
		return err
	}
	key := cache.PageKey(cache.PrefixProvidersPage, page)
	result, err := cache.Fetch(ctx, a.cache, key, func(ctx context.Context) (*api.Paginated[api.Provider], error) {
		return a.client.ListProvidersPage(ctx, page, a.cfg.PageSize)
	})
	if err != nil {
		a.reportAPIError(err)
		return err
	}

	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tNIT\tPHONE")
	for _, p := range result.Data {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.NIT, p.Phone)
	}
	w.Flush()
	a.printPageFooter(result.Pagination)
	return nil
}

// Sales lists one page of committed sales.
func (a *App) Sales(ctx context.Context, args []string) error {
	page, err := parsePageFlag("sales", args)
	if err != nil {
		return err
	}
	key := cache.PageKey(cache.PrefixSalesPage, page)
	result, err := cache.Fetch(ctx, a.cache, key, func(ctx context.Context) (*api.Paginated[api.Sale], error) {
		return a.client.ListSalesPage(ctx, page, a.cfg.PageSize)
	})
	if err != nil {
		a.reportAPIError(err)
		return err
	}

	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCUSTOMER\tTOTAL\tPAYMENT\tSTATUS")
	for _, s := range result.Data {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", s.ID, s.CustomerID, a.money(s.Total), s.PaymentType, s.Status)
	}
	w.Flush()
	a.printPageFooter(result.Pagination)
	return nil
}

// Purchases lists one page of committed purchases.
func (a *App) Purchases(ctx context.Context, args []string) error {
	page, err := parsePageFlag("purchases", args)
	if err != nil {
		return err
	}
	key := cache.PageKey(cache.PrefixPurchasesPage, page)
	result, err := cache.Fetch(ctx, a.cache, key, func(ctx context.Context) (*api.Paginated[api.Purchase], error) {
		return a.client.ListPurchasesPage(ctx, page, a.cfg.PageSize)
	})
	if err != nil {
		a.reportAPIError(err)
		return err
	}

	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROVIDER\tTOTAL\tPAYMENT\tSTATUS")
	for _, p := range result.Data {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", p.ID, p.ProviderID, a.money(p.Total), p.PaymentType, p.Status)
	}
	w.Flush()
	a.printPageFooter(result.Pagination)
	return nil
}
