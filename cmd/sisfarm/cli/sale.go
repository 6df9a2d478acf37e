package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JosCraft/sisfarm-go/internal/api"
	"github.com/JosCraft/sisfarm-go/internal/composer"
	"github.com/JosCraft/sisfarm-go/internal/ledger"
)

// errAborted means the operator quit the wizard.
var errAborted = errors.New("aborted")

// lineEditor is the shared surface for editing transaction lines from
// the terminal.
type lineEditor interface {
	AddLine() int
	RemoveLine(int)
	SetProduct(int, int64)
	SetQuantity(int, int)
	SetUnitPrice(int, decimal.Decimal)
	Lines() []ledger.Line
	Total() decimal.Decimal
}

// Sale drives the sale composer interactively: compose lines, capture
// the customer, submit.
func (a *App) Sale(ctx context.Context) error {
	catalog, products, err := a.loadCatalog(ctx)
	if err != nil {
		return err
	}
	backend := composer.NewAPIBackend(a.client, a.dispatcher)
	c := composer.NewSale(backend, catalog)

	a.printCatalog(products)

	for {
		if err := a.editLines(c.Ledger(), false, nil); err != nil {
			return err
		}
		if err := c.Next(); err != nil {
			a.printFieldErrors(c.FieldErrors())
			continue
		}
		break
	}

	for {
		c.SetCustomer(composer.CustomerDraft{
			FullName: a.prompt("customer full name"),
			CI:       a.prompt("identification (ci)"),
			Address:  a.prompt("address"),
			Phone:    a.prompt("phone"),
		})
		payment := a.prompt("payment type [efectivo|tarjeta_credito|transferencia_bancaria] (default efectivo)")
		if payment != "" {
			if err := c.SetPayment(composer.SalePayment(payment)); err != nil {
				fmt.Fprintln(a.out, err)
				continue
			}
		}

		total, _ := c.Total().Float64()
		fmt.Fprintf(a.out, "sale total: %s\n", a.money(total))
		if !strings.EqualFold(a.prompt("submit? [y/n]"), "y") {
			return errAborted
		}

		result, err := c.Submit(ctx)
		if err != nil {
			var orphan *composer.OrphanedCustomerError
			switch {
			case errors.As(err, &orphan):
				// The customer exists without a sale; say so instead of
				// pretending nothing happened.
				fmt.Fprintf(a.out, "sale failed, but customer %d (%s) was already created; retry to attach a sale\n",
					orphan.Customer.ID, orphan.Customer.FullName)
			case errors.Is(err, composer.ErrInvalidCounterparty):
				a.printFieldErrors(c.FieldErrors())
			default:
				a.reportAPIError(err)
			}
			if strings.EqualFold(a.prompt("retry? [y/n]"), "y") {
				continue
			}
			return err
		}

		fmt.Fprintf(a.out, "sale %d committed for customer %s (%s)\n",
			result.Sale.ID, result.Customer.FullName, a.money(result.Sale.Total))
		return nil
	}
}

func (a *App) printCatalog(products []api.Product) {
	fmt.Fprintln(a.out, "available products:")
	for _, p := range products {
		fmt.Fprintf(a.out, "  %3d  %-30s %s (stock %d)\n", p.ID, p.Name, a.money(p.Price), p.Stock)
	}
}

func (a *App) printFieldErrors(errs map[string]string) {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(a.out, "  %s: %s\n", k, errs[k])
	}
}

// editLines runs the line REPL until the operator types done.
// withLots enables the purchase-only date and batch commands, applied
// through lots.
func (a *App) editLines(ed lineEditor, withLots bool, lots *lotEditor) error {
	help := "commands: add <product-id> <qty> | rm <line> | qty <line> <n> | price <line> <amount>"
	if withLots {
		help += " | date <line> <yyyy-mm-dd> | batch <line> <code>"
	}
	help += " | list | done | quit"
	fmt.Fprintln(a.out, help)

	for {
		input := a.prompt("line")
		fields := strings.Fields(input)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "done":
			return nil
		case "quit":
			return errAborted
		case "list":
			a.printLines(ed)
		case "add":
			if len(fields) != 3 {
				fmt.Fprintln(a.out, "usage: add <product-id> <qty>")
				continue
			}
			productID, err1 := strconv.ParseInt(fields[1], 10, 64)
			qty, err2 := strconv.Atoi(fields[2])
			if err1 != nil || err2 != nil {
				fmt.Fprintln(a.out, "usage: add <product-id> <qty>")
				continue
			}
			index := ed.AddLine()
			ed.SetProduct(index, productID)
			ed.SetQuantity(index, qty)
		case "rm":
			if index, ok := parseIndex(fields); ok {
				ed.RemoveLine(index)
			}
		case "qty":
			if len(fields) != 3 {
				fmt.Fprintln(a.out, "usage: qty <line> <n>")
				continue
			}
			index, ok := parseIndex(fields)
			qty, err := strconv.Atoi(fields[2])
			if !ok || err != nil {
				fmt.Fprintln(a.out, "usage: qty <line> <n>")
				continue
			}
			ed.SetQuantity(index, qty)
		case "price":
			if len(fields) != 3 {
				fmt.Fprintln(a.out, "usage: price <line> <amount>")
				continue
			}
			index, ok := parseIndex(fields)
			price, err := decimal.NewFromString(fields[2])
			if !ok || err != nil {
				fmt.Fprintln(a.out, "usage: price <line> <amount>")
				continue
			}
			ed.SetUnitPrice(index, price)
		case "date", "batch":
			if !withLots {
				fmt.Fprintf(a.out, "%s is only available for purchases\n", fields[0])
				continue
			}
			lots.apply(a, fields)
		default:
			fmt.Fprintln(a.out, help)
		}
	}
}

func parseIndex(fields []string) (int, bool) {
	if len(fields) < 2 {
		return 0, false
	}
	index, err := strconv.Atoi(fields[1])
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}

func (a *App) printLines(ed lineEditor) {
	for i, line := range ed.Lines() {
		subtotal, _ := line.Subtotal().Float64()
		price, _ := line.UnitPrice.Float64()
		fmt.Fprintf(a.out, "  [%d] product %d × %d @ %s = %s\n",
			i, line.ProductID, line.Quantity, a.money(price), a.money(subtotal))
	}
	total, _ := ed.Total().Float64()
	fmt.Fprintf(a.out, "  total: %s\n", a.money(total))
}
