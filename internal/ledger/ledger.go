// Package ledger maintains the ordered line items of an in-progress
// transaction and their running total, independent of any front-end.
package ledger

import "github.com/shopspring/decimal"

// Line is one transaction line. A zero ProductID means no product has
// been selected yet; selection is validated at submit time, not here.
type Line struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal returns quantity × unit price.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// PriceLookup resolves a product's current list price. Used to
// auto-fill a line's unit price when a product is selected; the copy is
// one-way, later edits to the line never write back.
type PriceLookup interface {
	Price(productID int64) (decimal.Decimal, bool)
}

// Ledger is an ordered, mutable list of lines. Order is insertion
// order. The zero quantity/price guarantees hold by construction: every
// mutator clamps below-range values.
type Ledger struct {
	lines  []Line
	prices PriceLookup
}

// New constructs an empty ledger. lookup may be nil when no catalog is
// available; product selection then leaves unit prices untouched.
func New(lookup PriceLookup) *Ledger {
	return &Ledger{prices: lookup}
}

// AddLine appends a line with quantity 1, price zero and no product
// selected, returning its index.
func (g *Ledger) AddLine() int {
	g.lines = append(g.lines, Line{Quantity: 1})
	return len(g.lines) - 1
}

// RemoveLine deletes the line at index. Out-of-range indexes are a
// no-op.
func (g *Ledger) RemoveLine(index int) {
	if index < 0 || index >= len(g.lines) {
		return
	}
	g.lines = append(g.lines[:index], g.lines[index+1:]...)
}

// SetProduct selects the product for the line at index and, when the
// catalog knows the product, copies its current price into the line.
func (g *Ledger) SetProduct(index int, productID int64) {
	if index < 0 || index >= len(g.lines) {
		return
	}
	g.lines[index].ProductID = productID
	if g.prices == nil {
		return
	}
	if price, ok := g.prices.Price(productID); ok {
		g.lines[index].UnitPrice = price
	}
}

// SetQuantity updates a line's quantity, clamped to at least 1.
func (g *Ledger) SetQuantity(index, quantity int) {
	if index < 0 || index >= len(g.lines) {
		return
	}
	if quantity < 1 {
		quantity = 1
	}
	g.lines[index].Quantity = quantity
}

// SetUnitPrice overrides a line's unit price, clamped to non-negative.
func (g *Ledger) SetUnitPrice(index int, price decimal.Decimal) {
	if index < 0 || index >= len(g.lines) {
		return
	}
	if price.IsNegative() {
		price = decimal.Zero
	}
	g.lines[index].UnitPrice = price
}

// Line returns the line at index.
func (g *Ledger) Line(index int) (Line, bool) {
	if index < 0 || index >= len(g.lines) {
		return Line{}, false
	}
	return g.lines[index], true
}

// Lines returns a copy of the current lines in insertion order.
func (g *Ledger) Lines() []Line {
	out := make([]Line, len(g.lines))
	copy(out, g.lines)
	return out
}

// Len returns the number of lines.
func (g *Ledger) Len() int {
	return len(g.lines)
}

// Total returns the sum of all line subtotals, recomputed on every
// call.
func (g *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range g.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Reset discards every line.
func (g *Ledger) Reset() {
	g.lines = nil
}
