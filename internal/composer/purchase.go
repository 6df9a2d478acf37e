package composer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/JosCraft/sisfarm-go/internal/api"
	"github.com/JosCraft/sisfarm-go/internal/ledger"
)

// expirationLayout is the calendar-date representation purchase lines
// are normalized to on the wire.
const expirationLayout = "2006-01-02"

// PurchasePayment enumerates the payment types a purchase accepts.
type PurchasePayment string

// Purchase payment types.
const (
	PurchaseCash     PurchasePayment = "efectivo"
	PurchaseCard     PurchasePayment = "tarjeta"
	PurchaseTransfer PurchasePayment = "transferencia"
	PurchaseCredit   PurchasePayment = "credito"
)

// Valid reports whether p is a known purchase payment type.
func (p PurchasePayment) Valid() bool {
	switch p {
	case PurchaseCash, PurchaseCard, PurchaseTransfer, PurchaseCredit:
		return true
	}
	return false
}

// LineDetail carries the lot data a purchase tracks per line on top of
// the ledger's product/quantity/price.
type LineDetail struct {
	// ExpirationDate zero value means not entered; it serializes to an
	// empty string.
	ExpirationDate time.Time
	BatchCode      string
}

// PurchaseBackend commits a composed purchase.
type PurchaseBackend interface {
	CreatePurchase(ctx context.Context, req api.CreatePurchaseRequest) (*api.Purchase, error)
}

// PurchaseComposer drives a purchase draft. Purchases have no separate
// counterparty phase: the provider pre-exists and is selected during
// item composition, so submission happens straight from there.
type PurchaseComposer struct {
	phase      Phase
	ledger     *ledger.Ledger
	details    []LineDetail
	catalog    *Catalog
	providerID int64
	payment    PurchasePayment
	backend    PurchaseBackend
	validate   *validator.Validate
	fieldErrs  map[string]string
}

// NewPurchase constructs a purchase composer over a product catalog
// snapshot.
func NewPurchase(backend PurchaseBackend, catalog *Catalog) *PurchaseComposer {
	return &PurchaseComposer{
		phase:    ComposingItems,
		ledger:   ledger.New(catalog),
		catalog:  catalog,
		payment:  PurchaseCash,
		backend:  backend,
		validate: validator.New(),
	}
}

// Phase returns the current phase.
func (c *PurchaseComposer) Phase() Phase { return c.phase }

// Total returns the running purchase total.
func (c *PurchaseComposer) Total() decimal.Decimal { return c.ledger.Total() }

// FieldErrors returns the inline errors recorded by the last blocked
// submit.
func (c *PurchaseComposer) FieldErrors() map[string]string { return c.fieldErrs }

// Provider returns the selected provider id.
func (c *PurchaseComposer) Provider() int64 { return c.providerID }

// SetProvider selects the purchase counterparty.
func (c *PurchaseComposer) SetProvider(id int64) { c.providerID = id }

// Payment returns the selected payment type.
func (c *PurchaseComposer) Payment() PurchasePayment { return c.payment }

// SetPayment selects the payment type.
func (c *PurchaseComposer) SetPayment(p PurchasePayment) error {
	if !p.Valid() {
		return fmt.Errorf("composer: invalid purchase payment type %q", p)
	}
	c.payment = p
	return nil
}

// AddLine appends an empty line and its lot detail, returning the
// index.
func (c *PurchaseComposer) AddLine() int {
	index := c.ledger.AddLine()
	c.details = append(c.details, LineDetail{})
	return index
}

// RemoveLine deletes a line and its lot detail. Out-of-range indexes
// are a no-op.
func (c *PurchaseComposer) RemoveLine(index int) {
	if index < 0 || index >= len(c.details) {
		return
	}
	c.ledger.RemoveLine(index)
	c.details = append(c.details[:index], c.details[index+1:]...)
}

// SetProduct selects the product for a line, auto-filling the unit
// price from the catalog.
func (c *PurchaseComposer) SetProduct(index int, productID int64) {
	c.ledger.SetProduct(index, productID)
}

// SetQuantity updates a line's quantity.
func (c *PurchaseComposer) SetQuantity(index, quantity int) {
	c.ledger.SetQuantity(index, quantity)
}

// SetUnitPrice overrides a line's unit price.
func (c *PurchaseComposer) SetUnitPrice(index int, price decimal.Decimal) {
	c.ledger.SetUnitPrice(index, price)
}

// SetExpiration records a line's expiration date.
func (c *PurchaseComposer) SetExpiration(index int, date time.Time) {
	if index < 0 || index >= len(c.details) {
		return
	}
	c.details[index].ExpirationDate = date
}

// SetBatchCode records a line's batch code.
func (c *PurchaseComposer) SetBatchCode(index int, code string) {
	if index < 0 || index >= len(c.details) {
		return
	}
	c.details[index].BatchCode = code
}

// Lines returns the current ledger lines.
func (c *PurchaseComposer) Lines() []ledger.Line { return c.ledger.Lines() }

// Details returns the lot detail for each line, index-aligned with
// Lines.
func (c *PurchaseComposer) Details() []LineDetail {
	out := make([]LineDetail, len(c.details))
	copy(out, c.details)
	return out
}

type purchaseHeader struct {
	ProviderID int64  `validate:"required,min=1"`
	Payment    string `validate:"required"`
}

// Submit validates the draft and commits it in a single call. On
// failure the composer returns to item composition with the draft
// intact.
func (c *PurchaseComposer) Submit(ctx context.Context) (*api.Purchase, error) {
	switch c.phase {
	case Submitting:
		return nil, ErrSubmitInFlight
	case Closed:
		return nil, ErrClosed
	case ComposingItems:
	default:
		return nil, &badTransitionError{from: c.phase, to: Submitting}
	}

	errs := make(map[string]string)
	header := purchaseHeader{ProviderID: c.providerID, Payment: string(c.payment)}
	if err := c.validate.Struct(header); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			errs["provider_id"] = "select a provider"
		}
	}
	if !c.payment.Valid() {
		errs["payment_type"] = "invalid payment type"
	}
	ledgerEmpty := c.ledger.Len() == 0
	if ledgerEmpty {
		errs["items"] = "add at least one product"
	}
	lineErrs := validateLines(c.validate, c.ledger.Lines(), c.catalog)
	for key, msg := range lineErrs {
		errs[key] = msg
	}
	if len(errs) > 0 {
		c.fieldErrs = errs
		switch {
		case ledgerEmpty:
			return nil, ErrLedgerEmpty
		case len(lineErrs) > 0:
			return nil, ErrInvalidLines
		default:
			return nil, ErrInvalidCounterparty
		}
	}
	c.fieldErrs = nil

	next, err := transition(c.phase, Submitting)
	if err != nil {
		return nil, err
	}
	c.phase = next

	lines := c.ledger.Lines()
	items := make([]api.CreatePurchaseItem, len(lines))
	for i, line := range lines {
		price, _ := line.UnitPrice.Float64()
		expiration := ""
		if !c.details[i].ExpirationDate.IsZero() {
			expiration = c.details[i].ExpirationDate.Format(expirationLayout)
		}
		items[i] = api.CreatePurchaseItem{
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPrice:      price,
			ExpirationDate: expiration,
			BatchCode:      c.details[i].BatchCode,
		}
	}

	purchase, err := c.backend.CreatePurchase(ctx, api.CreatePurchaseRequest{
		ProviderID:  c.providerID,
		PaymentType: string(c.payment),
		Items:       items,
	})
	if err != nil {
		c.phase, _ = transition(c.phase, ComposingItems)
		return nil, fmt.Errorf("create purchase: %w", err)
	}

	c.phase, _ = transition(c.phase, Closed)
	c.ledger.Reset()
	c.details = nil
	return purchase, nil
}
