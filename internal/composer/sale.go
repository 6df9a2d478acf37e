package composer

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/JosCraft/sisfarm-go/internal/api"
	"github.com/JosCraft/sisfarm-go/internal/ledger"
)

// SalePayment enumerates the payment types a sale accepts.
type SalePayment string

// Sale payment types.
const (
	SaleCash         SalePayment = "efectivo"
	SaleCreditCard   SalePayment = "tarjeta_credito"
	SaleBankTransfer SalePayment = "transferencia_bancaria"
)

// Valid reports whether p is a known sale payment type.
func (p SalePayment) Valid() bool {
	switch p {
	case SaleCash, SaleCreditCard, SaleBankTransfer:
		return true
	}
	return false
}

// CustomerDraft carries the inline-entered counterparty for a sale.
type CustomerDraft struct {
	FullName string `validate:"required,min=1"`
	CI       string `validate:"required"`
	Address  string `validate:"required"`
	Phone    string `validate:"required"`
}

var customerFieldNames = map[string]string{
	"FullName": "full_name",
	"CI":       "ci",
	"Address":  "address",
	"Phone":    "phone",
}

var customerMessages = map[string]string{
	"FullName": "full name is required",
	"CI":       "identification is required",
	"Address":  "address is required",
	"Phone":    "phone is required",
}

// SaleBackend commits the two dependent remote calls of a sale.
type SaleBackend interface {
	CreateCustomer(ctx context.Context, req api.CreateCustomerRequest) (*api.Customer, error)
	CreateSale(ctx context.Context, req api.CreateSaleRequest) (*api.Sale, error)
}

// SaleResult is a committed sale plus the customer created for it.
type SaleResult struct {
	Sale     *api.Sale
	Customer *api.Customer
}

// OrphanedCustomerError reports a sale commit that failed after its
// customer was already created. There is no compensating delete; the
// customer persists without an associated sale, and callers are
// expected to surface that to the operator.
type OrphanedCustomerError struct {
	Customer *api.Customer
	Err      error
}

// Error implements error.
func (e *OrphanedCustomerError) Error() string {
	return fmt.Sprintf("composer: sale commit failed after customer %d was created: %v", e.Customer.ID, e.Err)
}

// Unwrap exposes the underlying commit error.
func (e *OrphanedCustomerError) Unwrap() error { return e.Err }

// SaleComposer drives a sale draft through its phases: compose lines,
// capture the new customer, submit. The draft survives a failed submit
// so the operator can retry without re-entering anything.
type SaleComposer struct {
	phase     Phase
	ledger    *ledger.Ledger
	catalog   *Catalog
	payment   SalePayment
	customer  CustomerDraft
	backend   SaleBackend
	validate  *validator.Validate
	fieldErrs map[string]string
}

// NewSale constructs a sale composer over a product catalog snapshot.
func NewSale(backend SaleBackend, catalog *Catalog) *SaleComposer {
	return &SaleComposer{
		phase:    ComposingItems,
		ledger:   ledger.New(catalog),
		catalog:  catalog,
		payment:  SaleCash,
		backend:  backend,
		validate: validator.New(),
	}
}

// Phase returns the current phase.
func (c *SaleComposer) Phase() Phase { return c.phase }

// Ledger exposes the line item ledger for editing during item
// composition.
func (c *SaleComposer) Ledger() *ledger.Ledger { return c.ledger }

// Total returns the running sale total.
func (c *SaleComposer) Total() decimal.Decimal { return c.ledger.Total() }

// FieldErrors returns the inline errors recorded by the last blocked
// transition or submit.
func (c *SaleComposer) FieldErrors() map[string]string { return c.fieldErrs }

// Payment returns the selected payment type.
func (c *SaleComposer) Payment() SalePayment { return c.payment }

// SetPayment selects the payment type.
func (c *SaleComposer) SetPayment(p SalePayment) error {
	if !p.Valid() {
		return fmt.Errorf("composer: invalid sale payment type %q", p)
	}
	c.payment = p
	return nil
}

// Customer returns the current counterparty draft.
func (c *SaleComposer) Customer() CustomerDraft { return c.customer }

// SetCustomer replaces the counterparty draft.
func (c *SaleComposer) SetCustomer(draft CustomerDraft) { c.customer = draft }

// Next moves from item composition to counterparty capture. Blocked
// with inline errors unless the ledger has at least one line and every
// line passes validation.
func (c *SaleComposer) Next() error {
	if c.phase == Closed {
		return ErrClosed
	}
	if c.phase != ComposingItems {
		_, err := transition(c.phase, CapturingCounterparty)
		return err
	}
	if c.ledger.Len() == 0 {
		c.fieldErrs = map[string]string{"items": "add at least one product"}
		return ErrLedgerEmpty
	}
	if errs := validateLines(c.validate, c.ledger.Lines(), c.catalog); len(errs) > 0 {
		c.fieldErrs = errs
		return ErrInvalidLines
	}
	c.fieldErrs = nil
	next, err := transition(c.phase, CapturingCounterparty)
	if err != nil {
		return err
	}
	c.phase = next
	return nil
}

// Back returns to item composition. Always allowed from counterparty
// capture and never destructive.
func (c *SaleComposer) Back() error {
	next, err := transition(c.phase, ComposingItems)
	if err != nil {
		return err
	}
	c.phase = next
	return nil
}

// Submit runs the two-step commit: create the customer, then the sale
// referencing it. On any failure the composer returns to counterparty
// capture with the draft intact. A failure after the customer was
// created is reported as an OrphanedCustomerError; there is no
// rollback.
func (c *SaleComposer) Submit(ctx context.Context) (*SaleResult, error) {
	switch c.phase {
	case Submitting:
		return nil, ErrSubmitInFlight
	case Closed:
		return nil, ErrClosed
	case CapturingCounterparty:
	default:
		return nil, &badTransitionError{from: c.phase, to: Submitting}
	}
	if err := c.validate.Struct(c.customer); err != nil {
		c.fieldErrs = fieldErrors(err, customerFieldNames, customerMessages)
		return nil, ErrInvalidCounterparty
	}
	if !c.payment.Valid() {
		c.fieldErrs = map[string]string{"payment_type": "invalid payment type"}
		return nil, ErrInvalidCounterparty
	}
	c.fieldErrs = nil

	next, err := transition(c.phase, Submitting)
	if err != nil {
		return nil, err
	}
	c.phase = next

	customer, err := c.backend.CreateCustomer(ctx, api.CreateCustomerRequest{
		FullName: c.customer.FullName,
		CI:       c.customer.CI,
		Address:  c.customer.Address,
		Phone:    c.customer.Phone,
	})
	if err != nil {
		c.phase, _ = transition(c.phase, CapturingCounterparty)
		return nil, fmt.Errorf("create customer: %w", err)
	}

	lines := c.ledger.Lines()
	items := make([]api.SaleItem, len(lines))
	for i, line := range lines {
		items[i] = api.SaleItem{ProductID: line.ProductID, Quantity: line.Quantity}
	}
	sale, err := c.backend.CreateSale(ctx, api.CreateSaleRequest{
		PaymentType: string(c.payment),
		CustomerID:  customer.ID,
		Items:       items,
	})
	if err != nil {
		c.phase, _ = transition(c.phase, CapturingCounterparty)
		return nil, &OrphanedCustomerError{Customer: customer, Err: err}
	}

	c.phase, _ = transition(c.phase, Closed)
	c.ledger.Reset()
	c.customer = CustomerDraft{}
	c.payment = SaleCash
	return &SaleResult{Sale: sale, Customer: customer}, nil
}
