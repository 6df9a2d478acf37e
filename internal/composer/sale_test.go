package composer

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JosCraft/sisfarm-go/internal/api"
)

type fakeSaleBackend struct {
	customerCalls int
	saleCalls     int
	customerErr   error
	saleErr       error

	lastCustomerReq api.CreateCustomerRequest
	lastSaleReq     api.CreateSaleRequest

	// onCreateCustomer, when set, runs inside the customer call. Used to
	// observe the composer mid-submit.
	onCreateCustomer func()
}

func (f *fakeSaleBackend) CreateCustomer(_ context.Context, req api.CreateCustomerRequest) (*api.Customer, error) {
	f.customerCalls++
	f.lastCustomerReq = req
	if f.onCreateCustomer != nil {
		f.onCreateCustomer()
	}
	if f.customerErr != nil {
		return nil, f.customerErr
	}
	return &api.Customer{
		ID:       42,
		FullName: req.FullName,
		CI:       req.CI,
		Address:  req.Address,
		Phone:    req.Phone,
	}, nil
}

func (f *fakeSaleBackend) CreateSale(_ context.Context, req api.CreateSaleRequest) (*api.Sale, error) {
	f.saleCalls++
	f.lastSaleReq = req
	if f.saleErr != nil {
		return nil, f.saleErr
	}
	return &api.Sale{ID: 7, CustomerID: req.CustomerID, PaymentType: req.PaymentType, Items: req.Items}, nil
}

func testCatalog() *Catalog {
	return NewCatalog([]api.Product{
		{ID: 1, Code: "P-001", Name: "Paracetamol 500mg", Price: 5.50, Stock: 100},
		{ID: 2, Code: "P-002", Name: "Amoxicilina 250mg", Price: 12.0, Stock: 40},
	})
}

func validCustomer() CustomerDraft {
	return CustomerDraft{
		FullName: "Ana Ruiz",
		CI:       "12345",
		Address:  "Av. Principal 10",
		Phone:    "70012345",
	}
}

func TestSaleStartsComposingItems(t *testing.T) {
	c := NewSale(&fakeSaleBackend{}, testCatalog())
	assert.Equal(t, ComposingItems, c.Phase())
	assert.Equal(t, SaleCash, c.Payment())
}

func TestSaleNextBlockedOnEmptyLedger(t *testing.T) {
	c := NewSale(&fakeSaleBackend{}, testCatalog())

	err := c.Next()

	require.ErrorIs(t, err, ErrLedgerEmpty)
	assert.Equal(t, ComposingItems, c.Phase())
	assert.Contains(t, c.FieldErrors(), "items")
}

func TestSaleNextBlockedOnInvalidLines(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(c *SaleComposer, index int)
		wantKey string
	}{
		{
			name:    "no product selected",
			prepare: func(c *SaleComposer, index int) {},
			wantKey: "items.0.product_id",
		},
		{
			name: "zero price",
			prepare: func(c *SaleComposer, index int) {
				// Product 99 is not in the catalog, so no price is
				// auto-filled and the line keeps price zero.
				c.Ledger().SetProduct(index, 99)
			},
			wantKey: "items.0.unit_price",
		},
		{
			name: "unknown product with explicit price",
			prepare: func(c *SaleComposer, index int) {
				c.Ledger().SetProduct(index, 99)
				c.Ledger().SetUnitPrice(index, decimal.RequireFromString("3.00"))
			},
			wantKey: "items.0.product_id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewSale(&fakeSaleBackend{}, testCatalog())
			index := c.Ledger().AddLine()
			tt.prepare(c, index)

			err := c.Next()

			require.ErrorIs(t, err, ErrInvalidLines)
			assert.Equal(t, ComposingItems, c.Phase())
			assert.Contains(t, c.FieldErrors(), tt.wantKey)
		})
	}
}

func TestSaleNextAdvancesWithValidLines(t *testing.T) {
	c := NewSale(&fakeSaleBackend{}, testCatalog())
	index := c.Ledger().AddLine()
	c.Ledger().SetProduct(index, 1)

	require.NoError(t, c.Next())

	assert.Equal(t, CapturingCounterparty, c.Phase())
	assert.Empty(t, c.FieldErrors())
}

func TestSaleBackKeepsDraft(t *testing.T) {
	c := NewSale(&fakeSaleBackend{}, testCatalog())
	index := c.Ledger().AddLine()
	c.Ledger().SetProduct(index, 1)
	require.NoError(t, c.Next())
	c.SetCustomer(validCustomer())

	require.NoError(t, c.Back())

	assert.Equal(t, ComposingItems, c.Phase())
	assert.Equal(t, 1, c.Ledger().Len())
	assert.Equal(t, validCustomer(), c.Customer())
}

func TestSaleSubmitRequiresCounterpartyPhase(t *testing.T) {
	c := NewSale(&fakeSaleBackend{}, testCatalog())

	_, err := c.Submit(context.Background())

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLedgerEmpty)
	assert.Equal(t, ComposingItems, c.Phase())
}

func TestSaleSubmitBlockedOnInvalidCustomer(t *testing.T) {
	backend := &fakeSaleBackend{}
	c := NewSale(backend, testCatalog())
	index := c.Ledger().AddLine()
	c.Ledger().SetProduct(index, 1)
	require.NoError(t, c.Next())
	c.SetCustomer(CustomerDraft{FullName: "Ana Ruiz"})

	_, err := c.Submit(context.Background())

	require.ErrorIs(t, err, ErrInvalidCounterparty)
	assert.Equal(t, 0, backend.customerCalls)
	assert.Contains(t, c.FieldErrors(), "ci")
	assert.Contains(t, c.FieldErrors(), "address")
	assert.Contains(t, c.FieldErrors(), "phone")
	assert.Equal(t, CapturingCounterparty, c.Phase())
}

func TestSaleSubmitCommitsBothSteps(t *testing.T) {
	backend := &fakeSaleBackend{}
	c := NewSale(backend, testCatalog())
	index := c.Ledger().AddLine()
	c.Ledger().SetProduct(index, 1)
	c.Ledger().SetQuantity(index, 3)
	require.Equal(t, "16.5", c.Total().String())
	require.NoError(t, c.Next())
	c.SetCustomer(validCustomer())
	require.NoError(t, c.SetPayment(SaleCash))

	result, err := c.Submit(context.Background())

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(42), result.Customer.ID)
	assert.Equal(t, 1, backend.customerCalls)
	assert.Equal(t, 1, backend.saleCalls)
	assert.Equal(t, "Ana Ruiz", backend.lastCustomerReq.FullName)
	assert.Equal(t, api.CreateSaleRequest{
		PaymentType: "efectivo",
		CustomerID:  42,
		Items:       []api.SaleItem{{ProductID: 1, Quantity: 3}},
	}, backend.lastSaleReq)

	assert.Equal(t, Closed, c.Phase())
	assert.Equal(t, 0, c.Ledger().Len())
	assert.Equal(t, CustomerDraft{}, c.Customer())
}

func TestSaleSubmitCustomerFailureKeepsDraft(t *testing.T) {
	backend := &fakeSaleBackend{customerErr: errors.New("connection refused")}
	c := NewSale(backend, testCatalog())
	index := c.Ledger().AddLine()
	c.Ledger().SetProduct(index, 1)
	require.NoError(t, c.Next())
	c.SetCustomer(validCustomer())

	_, err := c.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, 0, backend.saleCalls)
	assert.Equal(t, CapturingCounterparty, c.Phase())
	assert.Equal(t, validCustomer(), c.Customer())
	assert.Equal(t, 1, c.Ledger().Len())

	// The operator fixes nothing and retries; this time it goes through.
	backend.customerErr = nil
	result, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, result.Sale)
	assert.Equal(t, Closed, c.Phase())
}

func TestSaleSubmitOrphansCustomerOnSaleFailure(t *testing.T) {
	backend := &fakeSaleBackend{saleErr: errors.New("stock conflict")}
	c := NewSale(backend, testCatalog())
	index := c.Ledger().AddLine()
	c.Ledger().SetProduct(index, 2)
	require.NoError(t, c.Next())
	c.SetCustomer(validCustomer())

	_, err := c.Submit(context.Background())

	var orphaned *OrphanedCustomerError
	require.ErrorAs(t, err, &orphaned)
	assert.Equal(t, int64(42), orphaned.Customer.ID)
	assert.ErrorContains(t, orphaned, "stock conflict")
	assert.Equal(t, CapturingCounterparty, c.Phase())
	assert.Equal(t, 1, c.Ledger().Len())
}

func TestSaleSubmitRejectsReentry(t *testing.T) {
	backend := &fakeSaleBackend{}
	c := NewSale(backend, testCatalog())
	index := c.Ledger().AddLine()
	c.Ledger().SetProduct(index, 1)
	require.NoError(t, c.Next())
	c.SetCustomer(validCustomer())

	var reentryErr error
	backend.onCreateCustomer = func() {
		_, reentryErr = c.Submit(context.Background())
	}

	_, err := c.Submit(context.Background())

	require.NoError(t, err)
	assert.ErrorIs(t, reentryErr, ErrSubmitInFlight)
}

func TestSaleClosedRejectsEverything(t *testing.T) {
	backend := &fakeSaleBackend{}
	c := NewSale(backend, testCatalog())
	index := c.Ledger().AddLine()
	c.Ledger().SetProduct(index, 1)
	require.NoError(t, c.Next())
	c.SetCustomer(validCustomer())
	_, err := c.Submit(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, c.Next(), ErrClosed)
	_, err = c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSaleSetPaymentRejectsUnknown(t *testing.T) {
	c := NewSale(&fakeSaleBackend{}, testCatalog())

	require.Error(t, c.SetPayment(SalePayment("cheque")))
	assert.Equal(t, SaleCash, c.Payment())

	require.NoError(t, c.SetPayment(SaleBankTransfer))
	assert.Equal(t, SaleBankTransfer, c.Payment())
}
