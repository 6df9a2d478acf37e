package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticPrices map[int64]decimal.Decimal

func (s staticPrices) Price(id int64) (decimal.Decimal, bool) {
	p, ok := s[id]
	return p, ok
}

func testPrices() staticPrices {
	return staticPrices{
		1: decimal.RequireFromString("5.50"),
		2: decimal.RequireFromString("12.0"),
	}
}

func TestAddLineDefaults(t *testing.T) {
	g := New(nil)
	index := g.AddLine()

	require.Equal(t, 0, index)
	line, ok := g.Line(0)
	require.True(t, ok)
	assert.Equal(t, int64(0), line.ProductID)
	assert.Equal(t, 1, line.Quantity)
	assert.True(t, line.UnitPrice.IsZero())
}

func TestTotalRecomputedAfterEveryMutation(t *testing.T) {
	g := New(testPrices())

	g.AddLine()
	g.SetProduct(0, 1)
	g.SetQuantity(0, 3)
	require.Equal(t, "16.5", g.Total().String())

	g.AddLine()
	g.SetProduct(1, 2)
	require.Equal(t, "28.5", g.Total().String())

	g.SetQuantity(1, 2)
	require.Equal(t, "40.5", g.Total().String())

	g.SetUnitPrice(0, decimal.RequireFromString("1.00"))
	require.Equal(t, "27", g.Total().String())
}

func TestAddThenRemoveRestoresPriorState(t *testing.T) {
	g := New(testPrices())
	g.AddLine()
	g.SetProduct(0, 1)
	g.SetQuantity(0, 2)

	before := g.Lines()
	beforeTotal := g.Total()

	index := g.AddLine()
	g.RemoveLine(index)

	assert.Equal(t, before, g.Lines())
	assert.True(t, beforeTotal.Equal(g.Total()))
}

func TestRemoveLineOutOfRangeIsNoOp(t *testing.T) {
	g := New(nil)
	g.AddLine()

	g.RemoveLine(-1)
	g.RemoveLine(5)

	assert.Equal(t, 1, g.Len())
}

func TestSetProductAutoFillsPrice(t *testing.T) {
	g := New(testPrices())
	g.AddLine()

	g.SetProduct(0, 2)

	line, ok := g.Line(0)
	require.True(t, ok)
	assert.Equal(t, int64(2), line.ProductID)
	assert.Equal(t, "12", line.UnitPrice.String())
}

func TestSetProductUnknownLeavesPrice(t *testing.T) {
	g := New(testPrices())
	g.AddLine()
	g.SetUnitPrice(0, decimal.RequireFromString("3.25"))

	g.SetProduct(0, 99)

	line, _ := g.Line(0)
	assert.Equal(t, int64(99), line.ProductID)
	assert.Equal(t, "3.25", line.UnitPrice.String())
}

func TestPriceEditDoesNotWriteBack(t *testing.T) {
	prices := testPrices()
	g := New(prices)
	g.AddLine()
	g.SetProduct(0, 1)

	g.SetUnitPrice(0, decimal.RequireFromString("9.99"))

	// Local edit only; the catalog price is untouched.
	p, ok := prices.Price(1)
	require.True(t, ok)
	assert.Equal(t, "5.5", p.String())
}

func TestMutatorsClampBelowRange(t *testing.T) {
	g := New(nil)
	g.AddLine()

	g.SetQuantity(0, 0)
	line, _ := g.Line(0)
	assert.Equal(t, 1, line.Quantity)

	g.SetQuantity(0, -7)
	line, _ = g.Line(0)
	assert.Equal(t, 1, line.Quantity)

	g.SetUnitPrice(0, decimal.RequireFromString("-4"))
	line, _ = g.Line(0)
	assert.True(t, line.UnitPrice.IsZero())
}

func TestResetDiscardsLines(t *testing.T) {
	g := New(nil)
	g.AddLine()
	g.AddLine()

	g.Reset()

	assert.Equal(t, 0, g.Len())
	assert.True(t, g.Total().IsZero())
}
