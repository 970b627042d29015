package bank

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func movs(amounts ...string) []Movement {
	out := make([]Movement, 0, len(amounts))
	for _, raw := range amounts {
		out = append(out, Movement{Amount: decimal.RequireFromString(raw)})
	}
	return out
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBalance(t *testing.T) {
	m := movs("200", "450", "-400", "3000", "-650", "-130", "70", "1300")
	assert.True(t, Balance(m).Equal(dec("3840")), "got %s", Balance(m))
	assert.True(t, Balance(nil).IsZero())
}

func TestTotals(t *testing.T) {
	m := movs("200", "450", "-400", "3000", "-650", "-130", "70", "1300")
	assert.True(t, TotalIn(m).Equal(dec("5020")), "in: %s", TotalIn(m))
	assert.True(t, TotalOut(m).Equal(dec("1180")), "out: %s", TotalOut(m))
}

func TestTotalInterestPerMovementThreshold(t *testing.T) {
	// 200->2.4, 450->5.4, 3000->36, 1300->15.6 count; 70->0.84 does not.
	m := movs("200", "450", "-400", "3000", "-650", "-130", "70", "1300")
	got := TotalInterest(m, dec("1.2"))
	assert.True(t, got.Equal(dec("59.4")), "got %s", got)
}

func TestTotalInterestThresholdIsStrict(t *testing.T) {
	// At rate 1%, a 100 deposit earns exactly 1 and is excluded; 101 earns
	// 1.01 and counts.
	rate := dec("1")
	assert.True(t, TotalInterest(movs("100"), rate).IsZero())
	assert.True(t, TotalInterest(movs("101"), rate).Equal(dec("1.01")))
	// Withdrawals never earn interest regardless of magnitude.
	assert.True(t, TotalInterest(movs("-5000"), rate).IsZero())
}

func TestOrderedViewSorted(t *testing.T) {
	stored := movs("200", "-200", "340", "-300", "-20", "50", "400", "-460")
	original := make([]Movement, len(stored))
	copy(original, stored)

	view := OrderedView(stored, true)
	require.Len(t, view, len(stored))
	for i := 1; i < len(view); i++ {
		assert.True(t, view[i].Amount.GreaterThanOrEqual(view[i-1].Amount),
			"view not non-decreasing at %d", i)
	}

	// Sorting twice must leave storage untouched.
	_ = OrderedView(stored, true)
	assert.Equal(t, original, stored)
}

func TestOrderedViewUnsortedKeepsInsertionOrder(t *testing.T) {
	stored := movs("430", "1000", "700", "50", "90")
	view := OrderedView(stored, false)
	assert.Equal(t, stored, view)

	// The view is a copy; mutating it must not reach storage.
	view[0].Amount = dec("-1")
	assert.True(t, stored[0].Amount.Equal(dec("430")))
}

func TestGreeting(t *testing.T) {
	assert.Equal(t, "Welcome back, Jonas", Greeting("Jonas Schmedtmann"))
	assert.Equal(t, "Welcome back, Sarah", Greeting("  Sarah   Smith "))
	assert.Equal(t, "Welcome back", Greeting("   "))
}
