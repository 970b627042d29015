package bank

import (
	"sort"

	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Balance is the sum of all movements.
func Balance(movements []Movement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(m.Amount)
	}
	return total
}

// TotalIn is the sum of all positive movements.
func TotalIn(movements []Movement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		if m.Amount.IsPositive() {
			total = total.Add(m.Amount)
		}
	}
	return total
}

// TotalOut is the sum of all negative movements, reported as a positive
// magnitude.
func TotalOut(movements []Movement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		if m.Amount.IsNegative() {
			total = total.Add(m.Amount)
		}
	}
	return total.Abs()
}

// TotalInterest computes interest per positive movement at rate percent and
// sums only the movements whose individual interest exceeds 1. The threshold
// applies per movement, never to the aggregate.
func TotalInterest(movements []Movement, rate decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		if !m.Amount.IsPositive() {
			continue
		}
		interest := m.Amount.Mul(rate).Div(hundred)
		if interest.GreaterThan(one) {
			total = total.Add(interest)
		}
	}
	return total
}

// OrderedView returns a shallow copy of movements, sorted ascending by amount
// when requested, in insertion order otherwise. The stored slice is never
// reordered.
func OrderedView(movements []Movement, ascending bool) []Movement {
	view := make([]Movement, len(movements))
	copy(view, movements)
	if ascending {
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].Amount.LessThan(view[j].Amount)
		})
	}
	return view
}
