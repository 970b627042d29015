package bank

import (
	"time"

	"github.com/shopspring/decimal"

	"bankist.org/internal/ids"
)

// DemoAccounts returns the fixed demo account set. The account data is seeded
// fresh on every run; nothing survives a restart.
func DemoAccounts() []*Account {
	return []*Account{
		{
			Owner:        "Jonas Schmedtmann",
			PIN:          1111,
			InterestRate: decimal.RequireFromString("1.2"),
			Movements:    seedMovements("200", "450", "-400", "3000", "-650", "-130", "70", "1300"),
		},
		{
			Owner:        "Jessica Davis",
			PIN:          2222,
			InterestRate: decimal.RequireFromString("1.5"),
			Movements:    seedMovements("5000", "3400", "-150", "-790", "-3210", "-1000", "8500", "-30"),
		},
		{
			Owner:        "Steven Thomas Williams",
			PIN:          3333,
			InterestRate: decimal.RequireFromString("0.7"),
			Movements:    seedMovements("200", "-200", "340", "-300", "-20", "50", "400", "-460"),
		},
		{
			Owner:        "Sarah Smith",
			PIN:          4444,
			InterestRate: decimal.RequireFromString("1"),
			Movements:    seedMovements("430", "1000", "700", "50", "90"),
		},
	}
}

// NewDemoStore builds a store over the demo accounts.
func NewDemoStore() (*Store, error) {
	return NewStore(DemoAccounts()...)
}

// seedMovements spaces the seeded movements one week apart, ending yesterday,
// so the ledger reads like recent history.
func seedMovements(amounts ...string) []Movement {
	end := time.Now().UTC().AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -7*(len(amounts)-1))
	movements := make([]Movement, 0, len(amounts))
	for i, raw := range amounts {
		at := start.AddDate(0, 0, 7*i)
		movements = append(movements, Movement{
			ID:     ids.NewAt(at),
			At:     at,
			Amount: decimal.RequireFromString(raw),
		})
	}
	return movements
}
