package bank

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Movement row types as shown to the presentation layer.
const (
	MovementDeposit    = "deposit"
	MovementWithdrawal = "withdrawal"
)

// MovementRow is one displayed ledger line. DisplayIndex is 1-based and
// follows display order, which may differ from storage order when sorted.
type MovementRow struct {
	DisplayIndex int             `json:"display_index"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	At           time.Time       `json:"at"`
}

// ViewState is the full outbound state handed to the presentation layer after
// every successful mutation or fresh login.
type ViewState struct {
	Greeting      string          `json:"greeting"`
	Rows          []MovementRow   `json:"rows"`
	Balance       decimal.Decimal `json:"balance"`
	TotalIn       decimal.Decimal `json:"total_in"`
	TotalOut      decimal.Decimal `json:"total_out"`
	TotalInterest decimal.Decimal `json:"total_interest"`
	Sorted        bool            `json:"sorted"`
	AsOf          time.Time       `json:"as_of"`
}

// Greeting addresses the owner by their first name.
func Greeting(owner string) string {
	fields := strings.Fields(owner)
	if len(fields) == 0 {
		return "Welcome back"
	}
	return "Welcome back, " + fields[0]
}

func buildView(acc *Account, sorted bool) ViewState {
	ordered := OrderedView(acc.Movements, sorted)
	rows := make([]MovementRow, 0, len(ordered))
	for i, m := range ordered {
		kind := MovementWithdrawal
		if m.Amount.IsPositive() {
			kind = MovementDeposit
		}
		rows = append(rows, MovementRow{
			DisplayIndex: i + 1,
			Type:         kind,
			Amount:       m.Amount,
			At:           m.At,
		})
	}
	return ViewState{
		Greeting:      Greeting(acc.Owner),
		Rows:          rows,
		Balance:       Balance(acc.Movements),
		TotalIn:       TotalIn(acc.Movements),
		TotalOut:      TotalOut(acc.Movements),
		TotalInterest: TotalInterest(acc.Movements, acc.InterestRate).Round(2),
		Sorted:        sorted,
		AsOf:          time.Now().UTC(),
	}
}
