package bank

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Movement is a single signed entry in an account's ledger. Positive amounts
// are inflows, negative amounts outflows. Movements are append-only; display
// ordering is always computed on demand, never written back.
type Movement struct {
	ID     string          `json:"id"`
	At     time.Time       `json:"at"`
	Amount decimal.Decimal `json:"amount"`
}

// Account holds one demo bank account. Balance is never stored; it is derived
// from Movements at every query.
type Account struct {
	Owner        string
	LoginID      string
	PIN          int
	InterestRate decimal.Decimal
	Movements    []Movement
}

var (
	ErrNoAccount          = errors.New("no account for login id")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrInvalidAmount      = errors.New("invalid amount (must be > 0)")
	ErrSelfTransfer       = errors.New("transfer to own account rejected")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrLoanRefused        = errors.New("loan refused")
	ErrDuplicateLoginID   = errors.New("duplicate login id")
)
