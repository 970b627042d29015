package bank

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"bankist.org/internal/ids"
)

// loanEligibilityRatio: a loan is granted only when some existing movement is
// worth at least this fraction of the requested amount. This is the sole
// affordability rule; it deliberately ignores the total balance.
var loanEligibilityRatio = decimal.New(1, -1) // 0.1

// Engine validates and applies the bank operations. Every operation either
// fully succeeds or declines as a no-op with a named rejection error; a
// declined operation never partially mutates an account.
type Engine struct {
	mu    sync.Mutex
	store *Store
}

// NewEngine wraps a store. The engine serialises all mutations; intents are
// handled to completion in the order they arrive.
func NewEngine(store *Store) *Engine {
	return &Engine{store: store}
}

// Authenticate looks up the account for loginID and compares pin for exact
// equality. On success it returns a fresh logged-in session with the sorted
// flag reset; on failure no state changes.
func (e *Engine) Authenticate(ctx context.Context, loginID string, pin int) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	acc := e.store.FindByLoginID(loginID)
	if acc == nil || acc.PIN != pin {
		return nil, ErrInvalidCredentials
	}
	return &Session{account: acc, startedAt: time.Now().UTC()}, nil
}

// Transfer moves amount from the session's account to the account behind
// toLoginID. Both movements are appended together or not at all.
func (e *Engine) Transfer(ctx context.Context, sess *Session, toLoginID string, amount decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sender, err := e.activeAccount(sess)
	if err != nil {
		return err
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	receiver := e.store.FindByLoginID(toLoginID)
	if receiver == nil {
		return ErrNoAccount
	}
	if receiver.LoginID == sender.LoginID {
		return ErrSelfTransfer
	}
	if Balance(sender.Movements).LessThan(amount) {
		return ErrInsufficientFunds
	}

	now := time.Now().UTC()
	sender.Movements = append(sender.Movements, newMovement(now, amount.Neg()))
	receiver.Movements = append(receiver.Movements, newMovement(now, amount))
	return nil
}

// RequestLoan appends amount to the session's account when some existing
// movement is at least 10% of the requested amount.
func (e *Engine) RequestLoan(ctx context.Context, sess *Session, amount decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	acc, err := e.activeAccount(sess)
	if err != nil {
		return err
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	threshold := amount.Mul(loanEligibilityRatio)
	eligible := false
	for _, m := range acc.Movements {
		if m.Amount.GreaterThanOrEqual(threshold) {
			eligible = true
			break
		}
	}
	if !eligible {
		return ErrLoanRefused
	}

	acc.Movements = append(acc.Movements, newMovement(time.Now().UTC(), amount))
	return nil
}

// CloseAccount removes the session's account from the store when the confirm
// credentials match the active account exactly, and logs the session out.
func (e *Engine) CloseAccount(ctx context.Context, sess *Session, confirmLoginID string, confirmPIN int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	acc, err := e.activeAccount(sess)
	if err != nil {
		return err
	}
	if confirmLoginID != acc.LoginID || confirmPIN != acc.PIN {
		return ErrInvalidCredentials
	}

	e.store.Remove(acc)
	sess.account = nil
	sess.sorted = false
	return nil
}

// Logout clears the session without touching the store.
func (e *Engine) Logout(sess *Session) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if sess == nil {
		return
	}
	sess.account = nil
	sess.sorted = false
}

// ToggleSort flips the session's display-order flag and returns the new value.
func (e *Engine) ToggleSort(sess *Session) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.activeAccount(sess); err != nil {
		return false
	}
	sess.sorted = !sess.sorted
	return sess.sorted
}

// View computes the refreshed view-state for the session's account.
func (e *Engine) View(sess *Session) (ViewState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	acc, err := e.activeAccount(sess)
	if err != nil {
		return ViewState{}, err
	}
	return buildView(acc, sess.sorted), nil
}

// activeAccount resolves the session's account, treating a session whose
// account has been closed elsewhere as logged out.
func (e *Engine) activeAccount(sess *Session) (*Account, error) {
	if !sess.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	acc := sess.account
	if e.store.FindByLoginID(acc.LoginID) != acc {
		sess.account = nil
		sess.sorted = false
		return nil, ErrNotLoggedIn
	}
	return acc, nil
}

func newMovement(at time.Time, amount decimal.Decimal) Movement {
	return Movement{ID: ids.New(), At: at, Amount: amount}
}
