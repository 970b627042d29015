package bank

import "time"

// Session holds the currently authenticated account, or none. It is created
// by Engine.Authenticate and cleared by account closure or logout; it is
// never persisted. The sorted flag drives display ordering and resets to
// false on every fresh login.
type Session struct {
	account   *Account
	sorted    bool
	startedAt time.Time
}

// LoggedIn reports whether the session has an active account.
func (s *Session) LoggedIn() bool {
	return s != nil && s.account != nil
}

// Account returns the active account, or nil when logged out.
func (s *Session) Account() *Account {
	if s == nil {
		return nil
	}
	return s.account
}

// Sorted reports the current display-order flag.
func (s *Session) Sorted() bool {
	return s != nil && s.sorted
}

// StartedAt is the login time.
func (s *Session) StartedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.startedAt
}
