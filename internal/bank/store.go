package bank

import (
	"fmt"
	"strings"
	"unicode"
)

// DeriveLoginID lower-cases the first character of each whitespace-separated
// word in owner and concatenates them ("Steven Thomas Williams" -> "stw").
func DeriveLoginID(owner string) string {
	var b strings.Builder
	for _, word := range strings.Fields(owner) {
		for _, r := range word {
			b.WriteRune(unicode.ToLower(r))
			break
		}
	}
	return b.String()
}

// Store is an ordered collection of accounts. Login ids are derived exactly
// once, at construction, and stay stable for the lifetime of the store.
type Store struct {
	accounts []*Account
	byLogin  map[string]*Account
}

// NewStore derives a login id for every account and indexes them. Accounts
// whose derived id collides with an earlier one are rejected, so lookups stay
// unambiguous.
func NewStore(accounts ...*Account) (*Store, error) {
	s := &Store{byLogin: make(map[string]*Account, len(accounts))}
	for _, acc := range accounts {
		id := DeriveLoginID(acc.Owner)
		if id == "" {
			return nil, fmt.Errorf("account %q: empty login id", acc.Owner)
		}
		if _, taken := s.byLogin[id]; taken {
			return nil, fmt.Errorf("account %q: %w: %q", acc.Owner, ErrDuplicateLoginID, id)
		}
		acc.LoginID = id
		s.accounts = append(s.accounts, acc)
		s.byLogin[id] = acc
	}
	return s, nil
}

// FindByLoginID returns the account for id, or nil when none exists.
func (s *Store) FindByLoginID(id string) *Account {
	return s.byLogin[id]
}

// Remove deletes the account from the store. Subsequent lookups by its login
// id fail. Reports whether the account was present.
func (s *Store) Remove(acc *Account) bool {
	existing, ok := s.byLogin[acc.LoginID]
	if !ok || existing != acc {
		return false
	}
	delete(s.byLogin, acc.LoginID)
	for i, a := range s.accounts {
		if a == acc {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of accounts in the store.
func (s *Store) Len() int {
	return len(s.accounts)
}
