package httpapi

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// The demo front-end submits raw field values, so pins and amounts may arrive
// as JSON numbers or strings. Non-numeric input coerces to a value that fails
// every precondition instead of failing the decode.

// looseAmount accepts a JSON number or numeric string. Junk coerces to zero,
// which fails the amount > 0 precondition downstream.
type looseAmount struct {
	dec decimal.Decimal
}

func (a *looseAmount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	raw = strings.TrimSpace(strings.Trim(raw, `"`))
	d, err := decimal.NewFromString(raw)
	if err != nil {
		a.dec = decimal.Zero
		return nil
	}
	a.dec = d
	return nil
}

func (a looseAmount) Decimal() decimal.Decimal {
	return a.dec
}

// loosePIN accepts a JSON number or numeric string. Junk coerces to -1, which
// never equals a stored pin.
type loosePIN struct {
	value int
}

func (p *loosePIN) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	raw = strings.TrimSpace(strings.Trim(raw, `"`))
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.value = -1
		return nil
	}
	p.value = v
	return nil
}

func (p loosePIN) Int() int {
	return p.value
}
