package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Rate is the value of one unit of the snapshot base in a target currency.
type Rate struct {
	Value decimal.Decimal
	AsOf  time.Time
}

// RateSnapshot maps a base currency to the rates that could be resolved.
// Missing entries are normal.
type RateSnapshot struct {
	Base      string
	Rates     map[string]Rate
	FetchedAt time.Time
}

// NewRateSnapshot creates an empty snapshot for base.
func NewRateSnapshot(base string, fetchedAt time.Time) *RateSnapshot {
	return &RateSnapshot{
		Base:      NormalizeCurrency(base),
		Rates:     make(map[string]Rate),
		FetchedAt: fetchedAt,
	}
}

// Set records the rate for code. Non-positive values are ignored.
func (s *RateSnapshot) Set(code string, value decimal.Decimal, asOf time.Time) {
	if !value.IsPositive() {
		return
	}
	s.Rates[NormalizeCurrency(code)] = Rate{Value: value, AsOf: asOf}
}

// Has reports whether code can be converted from or to the base.
func (s *RateSnapshot) Has(code string) bool {
	code = NormalizeCurrency(code)
	if code == s.Base {
		return true
	}
	_, ok := s.Rates[code]
	return ok
}

// Symbols returns the resolved target codes in sorted order.
func (s *RateSnapshot) Symbols() []string {
	symbols := make([]string, 0, len(s.Rates))
	for code := range s.Rates {
		symbols = append(symbols, code)
	}
	sort.Strings(symbols)
	return symbols
}

func (s *RateSnapshot) lookup(code string) (decimal.Decimal, error) {
	r, ok := s.Rates[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s/%s", ErrRateUnavailable, s.Base, code)
	}
	return r.Value, nil
}

// Rate resolves the multiplier converting from into to, bridging through the base
// when neither side is the base.
func (s *RateSnapshot) Rate(from, to string) (decimal.Decimal, error) {
	from, to = NormalizeCurrency(from), NormalizeCurrency(to)
	one := decimal.NewFromInt(1)

	switch {
	case from == to:
		return one, nil
	case from == s.Base:
		return s.lookup(to)
	case to == s.Base:
		r, err := s.lookup(from)
		if err != nil {
			return decimal.Zero, err
		}
		return one.Div(r), nil
	default:
		rFrom, err := s.lookup(from)
		if err != nil {
			return decimal.Zero, err
		}
		rTo, err := s.lookup(to)
		if err != nil {
			return decimal.Zero, err
		}
		return one.Div(rFrom).Mul(rTo), nil
	}
}

// Convert converts amount and returns the converted value with the rate used.
// No rounding is applied.
func (s *RateSnapshot) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, decimal.Decimal, error) {
	rate, err := s.Rate(from, to)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return amount.Mul(rate), rate, nil
}
