package taxetrade

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents an exact monetary value in a given currency.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

func M[T float32 | float64 | int | int32 | int64 | string | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// EUR is shorthand for a reporting-currency amount.
func EUR[T float32 | float64 | int | int32 | int64 | string | decimal.Decimal](value T) Money {
	return M(value, "EUR")
}

// USD is shorthand for a source-currency amount.
func USD[T float32 | float64 | int | int32 | int64 | string | decimal.Decimal](value T) Money {
	return M(value, "USD")
}

// currency returns the money's currency metadata.
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String formats the amount with its currency symbol, e.g. "€1,611.34".
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.Round(0).IntPart())
}

func (m Money) Currency() string             { return m.cur }
func (m Money) Equal(n Money) bool           { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                 { return m.value.IsZero() }
func (m Money) IsPositive() bool             { return m.value.IsPositive() }
func (m Money) IsNegative() bool             { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool        { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool     { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money                   { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(n Quantity) Money         { return Money{value: m.value.Mul(n.value), cur: m.cur} }
func (m Money) Div(n Quantity) Money         { return Money{value: m.value.Div(n.value), cur: m.cur} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// Convert applies an exchange rate, yielding an amount in the target currency.
func (m Money) Convert(rate decimal.Decimal, currency string) Money {
	return Money{value: m.value.Mul(rate), cur: currency}
}

// Round4 rounds half-up to 4 decimal places, the precision used for
// per-share and total amounts throughout the ledger.
func (m Money) Round4() Money { return Money{value: m.value.Round(4), cur: m.cur} }

// Round2 rounds half-up to cents, used for the final tax amounts.
func (m Money) Round2() Money { return Money{value: m.value.Round(2), cur: m.cur} }

// Decimal returns the underlying exact decimal value.
func (m Money) Decimal() decimal.Decimal { return m.value }

// makes the "" currency totally weak.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + "!=" + b.cur)
	}
	return a.cur
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as "-".
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

// StringFixed4 renders the bare amount with exactly 4 decimal places,
// the form used in ledger tables.
func (m Money) StringFixed4() string { return m.value.StringFixed(4) }

// StringFixed2 renders the bare amount with exactly 2 decimal places.
func (m Money) StringFixed2() string { return m.value.StringFixed(2) }

// MarshalJSON encodes the bare decimal amount.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.value.MarshalJSON()
}
