// Package money provides exact decimal arithmetic for ledger amounts.
// All amounts, quantities, rates, and balances in the engine are
// shopspring decimals; nothing ledger-affecting ever passes through a
// binary float.
package money

import (
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// minScale and maxScale bound the fractional digits the ledger supports.
// maxScale matches the numeric(20,4) precision of the stored balance and
// amount columns; a wider scale would be rounded away on write.
const (
	minScale = 2
	maxScale = 4
)

// scale holds the configured number of fractional digits.
var scale atomic.Int32

func init() {
	scale.Store(minScale)
}

// SetScale configures the ledger-wide decimal scale. Values are clamped to
// the two-to-four digit range the storage columns can hold. Call once at
// startup, before any posting.
func SetScale(s int32) {
	if s < minScale {
		s = minScale
	}
	if s > maxScale {
		s = maxScale
	}
	scale.Store(s)
}

// Scale returns the configured decimal scale.
func Scale() int32 {
	return scale.Load()
}

// Zero is the additive identity at any scale.
func Zero() decimal.Decimal {
	return decimal.Zero
}

// Tax computes value × rate / 100 rounded half-to-even at the configured
// scale. This is the single rounding point in the engine: tax amounts are
// rounded exactly once here and never re-rounded downstream.
func Tax(value, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return decimal.Zero
	}
	return value.Mul(rate).Div(decimal.NewFromInt(100)).RoundBank(scale.Load())
}

// Sum adds a series of decimals exactly.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Equal reports exact decimal equality (1.5 equals 1.50).
func Equal(a, b decimal.Decimal) bool {
	return a.Equal(b)
}

// String renders a decimal at the configured scale, e.g. "120.00".
func String(v decimal.Decimal) string {
	return v.StringFixed(scale.Load())
}
