// Package price implements the fixed-point decimal type used for every
// outcome price, size, and basis-point conversion in the compute core.
//
// Prices and sizes must never drift the way float64 does at cent/bps
// boundaries (0.1 + 0.2 != 0.3). Price wraps shopspring/decimal, which
// stores an arbitrary-precision unscaled integer plus an exponent, so
// addition and subtraction are always exact.
package price

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// minBpsDigits is the minimum fractional precision prices carry (at least
// 6 digits per spec). Div rounds its quotient to minBpsDigits+4 digits;
// BpsOf does not use it and divides at the decimal library's default
// division precision before flooring.
const minBpsDigits = 6

// Price is an exact fixed-point decimal. The zero value is 0. Parse rejects
// negative input, but Sub can produce a negative Price.
type Price struct {
	d decimal.Decimal
}

// Zero is the additive identity.
var Zero = Price{d: decimal.Zero}

// One represents 1.0 — the unity constraint target for NegRisk markets.
var One = Price{d: decimal.NewFromInt(1)}

// New builds a Price from an integer mantissa and a power-of-ten exponent,
// e.g. New(155, -2) == 1.55.
func New(mantissa int64, exp int32) Price {
	return Price{d: decimal.New(mantissa, exp)}
}

// Parse reads a decimal string such as "0.55" or "100". Returns an error
// on malformed or negative input; the error does not wrap
// types.ErrInvalidInput.
func Parse(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, fmt.Errorf("parse price %q: %w", s, err)
	}
	if d.IsNegative() {
		return Price{}, fmt.Errorf("parse price %q: negative price not allowed", s)
	}
	return Price{d: d}, nil
}

// MustParse is Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Price {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// FromFloat converts a float64 to a Price. Reserved for callers at the
// vulture boundary (§4.6), which is explicitly tolerance-based; the
// correlation/NegRisk paths must never round-trip through float64.
func FromFloat(f float64) Price {
	return Price{d: decimal.NewFromFloat(f)}
}

// Float64 returns the price as a float64. Lossy for very high precision
// values; only safe for the vulture heuristic and display/logging.
func (p Price) Float64() float64 {
	f, _ := p.d.Float64()
	return f
}

func (p Price) String() string {
	return p.d.String()
}

// IsZero reports whether the price is exactly zero.
func (p Price) IsZero() bool {
	return p.d.IsZero()
}

// Sign returns -1, 0, or 1.
func (p Price) Sign() int {
	return p.d.Sign()
}

// Add returns p + q, exactly.
func (p Price) Add(q Price) Price {
	return Price{d: p.d.Add(q.d)}
}

// Sub returns p - q, exactly. May be negative (e.g. spread = ask - bid).
func (p Price) Sub(q Price) Price {
	return Price{d: p.d.Sub(q.d)}
}

// Mul returns p * q, exactly.
func (p Price) Mul(q Price) Price {
	return Price{d: p.d.Mul(q.d)}
}

// Div returns p / q at minBpsDigits+4 digits of precision. Division of
// fixed-point decimals is not generally exact, so this is used only for
// ratios destined for bps conversion or display, never for re-stored
// prices/sizes.
func (p Price) Div(q Price) (Price, bool) {
	if q.IsZero() {
		return Price{}, false
	}
	return Price{d: p.d.DivRound(q.d, minBpsDigits+4)}, true
}

// Cmp returns -1, 0, 1 as p is less than, equal to, or greater than q.
func (p Price) Cmp(q Price) int {
	return p.d.Cmp(q.d)
}

// LessThan reports whether p < q.
func (p Price) LessThan(q Price) bool { return p.d.LessThan(q.d) }

// GreaterThan reports whether p > q.
func (p Price) GreaterThan(q Price) bool { return p.d.GreaterThan(q.d) }

// LessThanOrEqual reports whether p <= q.
func (p Price) LessThanOrEqual(q Price) bool { return p.d.LessThanOrEqual(q.d) }

// GreaterThanOrEqual reports whether p >= q.
func (p Price) GreaterThanOrEqual(q Price) bool { return p.d.GreaterThanOrEqual(q.d) }

// Sum adds a slice of prices exactly, left to right.
func Sum(ps []Price) Price {
	total := Zero
	for _, p := range ps {
		total = total.Add(p)
	}
	return total
}

// BpsOf computes floor((p / base) * 10000) as an int64 basis-point
// value. Used for spread_bps, edge_bps, and profit_bps throughout the
// core. Returns 0 if base is zero (caller is expected to have already
// guarded against an undefined mid/cost), and returns 0 when the result
// does not fit in an int64: arithmetic overflow is clamped to 0, not
// propagated, so a minimum-bps filter drops it.
func (p Price) BpsOf(base Price) int64 {
	if base.IsZero() {
		return 0
	}
	ratio := p.d.Div(base.d)
	scaled := ratio.Mul(decimal.NewFromInt(10000))
	floored := scaled.Floor()

	bigInt := floored.BigInt()
	if !bigInt.IsInt64() {
		return 0
	}
	return bigInt.Int64()
}

// ToBaseUnits returns floor(p * 10^decimals) as a big.Int — the exchange's
// fixed-point base-unit representation (6 decimals for USDC and outcome
// tokens, per spec.md §3/§4.7 amount calculation).
func (p Price) ToBaseUnits(decimals int32) *big.Int {
	scaled := p.d.Shift(decimals).Floor()
	return scaled.BigInt()
}

// MarshalJSON encodes the price as a decimal string, e.g. "0.55".
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.d.String())
}

// UnmarshalJSON decodes a decimal string or JSON number into a Price.
func (p *Price) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := Parse(s)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("unmarshal price: %w", err)
	}
	p.d = d
	return nil
}
