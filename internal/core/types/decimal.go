// Package types provides the numeric types shared by the ledger and documents.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Rate is a per-unit price carried through documents unchanged.
// Uses decimal.Decimal to avoid floating-point errors.
type Rate = decimal.Decimal

// NewRateFromString creates a Rate from a string.
func NewRateFromString(s string) (Rate, error) {
	return decimal.NewFromString(s)
}

// MustRate creates a Rate from a string, panics on error.
// Use only for constants and tests.
func MustRate(s string) Rate {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ZeroRate returns a zero Rate.
func ZeroRate() Rate {
	return decimal.Zero
}

// Amount returns quantity × rate rounded to 2 places.
func Amount(q Quantity, rate Rate) decimal.Decimal {
	return rate.Mul(q.Decimal()).Round(2)
}

// Quantity is a fixed-point quantity with 4 decimal places (scale = 1e4).
//
// Stored as a scaled BIGINT so that `stock = stock + delta` stays an exact
// integer operation in the database.
type Quantity int64

const quantityPlaces = 4

// QuantityScale is the number of Quantity units in one whole unit.
const QuantityScale int64 = 10_000

// NewQuantityFromInt creates a whole-unit quantity.
func NewQuantityFromInt(units int64) Quantity { return Quantity(units * QuantityScale) }

// NewQuantityFromInt64Scaled wraps a value already scaled by QuantityScale,
// as read from a BIGINT column.
func NewQuantityFromInt64Scaled(v int64) Quantity { return Quantity(v) }

// ParseQuantity parses a decimal string such as "12.5". Digits past the
// fourth decimal place are truncated.
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty quantity")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse quantity %q: %w", s, err)
	}
	return Quantity(d.Shift(quantityPlaces).Truncate(0).IntPart()), nil
}

// Int64Scaled returns the raw scaled value for storage.
func (q Quantity) Int64Scaled() int64 { return int64(q) }

// Decimal converts the quantity to a decimal.Decimal with 4 fractional digits.
func (q Quantity) Decimal() decimal.Decimal { return decimal.New(int64(q), -quantityPlaces) }

func (q Quantity) IsZero() bool { return q == 0 }

func (q Quantity) IsPositive() bool { return q > 0 }

func (q Quantity) IsNegative() bool { return q < 0 }

func (q Quantity) Neg() Quantity { return -q }

// String returns a decimal string with 4 fractional digits.
func (q Quantity) String() string { return q.Decimal().StringFixed(quantityPlaces) }

// MarshalJSON encodes Quantity as a JSON number with 4 fractional digits.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a numeric string.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}

	parsed, err := ParseQuantity(raw)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
