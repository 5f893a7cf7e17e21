// Package id provides identifiers for items, documents and document lines.
// UUIDv7 is time-ordered, so new documents sort naturally by creation time.
package id

import (
	"bytes"
	"slices"

	"github.com/google/uuid"
)

// ID is a type alias for UUID, used across all entities.
type ID = uuid.UUID

// New generates a new UUIDv7.
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse converts string to ID, panics on error.
// Use only for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns zero-value UUID.
func Nil() ID {
	return uuid.Nil
}

// IsNil checks if ID is zero-value.
func IsNil(v ID) bool {
	return v == uuid.Nil
}

// Compare orders two IDs bytewise.
func Compare(a, b ID) int {
	return bytes.Compare(a[:], b[:])
}

// SortedUnique returns the distinct ids in ascending order.
// Row locks are always taken in this order to keep concurrent writers deadlock-free.
func SortedUnique(ids []ID) []ID {
	out := slices.Clone(ids)
	slices.SortFunc(out, Compare)
	return slices.Compact(out)
}
