// Package numerator provides domain contracts for document auto-numbering.
package numerator

import (
	"fmt"
	"regexp"
	"strconv"
)

// DefaultPadWidth matches the three-digit numbers operators already use (GRN-001).
const DefaultPadWidth = 3

// Config holds numbering configuration for one document type.
type Config struct {
	// Prefix added to all numbers (e.g., "GRN", "ISS")
	Prefix string

	// PadWidth is the minimum width of the numeric part
	PadWidth int
}

// DefaultConfig returns the standard configuration for a prefix.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:   prefix,
		PadWidth: DefaultPadWidth,
	}
}

// Format renders PREFIX-NNN.
func (c Config) Format(n int64) string {
	width := c.PadWidth
	if width <= 0 {
		width = DefaultPadWidth
	}
	return fmt.Sprintf("%s-%0*d", c.Prefix, width, n)
}

// Parse extracts the numeric suffix of a number in this config's format.
// Returns -1 when the number does not carry the prefix.
func (c Config) Parse(number string) int64 {
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(c.Prefix) + `-(\d+)$`)
	m := re.FindStringSubmatch(number)
	if m == nil {
		return -1
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return -1
	}
	return n
}
