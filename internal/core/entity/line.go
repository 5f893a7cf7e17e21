package entity

import (
	"millstock/internal/core/apperror"
	"millstock/internal/core/id"
	"millstock/internal/core/types"

	"github.com/shopspring/decimal"
)

// DefaultUOM is used when a line arrives without a unit of measure.
const DefaultUOM = "PC"

// Line is one item/quantity/rate entry of a document.
type Line struct {
	LineID   id.ID           `db:"line_id" json:"lineId"`
	LineNo   int             `db:"line_no" json:"lineNo"`
	ItemID   id.ID           `db:"item_id" json:"itemId"`
	Quantity types.Quantity  `db:"quantity" json:"quantity"`
	UnitRate types.Rate      `db:"unit_rate" json:"unitRate"`
	UOM      string          `db:"uom" json:"uom"`
	Amount   decimal.Decimal `db:"amount" json:"amount"`
	Remark   string          `db:"remark" json:"remark,omitempty"`
}

// NormalizeLines numbers lines, fills defaults and derives every amount as
// quantity × unit rate.
func NormalizeLines(lines []Line) {
	for i := range lines {
		l := &lines[i]
		l.LineNo = i + 1
		if id.IsNil(l.LineID) {
			l.LineID = id.New()
		}
		if l.UOM == "" {
			l.UOM = DefaultUOM
		}
		l.Amount = types.Amount(l.Quantity, l.UnitRate)
	}
}

// ValidateLines checks the per-line invariants of one line group.
func ValidateLines(group string, lines []Line, required bool) error {
	if required && len(lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", group)
	}

	for i, line := range lines {
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("item is required").
				WithDetail("field", group).
				WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", group).
				WithDetail("lineNo", i+1)
		}
		if line.UnitRate.IsNegative() {
			return apperror.NewValidation("unit rate must not be negative").
				WithDetail("field", group).
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// CloneLines returns an independent copy of lines.
func CloneLines(lines []Line) []Line {
	if lines == nil {
		return nil
	}
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}
