// Package posting turns document lines into stock movements and applies them
// to the ledger. Each document type declares a Table mapping its line groups
// to (pool, direction) pairs; the Engine validates, applies and reverses the
// resulting MovementSet.
package posting

import (
	"cmp"
	"slices"

	"millstock/internal/core/entity"
	"millstock/internal/core/id"
	"millstock/internal/core/types"
	"millstock/internal/domain/registers/stock"
)

// Direction of a movement relative to its pool.
type Direction int8

const (
	// Inward increases the pool balance.
	Inward Direction = 1
	// Outward decreases the pool balance.
	Outward Direction = -1
)

func (d Direction) String() string {
	if d == Inward {
		return "inward"
	}
	return "outward"
}

// Inverse returns the opposite direction.
func (d Direction) Inverse() Direction { return -d }

// Rule maps one line group to one ledger effect.
type Rule struct {
	Group     string
	Pool      stock.Pool
	Direction Direction
}

// Table is a document type's declarative movement mapping.
// A group may appear in several rules (an issue note moves each line out of
// Main and into Floor).
type Table []Rule

// Line is the stock-relevant part of a document line.
type Line struct {
	LineNo   int
	ItemID   id.ID
	Quantity types.Quantity
}

// LinesOf projects document lines onto posting lines.
func LinesOf(lines []entity.Line) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		lineNo := l.LineNo
		if lineNo == 0 {
			lineNo = i + 1
		}
		out[i] = Line{LineNo: lineNo, ItemID: l.ItemID, Quantity: l.Quantity}
	}
	return out
}

// Movement is one ledger effect of one line.
type Movement struct {
	Group     string
	LineNo    int
	Pool      stock.Pool
	ItemID    id.ID
	Direction Direction
	Quantity  types.Quantity
}

// Delta is the signed quantity passed to the ledger.
func (m Movement) Delta() types.Quantity {
	if m.Direction == Outward {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// MovementSet is the full set of ledger effects of a document.
type MovementSet []Movement

// Movements expands line groups through the table. Groups without a rule are ignored.
func (t Table) Movements(groups map[string][]Line) MovementSet {
	var set MovementSet
	for _, rule := range t {
		for _, line := range groups[rule.Group] {
			set = append(set, Movement{
				Group:     rule.Group,
				LineNo:    line.LineNo,
				Pool:      rule.Pool,
				ItemID:    line.ItemID,
				Direction: rule.Direction,
				Quantity:  line.Quantity,
			})
		}
	}
	return set
}

// Inverse returns the set that undoes s.
func (s MovementSet) Inverse() MovementSet {
	out := make(MovementSet, len(s))
	for i, m := range s {
		m.Direction = m.Direction.Inverse()
		out[i] = m
	}
	return out
}

// ItemIDs returns the distinct items referenced by s, sorted.
func (s MovementSet) ItemIDs() []id.ID {
	ids := make([]id.ID, 0, len(s))
	for _, m := range s {
		ids = append(ids, m.ItemID)
	}
	return id.SortedUnique(ids)
}

// OutwardTotals sums outward quantities per item for one pool.
// Two lines drawing the same item are checked against the balance together.
func (s MovementSet) OutwardTotals(pool stock.Pool) map[id.ID]types.Quantity {
	totals := make(map[id.ID]types.Quantity)
	for _, m := range s {
		if m.Pool == pool && m.Direction == Outward {
			totals[m.ItemID] += m.Quantity
		}
	}
	return totals
}

// Change is the summed effect of a movement set on one (pool, item) balance.
type Change struct {
	Pool   stock.Pool
	ItemID id.ID
	Delta  types.Quantity

	// Group and LineNo name the first outward movement behind the change.
	Group  string
	LineNo int
}

// Net sums s per (pool, item) in lock order. Changes that cancel out are dropped.
func (s MovementSet) Net() []Change {
	var out []Change
	for _, m := range s.Sorted() {
		if n := len(out); n == 0 || out[n-1].Pool != m.Pool || out[n-1].ItemID != m.ItemID {
			out = append(out, Change{Pool: m.Pool, ItemID: m.ItemID})
		}
		c := &out[len(out)-1]
		c.Delta += m.Delta()
		if m.Direction == Outward && c.LineNo == 0 {
			c.Group, c.LineNo = m.Group, m.LineNo
		}
	}
	return slices.DeleteFunc(out, func(c Change) bool { return c.Delta.IsZero() })
}

// Sorted returns s ordered by pool, item and line so that concurrent writers
// take row locks in the same order.
func (s MovementSet) Sorted() MovementSet {
	out := slices.Clone(s)
	slices.SortStableFunc(out, func(a, b Movement) int {
		return cmp.Or(
			cmp.Compare(poolRank(a.Pool), poolRank(b.Pool)),
			id.Compare(a.ItemID, b.ItemID),
			cmp.Compare(a.Group, b.Group),
			cmp.Compare(a.LineNo, b.LineNo),
		)
	})
	return out
}

func poolRank(p stock.Pool) int {
	if p == stock.PoolMain {
		return 0
	}
	return 1
}

// Postable is a document whose lines produce stock movements.
type Postable interface {
	GetID() id.ID
	DocumentType() string
	Movements() MovementSet
}
