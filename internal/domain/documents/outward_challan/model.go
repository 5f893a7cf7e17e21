// Package outward_challan provides the Outward Challan: goods dispatched from
// Main stock to an outside party.
package outward_challan

import (
	"context"

	"millstock/internal/core/apperror"
	"millstock/internal/core/entity"
	"millstock/internal/core/id"
	"millstock/internal/domain/posting"
	"millstock/internal/domain/registers/stock"
)

// DocumentType identifies challans in logs and traces.
const DocumentType = "OutwardChallan"

// GroupItems is the only line group.
const GroupItems = "items"

// Movements: every line leaves Main.
var Movements = posting.Table{
	{Group: GroupItems, Pool: stock.PoolMain, Direction: posting.Outward},
}

// OutwardChallan is a delivery challan.
type OutwardChallan struct {
	entity.Document

	PartyID   id.ID  `db:"party_id" json:"partyId"`
	Transport string `db:"transport" json:"transport,omitempty"`
	LRNo      string `db:"lr_no" json:"lrNo,omitempty"`
	Remark    string `db:"remark" json:"remark,omitempty"`

	Lines []ChallanLine `db:"-" json:"lines"`
}

// ChallanLine adds the declared unit for the value of goods.
type ChallanLine struct {
	entity.Line
	ValueOfGoodsUOM string `db:"value_of_goods_uom" json:"valueOfGoodsUom,omitempty"`
}

// NewOutwardChallan creates a new challan for a party.
func NewOutwardChallan(partyID id.ID) *OutwardChallan {
	return &OutwardChallan{
		Document: entity.NewDocument(),
		PartyID:  partyID,
	}
}

// Validate implements entity.Validatable.
func (c *OutwardChallan) Validate(ctx context.Context) error {
	if err := c.Document.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(c.PartyID) {
		return apperror.NewValidation("party is required").
			WithDetail("field", "partyId")
	}

	lines := c.baseLines()
	entity.NormalizeLines(lines)
	for i := range c.Lines {
		c.Lines[i].Line = lines[i]
	}
	return entity.ValidateLines(GroupItems, lines, true)
}

func (c *OutwardChallan) baseLines() []entity.Line {
	lines := make([]entity.Line, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = l.Line
	}
	return lines
}

func (c *OutwardChallan) DocumentType() string { return DocumentType }

func (c *OutwardChallan) LineCount() int { return len(c.Lines) }

// Movements implements posting.Postable.
func (c *OutwardChallan) Movements() posting.MovementSet {
	return Movements.Movements(map[string][]posting.Line{
		GroupItems: posting.LinesOf(c.baseLines()),
	})
}

// Clone returns a deep copy.
func (c *OutwardChallan) Clone() *OutwardChallan {
	out := *c
	if c.Lines != nil {
		out.Lines = make([]ChallanLine, len(c.Lines))
		copy(out.Lines, c.Lines)
	}
	return &out
}

var _ posting.Postable = (*OutwardChallan)(nil)
