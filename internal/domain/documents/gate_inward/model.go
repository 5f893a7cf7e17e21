// Package gate_inward provides the Gate Inward document: goods received from
// a supplier at the gate and booked into Main stock.
package gate_inward

import (
	"context"
	"time"

	"millstock/internal/core/apperror"
	"millstock/internal/core/entity"
	"millstock/internal/core/id"
	"millstock/internal/domain/posting"
	"millstock/internal/domain/registers/stock"
)

// DocumentType identifies gate inwards in logs and traces.
const DocumentType = "GateInward"

// GroupItems is the only line group.
const GroupItems = "items"

// Movements: every line is received into Main.
var Movements = posting.Table{
	{Group: GroupItems, Pool: stock.PoolMain, Direction: posting.Inward},
}

// GateInward is a goods receipt note (GRN).
type GateInward struct {
	entity.Document

	SupplierID   id.ID      `db:"supplier_id" json:"supplierId"`
	BillNo       string     `db:"bill_no" json:"billNo,omitempty"`
	BillDate     *time.Time `db:"bill_date" json:"billDate,omitempty"`
	PaymentTerms string     `db:"payment_terms" json:"paymentTerms,omitempty"`

	Lines []entity.Line `db:"-" json:"lines"`
}

// NewGateInward creates a new gate inward for a supplier.
func NewGateInward(supplierID id.ID) *GateInward {
	return &GateInward{
		Document:   entity.NewDocument(),
		SupplierID: supplierID,
	}
}

// Validate implements entity.Validatable.
func (g *GateInward) Validate(ctx context.Context) error {
	if err := g.Document.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(g.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}
	entity.NormalizeLines(g.Lines)
	return entity.ValidateLines(GroupItems, g.Lines, true)
}

func (g *GateInward) DocumentType() string { return DocumentType }

func (g *GateInward) LineCount() int { return len(g.Lines) }

// Movements implements posting.Postable.
func (g *GateInward) Movements() posting.MovementSet {
	return Movements.Movements(map[string][]posting.Line{
		GroupItems: posting.LinesOf(g.Lines),
	})
}

// Clone returns a deep copy.
func (g *GateInward) Clone() *GateInward {
	c := *g
	c.Lines = entity.CloneLines(g.Lines)
	if g.BillDate != nil {
		d := *g.BillDate
		c.BillDate = &d
	}
	return &c
}

var _ posting.Postable = (*GateInward)(nil)
