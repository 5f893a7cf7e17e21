// Package inward_internal provides the internal Inward: finished goods booked
// into Main stock together with the floor materials consumed to make them.
package inward_internal

import (
	"context"
	"strings"

	"millstock/internal/core/apperror"
	"millstock/internal/core/entity"
	"millstock/internal/domain/posting"
	"millstock/internal/domain/registers/stock"
)

// DocumentType identifies internal inwards in logs and traces.
const DocumentType = "InwardInternal"

// Line groups.
const (
	GroupFinishedGoods = "finishedGoods"
	GroupMaterialsUsed = "materialsUsed"
)

// Movements: finished goods arrive in Main, consumed materials leave the Floor.
var Movements = posting.Table{
	{Group: GroupFinishedGoods, Pool: stock.PoolMain, Direction: posting.Inward},
	{Group: GroupMaterialsUsed, Pool: stock.PoolFloor, Direction: posting.Outward},
}

// InwardInternal records production output and its material consumption.
// Both groups are posted as one unit: if any material is short, no finished
// good is booked either.
type InwardInternal struct {
	entity.Document

	ReceivedBy string `db:"received_by" json:"receivedBy"`
	Department string `db:"department" json:"department,omitempty"`

	FinishedGoods []entity.Line `db:"-" json:"finishedGoods"`
	MaterialsUsed []entity.Line `db:"-" json:"materialsUsed"`
}

// NewInwardInternal creates a new internal inward.
func NewInwardInternal(receivedBy string) *InwardInternal {
	return &InwardInternal{
		Document:   entity.NewDocument(),
		ReceivedBy: receivedBy,
	}
}

// Validate implements entity.Validatable.
// Either group may be empty, but not both.
func (d *InwardInternal) Validate(ctx context.Context) error {
	if err := d.Document.Validate(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(d.ReceivedBy) == "" {
		return apperror.NewValidation("received by is required").
			WithDetail("field", "receivedBy")
	}
	if len(d.FinishedGoods)+len(d.MaterialsUsed) == 0 {
		return apperror.NewValidation("at least one finished good or material line is required").
			WithDetail("field", GroupFinishedGoods)
	}

	entity.NormalizeLines(d.FinishedGoods)
	entity.NormalizeLines(d.MaterialsUsed)
	if err := entity.ValidateLines(GroupFinishedGoods, d.FinishedGoods, false); err != nil {
		return err
	}
	return entity.ValidateLines(GroupMaterialsUsed, d.MaterialsUsed, false)
}

func (d *InwardInternal) DocumentType() string { return DocumentType }

func (d *InwardInternal) LineCount() int { return len(d.FinishedGoods) + len(d.MaterialsUsed) }

// Movements implements posting.Postable.
func (d *InwardInternal) Movements() posting.MovementSet {
	return Movements.Movements(map[string][]posting.Line{
		GroupFinishedGoods: posting.LinesOf(d.FinishedGoods),
		GroupMaterialsUsed: posting.LinesOf(d.MaterialsUsed),
	})
}

// Clone returns a deep copy.
func (d *InwardInternal) Clone() *InwardInternal {
	c := *d
	c.FinishedGoods = entity.CloneLines(d.FinishedGoods)
	c.MaterialsUsed = entity.CloneLines(d.MaterialsUsed)
	return &c
}

var _ posting.Postable = (*InwardInternal)(nil)
