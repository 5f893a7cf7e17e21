// Package issue_note provides the internal Issue Note: material moved from
// Main stock to the production floor.
package issue_note

import (
	"context"
	"strings"

	"millstock/internal/core/apperror"
	"millstock/internal/core/entity"
	"millstock/internal/domain/posting"
	"millstock/internal/domain/registers/stock"
)

// DocumentType identifies issue notes in logs and traces.
const DocumentType = "IssueNoteInternal"

// GroupItems is the only line group.
const GroupItems = "items"

// Movements: each line leaves Main and arrives on the Floor.
var Movements = posting.Table{
	{Group: GroupItems, Pool: stock.PoolMain, Direction: posting.Outward},
	{Group: GroupItems, Pool: stock.PoolFloor, Direction: posting.Inward},
}

// IssueNote is an internal issue of material to a department on the floor.
type IssueNote struct {
	entity.Document

	Department string `db:"department" json:"department"`
	IssuedBy   string `db:"issued_by" json:"issuedBy"`

	Lines []entity.Line `db:"-" json:"lines"`
}

// NewIssueNote creates a new issue note.
func NewIssueNote(department, issuedBy string) *IssueNote {
	return &IssueNote{
		Document:   entity.NewDocument(),
		Department: department,
		IssuedBy:   issuedBy,
	}
}

// Validate implements entity.Validatable.
func (n *IssueNote) Validate(ctx context.Context) error {
	if err := n.Document.Validate(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(n.Department) == "" {
		return apperror.NewValidation("department is required").
			WithDetail("field", "department")
	}
	if strings.TrimSpace(n.IssuedBy) == "" {
		return apperror.NewValidation("issued by is required").
			WithDetail("field", "issuedBy")
	}
	entity.NormalizeLines(n.Lines)
	return entity.ValidateLines(GroupItems, n.Lines, true)
}

func (n *IssueNote) DocumentType() string { return DocumentType }

func (n *IssueNote) LineCount() int { return len(n.Lines) }

// Movements implements posting.Postable.
func (n *IssueNote) Movements() posting.MovementSet {
	return Movements.Movements(map[string][]posting.Line{
		GroupItems: posting.LinesOf(n.Lines),
	})
}

// Clone returns a deep copy.
func (n *IssueNote) Clone() *IssueNote {
	c := *n
	c.Lines = entity.CloneLines(n.Lines)
	return &c
}

var _ posting.Postable = (*IssueNote)(nil)
