package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"millstock/internal/core/id"
	"millstock/internal/domain"
	"millstock/internal/domain/documents/gate_inward"
	"millstock/internal/infrastructure/storage/postgres"
)

const (
	gateInwardsTable     = "doc_gate_inwards"
	gateInwardLinesTable = "doc_gate_inward_lines"
)

// GateInwardRepo implements gate_inward.Repository.
type GateInwardRepo struct {
	*BaseDocumentRepo[*gate_inward.GateInward]
}

var _ gate_inward.Repository = (*GateInwardRepo)(nil)

// NewGateInwardRepo creates a new gate inward repository.
func NewGateInwardRepo(txm *postgres.TxManager) *GateInwardRepo {
	return &GateInwardRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(txm, "gate inward", gateInwardsTable,
			postgres.ExtractDBColumns[gate_inward.GateInward](),
			func() *gate_inward.GateInward { return &gate_inward.GateInward{} },
		),
	}
}

func (r *GateInwardRepo) Create(ctx context.Context, doc *gate_inward.GateInward) error {
	if err := r.insertHeader(ctx, doc); err != nil {
		return err
	}
	return r.replaceLines(ctx, gateInwardLinesTable, doc.ID, lineColumns, lineRows(doc.ID, doc.Lines))
}

func (r *GateInwardRepo) Update(ctx context.Context, doc *gate_inward.GateInward) error {
	if err := r.updateHeader(ctx, &doc.Document, doc); err != nil {
		return err
	}
	return r.replaceLines(ctx, gateInwardLinesTable, doc.ID, lineColumns, lineRows(doc.ID, doc.Lines))
}

func (r *GateInwardRepo) GetByID(ctx context.Context, docID id.ID) (*gate_inward.GateInward, error) {
	return r.get(ctx, docID, false)
}

func (r *GateInwardRepo) GetForUpdate(ctx context.Context, docID id.ID) (*gate_inward.GateInward, error) {
	return r.get(ctx, docID, true)
}

func (r *GateInwardRepo) get(ctx context.Context, docID id.ID, forUpdate bool) (*gate_inward.GateInward, error) {
	doc, err := r.getHeader(ctx, docID, forUpdate)
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, gateInwardLinesTable, docID, &doc.Lines); err != nil {
		return nil, err
	}
	return doc, nil
}

// List returns headers only; lines are loaded by GetByID.
func (r *GateInwardRepo) List(ctx context.Context, filter gate_inward.ListFilter) (domain.ListResult[*gate_inward.GateInward], error) {
	// Search also matches the supplier bill number.
	base := filter.ListFilter
	base.Search = ""

	return r.list(ctx, base, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.SupplierID != nil {
			q = q.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
		}
		if filter.Search != "" {
			q = q.Where(squirrel.Or{
				squirrel.ILike{"number": "%" + filter.Search + "%"},
				squirrel.ILike{"bill_no": "%" + filter.Search + "%"},
			})
		}
		return q
	})
}
