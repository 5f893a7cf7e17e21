package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"millstock/internal/core/id"
	"millstock/internal/domain"
	"millstock/internal/domain/documents/inward_internal"
	"millstock/internal/infrastructure/storage/postgres"
)

const (
	inwardInternalsTable    = "doc_inward_internals"
	finishedGoodsLinesTable = "doc_inward_internal_finished_goods"
	materialsUsedLinesTable = "doc_inward_internal_materials_used"
)

// InwardInternalRepo implements inward_internal.Repository.
// Each line group has its own table.
type InwardInternalRepo struct {
	*BaseDocumentRepo[*inward_internal.InwardInternal]
}

var _ inward_internal.Repository = (*InwardInternalRepo)(nil)

// NewInwardInternalRepo creates a new internal inward repository.
func NewInwardInternalRepo(txm *postgres.TxManager) *InwardInternalRepo {
	return &InwardInternalRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(txm, "inward internal", inwardInternalsTable,
			postgres.ExtractDBColumns[inward_internal.InwardInternal](),
			func() *inward_internal.InwardInternal { return &inward_internal.InwardInternal{} },
		),
	}
}

func (r *InwardInternalRepo) Create(ctx context.Context, doc *inward_internal.InwardInternal) error {
	if err := r.insertHeader(ctx, doc); err != nil {
		return err
	}
	return r.saveLines(ctx, doc)
}

func (r *InwardInternalRepo) Update(ctx context.Context, doc *inward_internal.InwardInternal) error {
	if err := r.updateHeader(ctx, &doc.Document, doc); err != nil {
		return err
	}
	return r.saveLines(ctx, doc)
}

func (r *InwardInternalRepo) saveLines(ctx context.Context, doc *inward_internal.InwardInternal) error {
	if err := r.replaceLines(ctx, finishedGoodsLinesTable, doc.ID, lineColumns, lineRows(doc.ID, doc.FinishedGoods)); err != nil {
		return err
	}
	return r.replaceLines(ctx, materialsUsedLinesTable, doc.ID, lineColumns, lineRows(doc.ID, doc.MaterialsUsed))
}

func (r *InwardInternalRepo) GetByID(ctx context.Context, docID id.ID) (*inward_internal.InwardInternal, error) {
	return r.get(ctx, docID, false)
}

func (r *InwardInternalRepo) GetForUpdate(ctx context.Context, docID id.ID) (*inward_internal.InwardInternal, error) {
	return r.get(ctx, docID, true)
}

func (r *InwardInternalRepo) get(ctx context.Context, docID id.ID, forUpdate bool) (*inward_internal.InwardInternal, error) {
	doc, err := r.getHeader(ctx, docID, forUpdate)
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, finishedGoodsLinesTable, docID, &doc.FinishedGoods); err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, materialsUsedLinesTable, docID, &doc.MaterialsUsed); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *InwardInternalRepo) List(ctx context.Context, filter inward_internal.ListFilter) (domain.ListResult[*inward_internal.InwardInternal], error) {
	return r.list(ctx, filter.ListFilter, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.Department != "" {
			q = q.Where(squirrel.Eq{"department": filter.Department})
		}
		return q
	})
}
