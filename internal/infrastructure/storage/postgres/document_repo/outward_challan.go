package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"millstock/internal/core/entity"
	"millstock/internal/core/id"
	"millstock/internal/domain"
	"millstock/internal/domain/documents/outward_challan"
	"millstock/internal/infrastructure/storage/postgres"
)

const (
	outwardChallansTable     = "doc_outward_challans"
	outwardChallanLinesTable = "doc_outward_challan_lines"
)

var challanLineColumns = append(append([]string{}, lineColumns...), "value_of_goods_uom")

// OutwardChallanRepo implements outward_challan.Repository.
type OutwardChallanRepo struct {
	*BaseDocumentRepo[*outward_challan.OutwardChallan]
}

var _ outward_challan.Repository = (*OutwardChallanRepo)(nil)

// NewOutwardChallanRepo creates a new outward challan repository.
func NewOutwardChallanRepo(txm *postgres.TxManager) *OutwardChallanRepo {
	return &OutwardChallanRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(txm, "outward challan", outwardChallansTable,
			postgres.ExtractDBColumns[outward_challan.OutwardChallan](),
			func() *outward_challan.OutwardChallan { return &outward_challan.OutwardChallan{} },
		),
	}
}

func (r *OutwardChallanRepo) Create(ctx context.Context, doc *outward_challan.OutwardChallan) error {
	if err := r.insertHeader(ctx, doc); err != nil {
		return err
	}
	return r.saveLines(ctx, doc)
}

func (r *OutwardChallanRepo) Update(ctx context.Context, doc *outward_challan.OutwardChallan) error {
	if err := r.updateHeader(ctx, &doc.Document, doc); err != nil {
		return err
	}
	return r.saveLines(ctx, doc)
}

func (r *OutwardChallanRepo) saveLines(ctx context.Context, doc *outward_challan.OutwardChallan) error {
	rows := make([][]any, len(doc.Lines))
	for i, l := range doc.Lines {
		rows[i] = append(lineRows(doc.ID, []entity.Line{l.Line})[0], l.ValueOfGoodsUOM)
	}
	return r.replaceLines(ctx, outwardChallanLinesTable, doc.ID, challanLineColumns, rows)
}

func (r *OutwardChallanRepo) GetByID(ctx context.Context, docID id.ID) (*outward_challan.OutwardChallan, error) {
	return r.get(ctx, docID, false)
}

func (r *OutwardChallanRepo) GetForUpdate(ctx context.Context, docID id.ID) (*outward_challan.OutwardChallan, error) {
	return r.get(ctx, docID, true)
}

func (r *OutwardChallanRepo) get(ctx context.Context, docID id.ID, forUpdate bool) (*outward_challan.OutwardChallan, error) {
	doc, err := r.getHeader(ctx, docID, forUpdate)
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, outwardChallanLinesTable, docID, &doc.Lines, "value_of_goods_uom"); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *OutwardChallanRepo) List(ctx context.Context, filter outward_challan.ListFilter) (domain.ListResult[*outward_challan.OutwardChallan], error) {
	return r.list(ctx, filter.ListFilter, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.PartyID != nil {
			q = q.Where(squirrel.Eq{"party_id": *filter.PartyID})
		}
		return q
	})
}
