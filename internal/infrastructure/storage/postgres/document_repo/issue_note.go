package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"millstock/internal/core/id"
	"millstock/internal/domain"
	"millstock/internal/domain/documents/issue_note"
	"millstock/internal/infrastructure/storage/postgres"
)

const (
	issueNotesTable     = "doc_issue_notes"
	issueNoteLinesTable = "doc_issue_note_lines"
)

// IssueNoteRepo implements issue_note.Repository.
type IssueNoteRepo struct {
	*BaseDocumentRepo[*issue_note.IssueNote]
}

var _ issue_note.Repository = (*IssueNoteRepo)(nil)

// NewIssueNoteRepo creates a new issue note repository.
func NewIssueNoteRepo(txm *postgres.TxManager) *IssueNoteRepo {
	return &IssueNoteRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(txm, "issue note", issueNotesTable,
			postgres.ExtractDBColumns[issue_note.IssueNote](),
			func() *issue_note.IssueNote { return &issue_note.IssueNote{} },
		),
	}
}

func (r *IssueNoteRepo) Create(ctx context.Context, doc *issue_note.IssueNote) error {
	if err := r.insertHeader(ctx, doc); err != nil {
		return err
	}
	return r.replaceLines(ctx, issueNoteLinesTable, doc.ID, lineColumns, lineRows(doc.ID, doc.Lines))
}

func (r *IssueNoteRepo) Update(ctx context.Context, doc *issue_note.IssueNote) error {
	if err := r.updateHeader(ctx, &doc.Document, doc); err != nil {
		return err
	}
	return r.replaceLines(ctx, issueNoteLinesTable, doc.ID, lineColumns, lineRows(doc.ID, doc.Lines))
}

func (r *IssueNoteRepo) GetByID(ctx context.Context, docID id.ID) (*issue_note.IssueNote, error) {
	return r.get(ctx, docID, false)
}

func (r *IssueNoteRepo) GetForUpdate(ctx context.Context, docID id.ID) (*issue_note.IssueNote, error) {
	return r.get(ctx, docID, true)
}

func (r *IssueNoteRepo) get(ctx context.Context, docID id.ID, forUpdate bool) (*issue_note.IssueNote, error) {
	doc, err := r.getHeader(ctx, docID, forUpdate)
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, issueNoteLinesTable, docID, &doc.Lines); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *IssueNoteRepo) List(ctx context.Context, filter issue_note.ListFilter) (domain.ListResult[*issue_note.IssueNote], error) {
	return r.list(ctx, filter.ListFilter, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.Department != "" {
			q = q.Where(squirrel.Eq{"department": filter.Department})
		}
		return q
	})
}
