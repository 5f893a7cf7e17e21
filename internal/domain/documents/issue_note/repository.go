package issue_note

import (
	"context"

	"millstock/internal/domain"
	"millstock/internal/domain/documents"
)

// Repository persists issue notes with their lines.
type Repository interface {
	documents.Store[*IssueNote]

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*IssueNote], error)
}

// ListFilter for filtering issue notes.
type ListFilter struct {
	domain.ListFilter

	Department string
}
