package inward_internal

import (
	"context"

	"millstock/internal/domain"
	"millstock/internal/domain/documents"
)

// Repository persists internal inwards with both line groups.
type Repository interface {
	documents.Store[*InwardInternal]

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*InwardInternal], error)
}

// ListFilter for filtering internal inwards.
type ListFilter struct {
	domain.ListFilter

	Department string
}
