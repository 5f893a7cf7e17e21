package outward_challan

import (
	"context"

	"millstock/internal/core/id"
	"millstock/internal/domain"
	"millstock/internal/domain/documents"
)

// Repository persists challans with their lines.
type Repository interface {
	documents.Store[*OutwardChallan]

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*OutwardChallan], error)
}

// ListFilter for filtering challans.
type ListFilter struct {
	domain.ListFilter

	PartyID *id.ID
}
