package gate_inward

import (
	"context"

	"millstock/internal/core/id"
	"millstock/internal/domain"
	"millstock/internal/domain/documents"
)

// Repository persists gate inwards with their lines.
type Repository interface {
	documents.Store[*GateInward]

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*GateInward], error)
}

// ListFilter for filtering gate inwards.
type ListFilter struct {
	domain.ListFilter

	SupplierID *id.ID
}
