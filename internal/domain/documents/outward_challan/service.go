package outward_challan

import (
	"context"

	"millstock/internal/core/id"
	"millstock/internal/domain"
	"millstock/internal/domain/documents"
)

// Service provides business operations for challans.
// Create, Update and Delete come from the embedded processor.
type Service struct {
	*documents.Processor[*OutwardChallan]
	repo Repository
}

// NewService creates a new outward challan service.
func NewService(repo Repository, deps documents.Deps) *Service {
	return &Service{
		Processor: documents.NewProcessorFor[*OutwardChallan](displayName, NumberPrefix, repo, deps),
		repo:      repo,
	}
}

// GetByID retrieves a challan with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*OutwardChallan, error) {
	return s.repo.GetByID(ctx, docID)
}

// List retrieves challans with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*OutwardChallan], error) {
	return s.repo.List(ctx, filter)
}
