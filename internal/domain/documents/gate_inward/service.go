package gate_inward

import (
	"context"

	"millstock/internal/core/id"
	"millstock/internal/domain"
	"millstock/internal/domain/documents"
)

// Service provides business operations for gate inwards.
// Create, Update and Delete come from the embedded processor.
type Service struct {
	*documents.Processor[*GateInward]
	repo Repository
}

// NewService creates a new gate inward service.
func NewService(repo Repository, deps documents.Deps) *Service {
	return &Service{
		Processor: documents.NewProcessorFor[*GateInward](displayName, NumberPrefix, repo, deps),
		repo:      repo,
	}
}

// GetByID retrieves a gate inward with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*GateInward, error) {
	return s.repo.GetByID(ctx, docID)
}

// List retrieves gate inwards with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*GateInward], error) {
	return s.repo.List(ctx, filter)
}
