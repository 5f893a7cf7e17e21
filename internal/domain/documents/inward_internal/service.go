package inward_internal

import (
	"context"

	"millstock/internal/core/id"
	"millstock/internal/domain"
	"millstock/internal/domain/documents"
)

// Service provides business operations for internal inwards.
// Create, Update and Delete come from the embedded processor.
type Service struct {
	*documents.Processor[*InwardInternal]
	repo Repository
}

// NewService creates a new internal inward service.
func NewService(repo Repository, deps documents.Deps) *Service {
	return &Service{
		Processor: documents.NewProcessorFor[*InwardInternal](displayName, NumberPrefix, repo, deps),
		repo:      repo,
	}
}

// GetByID retrieves an internal inward with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*InwardInternal, error) {
	return s.repo.GetByID(ctx, docID)
}

// List retrieves internal inwards with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*InwardInternal], error) {
	return s.repo.List(ctx, filter)
}
