package issue_note

import (
	"context"

	"millstock/internal/core/id"
	"millstock/internal/domain"
	"millstock/internal/domain/documents"
)

// Service provides business operations for issue notes.
// Create, Update and Delete come from the embedded processor.
type Service struct {
	*documents.Processor[*IssueNote]
	repo Repository
}

// NewService creates a new issue note service.
func NewService(repo Repository, deps documents.Deps) *Service {
	return &Service{
		Processor: documents.NewProcessorFor[*IssueNote](displayName, NumberPrefix, repo, deps),
		repo:      repo,
	}
}

// GetByID retrieves an issue note with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*IssueNote, error) {
	return s.repo.GetByID(ctx, docID)
}

// List retrieves issue notes with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*IssueNote], error) {
	return s.repo.List(ctx, filter)
}
