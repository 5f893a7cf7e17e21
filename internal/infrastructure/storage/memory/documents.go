package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"millstock/internal/core/apperror"
	"millstock/internal/core/id"
	"millstock/internal/domain"
	"millstock/internal/domain/documents"
)

// Store operations that can be made to fail with FailOn.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// DocumentStore is a generic documents.Store. Documents are cloned on the way
// in and out so callers never share state with the store.
type DocumentStore[D documents.Document] struct {
	readGate

	name  string
	clone func(D) D

	mu   sync.RWMutex
	docs map[id.ID]D
	fail map[string]error
}

// NewDocumentStore creates a store for one document type.
func NewDocumentStore[D documents.Document](name string, clone func(D) D) *DocumentStore[D] {
	return &DocumentStore[D]{
		name:  name,
		clone: clone,
		docs:  make(map[id.ID]D),
		fail:  make(map[string]error),
	}
}

// FailOn makes op return err until cleared with a nil err.
func (s *DocumentStore[D]) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, op)
		return
	}
	s.fail[op] = err
}

// Snapshot implements Snapshotter.
func (s *DocumentStore[D]) Snapshot() func() {
	s.mu.RLock()
	saved := maps.Clone(s.docs)
	s.mu.RUnlock()

	return func() {
		s.mu.Lock()
		s.docs = saved
		s.mu.Unlock()
	}
}

// ReferencesItem implements ItemReferencer.
func (s *DocumentStore[D]) ReferencesItem(itemID id.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.docs {
		if slices.Contains(doc.Movements().ItemIDs(), itemID) {
			return true
		}
	}
	return false
}

func (s *DocumentStore[D]) Create(ctx context.Context, doc D) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail[OpCreate]; err != nil {
		return err
	}
	if _, ok := s.docs[doc.GetID()]; ok {
		return apperror.NewDuplicate(s.name, "id", doc.GetID().String())
	}
	s.docs[doc.GetID()] = s.clone(doc)
	return nil
}

func (s *DocumentStore[D]) GetByID(ctx context.Context, docID id.ID) (D, error) {
	defer s.view(ctx)()
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[docID]
	if !ok {
		var zero D
		return zero, apperror.NewNotFound(s.name, docID.String())
	}
	return s.clone(doc), nil
}

// GetForUpdate equals GetByID: TxManager already serializes writers.
func (s *DocumentStore[D]) GetForUpdate(ctx context.Context, docID id.ID) (D, error) {
	return s.GetByID(ctx, docID)
}

// Update replaces the stored revision and bumps the version.
func (s *DocumentStore[D]) Update(ctx context.Context, doc D) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail[OpUpdate]; err != nil {
		return err
	}
	current, ok := s.docs[doc.GetID()]
	if !ok {
		return apperror.NewNotFound(s.name, doc.GetID().String())
	}
	doc.Header().Version = current.Header().Version + 1
	s.docs[doc.GetID()] = s.clone(doc)
	return nil
}

func (s *DocumentStore[D]) Delete(ctx context.Context, docID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail[OpDelete]; err != nil {
		return err
	}
	if _, ok := s.docs[docID]; !ok {
		return apperror.NewNotFound(s.name, docID.String())
	}
	delete(s.docs, docID)
	return nil
}

func (s *DocumentStore[D]) NumberExists(ctx context.Context, number string) (bool, error) {
	defer s.view(ctx)()
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.docs {
		if doc.Header().Number == number {
			return true, nil
		}
	}
	return false, nil
}

// Len returns the number of stored documents.
func (s *DocumentStore[D]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// list applies the common filter plus match, newest first.
func (s *DocumentStore[D]) list(ctx context.Context, filter domain.ListFilter, match func(D) bool) domain.ListResult[D] {
	defer s.view(ctx)()

	s.mu.RLock()
	var out []D
	search := strings.ToLower(filter.Search)
	for _, doc := range s.docs {
		h := doc.Header()
		if search != "" && !strings.Contains(strings.ToLower(h.Number), search) {
			continue
		}
		if filter.DateFrom != nil && h.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && h.Date.After(*filter.DateTo) {
			continue
		}
		if match != nil && !match(doc) {
			continue
		}
		out = append(out, s.clone(doc))
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b D) int {
		ha, hb := a.Header(), b.Header()
		return cmp.Or(hb.Date.Compare(ha.Date), cmp.Compare(hb.Number, ha.Number))
	})
	return paginate(out, filter)
}
