package memory

import (
	"context"
	"maps"
	"sync"

	"millstock/internal/core/numerator"
)

// Sequences is the in-memory counterpart of sys_sequences. Registered with the
// TxManager, a number allocated inside a failed unit of work is given back.
type Sequences struct {
	readGate

	mu     sync.Mutex
	values map[string]int64
}

var _ numerator.Generator = (*Sequences)(nil)

// NewSequences creates an empty sequence table.
func NewSequences() *Sequences {
	return &Sequences{values: make(map[string]int64)}
}

// Snapshot implements Snapshotter.
func (s *Sequences) Snapshot() func() {
	s.mu.Lock()
	saved := maps.Clone(s.values)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.values = saved
		s.mu.Unlock()
	}
}

// Next implements numerator.Generator.
func (s *Sequences) Next(_ context.Context, cfg numerator.Config) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[cfg.Prefix]++
	return cfg.Format(s.values[cfg.Prefix]), nil
}

// Peek implements numerator.Generator.
func (s *Sequences) Peek(ctx context.Context, cfg numerator.Config) (string, error) {
	defer s.view(ctx)()

	s.mu.Lock()
	defer s.mu.Unlock()
	return cfg.Format(s.values[cfg.Prefix] + 1), nil
}
