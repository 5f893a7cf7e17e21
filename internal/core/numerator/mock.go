package numerator

import (
	"context"
	"sync"
)

// MockGenerator is an in-process Generator for unit tests.
type MockGenerator struct {
	mu       sync.Mutex
	counters map[string]int64

	NextFunc func(ctx context.Context, cfg Config) (string, error)
}

// Next implements Generator.
func (m *MockGenerator) Next(ctx context.Context, cfg Config) (string, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx, cfg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[string]int64)
	}
	m.counters[cfg.Prefix]++
	return cfg.Format(m.counters[cfg.Prefix]), nil
}

// Peek implements Generator.
func (m *MockGenerator) Peek(ctx context.Context, cfg Config) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cfg.Format(m.counters[cfg.Prefix] + 1), nil
}

var _ Generator = (*MockGenerator)(nil)
