// Package memory is an in-process implementation of the storage contracts.
// It backs unit tests and the server when STORAGE=memory. Transactions are
// serialized and rolled back by restoring snapshots of every registered store;
// reads outside a transaction wait for the one in progress, so they never see
// state that may still be rolled back.
package memory

import (
	"context"
	"sync"

	"millstock/internal/core/tx"
)

// Snapshotter is a store that can capture and restore its state.
type Snapshotter interface {
	// Snapshot captures current state and returns a func that restores it.
	Snapshot() (restore func())
}

// TxManager implements tx.Manager over in-memory stores.
type TxManager struct {
	mu     sync.RWMutex
	stores []Snapshotter
}

var _ tx.Manager = (*TxManager)(nil)

type txKey struct{}

// NewTxManager creates a transaction manager for stores.
func NewTxManager(stores ...Snapshotter) *TxManager {
	m := &TxManager{}
	m.Register(stores...)
	return m
}

// Register adds stores that take part in every transaction.
func (m *TxManager) Register(stores ...Snapshotter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range stores {
		if g, ok := s.(gated); ok {
			g.attach(m)
		}
	}
	m.stores = append(m.stores, stores...)
}

// RunInTransaction runs fn with exclusive access to all stores. On error or
// panic every store is restored to its state before fn ran.
// Nested calls reuse the outer transaction.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if InTransaction(ctx) {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	restores := make([]func(), len(m.stores))
	for i, s := range m.stores {
		restores[i] = s.Snapshot()
	}
	rollback := func() {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
	}

	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		rollback()
		return err
	}
	return nil
}

// InTransaction reports whether ctx carries an active transaction.
func InTransaction(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

type gated interface {
	attach(m *TxManager)
}

// readGate is embedded by stores whose reads must not observe an open unit of work.
type readGate struct {
	tx *TxManager
}

func (g *readGate) attach(m *TxManager) { g.tx = m }

// view takes the manager's read lock unless ctx already runs inside the
// transaction, which holds the write lock. The returned func releases it.
func (g *readGate) view(ctx context.Context) func() {
	if g.tx == nil || InTransaction(ctx) {
		return func() {}
	}
	g.tx.mu.RLock()
	return g.tx.mu.RUnlock
}
