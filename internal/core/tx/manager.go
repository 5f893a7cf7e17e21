// Package tx defines the unit-of-work contract used by the transaction processors.
// Every stock adjustment and document write of one request runs inside a single
// RunInTransaction call; the concrete implementations live in infrastructure/storage.
package tx

import (
	"context"
)

// Manager runs a function as one atomic unit of work.
type Manager interface {
	// RunInTransaction executes fn within a transaction.
	// If fn returns an error, everything fn wrote is rolled back.
	// Nested calls reuse the transaction already carried by ctx.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transaction support.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Func adapts a plain function to Manager.
type Func func(ctx context.Context, fn func(ctx context.Context) error) error

// RunInTransaction implements Manager.
func (f Func) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return f(ctx, fn)
}
