package stock

import (
	"context"
	"errors"

	"millstock/internal/core/id"
	"millstock/internal/core/types"
)

var (
	// ErrEntryNotFound is returned when the pool has no row for the item.
	ErrEntryNotFound = errors.New("stock entry not found")

	// ErrNegativeBalance is returned when applying a delta would leave the balance below zero.
	// The row is left untouched.
	ErrNegativeBalance = errors.New("stock balance would become negative")
)

// Repository persists pool balances. Every Adjust* call is a single atomic
// read-modify-write at the storage layer and participates in the caller's
// transaction carried by ctx.
type Repository interface {
	// AdjustMain applies delta to items.stock and returns the new balance.
	AdjustMain(ctx context.Context, itemID id.ID, delta types.Quantity) (types.Quantity, error)

	// AdjustFloor applies delta to an existing floor entry and returns the new balance.
	AdjustFloor(ctx context.Context, itemID id.ID, delta types.Quantity) (types.Quantity, error)

	// OpenFloor inserts entry, or adds entry.Quantity to the row that a
	// concurrent writer created first. Returns the new balance.
	OpenFloor(ctx context.Context, entry FloorEntry) (types.Quantity, error)

	// GetBalances returns balances for the given items. Items without a row are absent.
	GetBalances(ctx context.Context, pool Pool, itemIDs []id.ID) (map[id.ID]types.Quantity, error)

	// GetBalancesForUpdate is GetBalances with row locks held until the transaction ends.
	GetBalancesForUpdate(ctx context.Context, pool Pool, itemIDs []id.ID) (map[id.ID]types.Quantity, error)

	// ListFloor returns floor entries joined with item code and name.
	ListFloor(ctx context.Context, filter FloorFilter) ([]FloorEntry, error)
}

// ItemRates supplies the unit rate snapshot stored on a new floor entry.
type ItemRates interface {
	CurrentUnitRate(ctx context.Context, itemID id.ID) (types.Rate, error)
}

// Recorder observes applied adjustments.
type Recorder interface {
	ObserveAdjustment(pool Pool, inward bool)
}

type nopRecorder struct{}

func (nopRecorder) ObserveAdjustment(Pool, bool) {}
