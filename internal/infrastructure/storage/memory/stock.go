package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"millstock/internal/core/id"
	"millstock/internal/core/types"
	"millstock/internal/domain/registers/stock"
)

// StockRepo implements stock.Repository. Main balances live on the ItemRepo
// rows, floor entries in this store.
type StockRepo struct {
	readGate

	items *ItemRepo

	mu    sync.RWMutex
	floor map[id.ID]stock.FloorEntry // by item id

	failAfter int
	failErr   error
	adjusts   int
}

var (
	_ stock.Repository = (*StockRepo)(nil)
	_ Snapshotter      = (*StockRepo)(nil)
	_ ItemReferencer   = (*StockRepo)(nil)
)

// NewStockRepo creates a ledger store over items.
func NewStockRepo(items *ItemRepo) *StockRepo {
	return &StockRepo{
		items:     items,
		floor:     make(map[id.ID]stock.FloorEntry),
		failAfter: -1,
	}
}

// FailAfter makes every adjustment after the first n successful ones fail
// with err. A negative n disables the hook.
func (r *StockRepo) FailAfter(n int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failAfter, r.failErr, r.adjusts = n, err, 0
}

// Snapshot implements Snapshotter.
func (r *StockRepo) Snapshot() func() {
	r.mu.RLock()
	saved := maps.Clone(r.floor)
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		r.floor = saved
		r.mu.Unlock()
	}
}

// ReferencesItem implements ItemReferencer.
func (r *StockRepo) ReferencesItem(itemID id.ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.floor[itemID]
	return ok
}

func (r *StockRepo) injected() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAfter < 0 {
		return nil
	}
	if r.adjusts >= r.failAfter {
		return r.failErr
	}
	r.adjusts++
	return nil
}

func (r *StockRepo) AdjustMain(ctx context.Context, itemID id.ID, delta types.Quantity) (types.Quantity, error) {
	if err := r.injected(); err != nil {
		return 0, err
	}
	return r.items.adjustStock(itemID, delta)
}

func (r *StockRepo) AdjustFloor(ctx context.Context, itemID id.ID, delta types.Quantity) (types.Quantity, error) {
	if err := r.injected(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.floor[itemID]
	if !ok {
		return 0, stock.ErrEntryNotFound
	}
	if entry.Quantity+delta < 0 {
		return 0, stock.ErrNegativeBalance
	}
	entry.Quantity += delta
	entry.UpdatedAt = time.Now().UTC()
	r.floor[itemID] = entry
	return entry.Quantity, nil
}

func (r *StockRepo) OpenFloor(ctx context.Context, entry stock.FloorEntry) (types.Quantity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.floor[entry.ItemID]; ok {
		existing.Quantity += entry.Quantity
		existing.UpdatedAt = time.Now().UTC()
		r.floor[entry.ItemID] = existing
		return existing.Quantity, nil
	}
	if entry.Quantity < 0 {
		return 0, stock.ErrNegativeBalance
	}
	entry.UpdatedAt = time.Now().UTC()
	r.floor[entry.ItemID] = entry
	return entry.Quantity, nil
}

func (r *StockRepo) GetBalances(ctx context.Context, pool stock.Pool, itemIDs []id.ID) (map[id.ID]types.Quantity, error) {
	defer r.view(ctx)()

	out := make(map[id.ID]types.Quantity, len(itemIDs))
	switch pool {
	case stock.PoolMain:
		for _, itemID := range itemIDs {
			if q, ok := r.items.stock(itemID); ok {
				out[itemID] = q
			}
		}
	case stock.PoolFloor:
		r.mu.RLock()
		defer r.mu.RUnlock()
		for _, itemID := range itemIDs {
			if e, ok := r.floor[itemID]; ok {
				out[itemID] = e.Quantity
			}
		}
	default:
		return nil, errUnknownPool(pool)
	}
	return out, nil
}

// GetBalancesForUpdate equals GetBalances: TxManager already serializes writers.
func (r *StockRepo) GetBalancesForUpdate(ctx context.Context, pool stock.Pool, itemIDs []id.ID) (map[id.ID]types.Quantity, error) {
	return r.GetBalances(ctx, pool, itemIDs)
}

func (r *StockRepo) ListFloor(ctx context.Context, filter stock.FloorFilter) ([]stock.FloorEntry, error) {
	defer r.view(ctx)()

	r.mu.RLock()
	entries := make([]stock.FloorEntry, 0, len(r.floor))
	for _, e := range r.floor {
		if filter.OnlyPositive && !e.Quantity.IsPositive() {
			continue
		}
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	for i := range entries {
		entries[i].ItemCode, entries[i].ItemName = r.items.describe(entries[i].ItemID)
	}
	slices.SortFunc(entries, func(a, b stock.FloorEntry) int { return cmp.Compare(a.ItemCode, b.ItemCode) })
	return entries, nil
}
