package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"millstock/internal/core/entity"
	"millstock/internal/core/id"
	"millstock/internal/core/numerator"
	"millstock/internal/core/types"
	"millstock/internal/domain/catalogs/item"
	"millstock/internal/domain/registers/stock"
	"millstock/internal/infrastructure/storage/memory"
)

type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *memory.Store
	svc   *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	return &fixture{
		t:     t,
		ctx:   context.Background(),
		store: store,
		svc:   NewServices(MemoryRepositories(store), &numerator.MockGenerator{}, Options{}),
	}
}

func qty(units int64) types.Quantity { return types.NewQuantityFromInt(units) }

func line(itemID id.ID, units int64) entity.Line {
	return entity.Line{ItemID: itemID, Quantity: qty(units), UnitRate: types.MustRate("10")}
}

// newItem creates an item with opening Main stock.
func (f *fixture) newItem(name string, opening int64) id.ID {
	f.t.Helper()
	it := item.NewItem(name, "Raw Material", "Steel", "PC", types.MustRate("12.50"))
	require.NoError(f.t, f.svc.Items.Create(f.ctx, it, qty(opening)))
	return it.ID
}

func (f *fixture) main(itemID id.ID) types.Quantity {
	f.t.Helper()
	q, err := f.svc.Stock.Balance(f.ctx, stock.PoolMain, itemID)
	require.NoError(f.t, err)
	return q
}

func (f *fixture) floor(itemID id.ID) types.Quantity {
	f.t.Helper()
	q, err := f.svc.Stock.Balance(f.ctx, stock.PoolFloor, itemID)
	require.NoError(f.t, err)
	return q
}
