package item_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"millstock/internal/core/apperror"
	"millstock/internal/core/types"
	"millstock/internal/domain/catalogs/item"
	"millstock/internal/domain/registers/stock"
	"millstock/internal/infrastructure/storage/memory"
)

func newService() *item.Service {
	store := memory.NewStore()
	return item.NewService(store.Items, stock.NewService(store.Stock, store.Items), store.TxManager)
}

func TestCreate_GeneratesCodeAndBooksOpeningStock(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	first := item.NewItem("Hex bolt", "Hardware", "Bolts", "PC", types.MustRate("2.10"))
	require.NoError(t, svc.Create(ctx, first, types.NewQuantityFromInt(25)))
	assert.Equal(t, "HABO-001", first.Code)
	assert.Equal(t, types.NewQuantityFromInt(25), first.Stock)

	second := item.NewItem("Carriage bolt", "Hardware", "Bolts", "PC", types.MustRate("2.40"))
	require.NoError(t, svc.Create(ctx, second, 0))
	assert.Equal(t, "HABO-002", second.Code)

	dup := item.NewItem("Other", "Hardware", "Bolts", "PC", types.MustRate("1"))
	dup.Code = "HABO-001"
	err := svc.Create(ctx, dup, 0)
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
}

func TestCreate_RejectsNegativeOpeningStock(t *testing.T) {
	svc := newService()
	it := item.NewItem("Nut", "Hardware", "Nuts", "PC", types.MustRate("1"))

	err := svc.Create(context.Background(), it, types.NewQuantityFromInt(-1))
	assert.True(t, apperror.IsValidation(err))
}

func TestUpdate_KeepsStock(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	it := item.NewItem("Washer", "Hardware", "Washers", "PC", types.MustRate("0.50"))
	require.NoError(t, svc.Create(ctx, it, types.NewQuantityFromInt(100)))

	edit, err := svc.GetByID(ctx, it.ID)
	require.NoError(t, err)
	edit.Name = "Flat washer"
	edit.Stock = 0
	require.NoError(t, svc.Update(ctx, edit))

	got, err := svc.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Flat washer", got.Name)
	assert.Equal(t, types.NewQuantityFromInt(100), got.Stock)
}

func TestCodePrefix(t *testing.T) {
	assert.Equal(t, "RAST", item.CodePrefix("raw material", "steel"))
	assert.Equal(t, "ÉLCU", item.CodePrefix("électrique", "cuivre"))
	assert.Equal(t, "AB", item.CodePrefix("a", "b"))
}
