package posting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"millstock/internal/core/apperror"
	"millstock/internal/core/id"
	"millstock/internal/core/types"
	"millstock/internal/domain/registers/stock"
)

type fakeCatalog struct{ known map[id.ID]bool }

func (c fakeCatalog) MissingItems(_ context.Context, ids []id.ID) ([]id.ID, error) {
	var missing []id.ID
	for _, itemID := range ids {
		if !c.known[itemID] {
			missing = append(missing, itemID)
		}
	}
	return missing, nil
}

type fakeLedger struct {
	balances map[stock.Pool]map[id.ID]types.Quantity
	adjusts  int
}

func (l *fakeLedger) Adjust(_ context.Context, pool stock.Pool, itemID id.ID, delta types.Quantity) (types.Quantity, error) {
	l.adjusts++
	l.balances[pool][itemID] += delta
	return l.balances[pool][itemID], nil
}

func (l *fakeLedger) LockBalances(_ context.Context, pool stock.Pool, ids []id.ID) (map[id.ID]types.Quantity, error) {
	out := map[id.ID]types.Quantity{}
	for _, itemID := range ids {
		out[itemID] = l.balances[pool][itemID]
	}
	return out, nil
}

func TestValidator_FloorShortageRejectsWholeSet(t *testing.T) {
	fg, rm := id.New(), id.New()
	ledger := &fakeLedger{balances: map[stock.Pool]map[id.ID]types.Quantity{
		stock.PoolMain:  {},
		stock.PoolFloor: {rm: types.NewQuantityFromInt(2)},
	}}
	v := NewValidator(fakeCatalog{known: map[id.ID]bool{fg: true, rm: true}}, ledger)

	set := Table{
		{Group: "finishedGoods", Pool: stock.PoolMain, Direction: Inward},
		{Group: "materialsUsed", Pool: stock.PoolFloor, Direction: Outward},
	}.Movements(map[string][]Line{
		"finishedGoods": {{LineNo: 1, ItemID: fg, Quantity: types.NewQuantityFromInt(4)}},
		"materialsUsed": {{LineNo: 1, ItemID: rm, Quantity: types.NewQuantityFromInt(3)}},
	})

	err := v.Validate(context.Background(), set)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, types.NewQuantityFromInt(2), appErr.Details["available"])
	assert.Equal(t, stock.PoolFloor, appErr.Details["pool"])
	assert.Zero(t, ledger.adjusts)
}

func TestValidator_UnknownItem(t *testing.T) {
	known, unknown := id.New(), id.New()
	v := NewValidator(fakeCatalog{known: map[id.ID]bool{known: true}}, &fakeLedger{})

	set := MovementSet{
		{Group: "items", LineNo: 1, Pool: stock.PoolMain, ItemID: known, Direction: Inward, Quantity: types.NewQuantityFromInt(1)},
		{Group: "items", LineNo: 2, Pool: stock.PoolMain, ItemID: unknown, Direction: Inward, Quantity: types.NewQuantityFromInt(1)},
	}

	err := v.Validate(context.Background(), set)
	require.True(t, apperror.IsValidation(err))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, 2, appErr.Details["lineNo"])
	assert.Equal(t, unknown.String(), appErr.Details["itemId"])
}

func TestValidator_InwardNeverBounded(t *testing.T) {
	itemID := id.New()
	v := NewValidator(fakeCatalog{known: map[id.ID]bool{itemID: true}}, &fakeLedger{})

	set := MovementSet{{Group: "items", LineNo: 1, Pool: stock.PoolMain, ItemID: itemID, Direction: Inward, Quantity: types.NewQuantityFromInt(1_000_000)}}
	assert.NoError(t, v.Validate(context.Background(), set))
}
