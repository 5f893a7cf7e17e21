package posting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"millstock/internal/core/id"
	"millstock/internal/core/types"
	"millstock/internal/domain/registers/stock"
)

var issueTable = Table{
	{Group: "items", Pool: stock.PoolMain, Direction: Outward},
	{Group: "items", Pool: stock.PoolFloor, Direction: Inward},
}

func TestTable_Movements(t *testing.T) {
	a, b := id.New(), id.New()
	set := issueTable.Movements(map[string][]Line{
		"items":   {{LineNo: 1, ItemID: a, Quantity: types.NewQuantityFromInt(5)}, {LineNo: 2, ItemID: b, Quantity: types.NewQuantityFromInt(2)}},
		"ignored": {{LineNo: 1, ItemID: a, Quantity: types.NewQuantityFromInt(9)}},
	})

	require.Len(t, set, 4)
	assert.Equal(t, types.NewQuantityFromInt(-5), set[0].Delta())
	assert.Equal(t, stock.PoolFloor, set[2].Pool)
	assert.Equal(t, types.NewQuantityFromInt(5), set[2].Delta())
	assert.ElementsMatch(t, []id.ID{a, b}, set.ItemIDs())
}

func TestMovementSet_InverseCancels(t *testing.T) {
	a := id.New()
	set := issueTable.Movements(map[string][]Line{
		"items": {{LineNo: 1, ItemID: a, Quantity: types.NewQuantityFromInt(3)}},
	})

	net := map[stock.Pool]types.Quantity{}
	for _, m := range append(set, set.Inverse()...) {
		net[m.Pool] += m.Delta()
	}
	assert.Zero(t, net[stock.PoolMain])
	assert.Zero(t, net[stock.PoolFloor])
}

func TestMovementSet_OutwardTotalsAggregatesPerItem(t *testing.T) {
	a := id.New()
	set := issueTable.Movements(map[string][]Line{
		"items": {
			{LineNo: 1, ItemID: a, Quantity: types.NewQuantityFromInt(3)},
			{LineNo: 2, ItemID: a, Quantity: types.NewQuantityFromInt(4)},
		},
	})

	assert.Equal(t, map[id.ID]types.Quantity{a: types.NewQuantityFromInt(7)}, set.OutwardTotals(stock.PoolMain))
	assert.Empty(t, set.OutwardTotals(stock.PoolFloor))
}

func TestMovementSet_SortedByPoolThenItem(t *testing.T) {
	ids := []id.ID{id.New(), id.New(), id.New()}
	set := MovementSet{
		{Pool: stock.PoolFloor, ItemID: ids[0], LineNo: 1},
		{Pool: stock.PoolMain, ItemID: ids[2], LineNo: 1},
		{Pool: stock.PoolMain, ItemID: ids[1], LineNo: 2},
	}

	sorted := set.Sorted()
	assert.Equal(t, stock.PoolMain, sorted[0].Pool)
	assert.Equal(t, stock.PoolMain, sorted[1].Pool)
	assert.Equal(t, stock.PoolFloor, sorted[2].Pool)
	assert.Negative(t, id.Compare(sorted[0].ItemID, sorted[1].ItemID))
	assert.Equal(t, stock.PoolFloor, set[0].Pool, "input must not be reordered")
}

func TestMovementSet_NetSumsPerPoolAndItem(t *testing.T) {
	a, b := id.New(), id.New()
	prev := issueTable.Movements(map[string][]Line{
		"items": {{LineNo: 1, ItemID: a, Quantity: types.NewQuantityFromInt(10)}, {LineNo: 2, ItemID: b, Quantity: types.NewQuantityFromInt(4)}},
	})
	next := issueTable.Movements(map[string][]Line{
		"items": {{LineNo: 1, ItemID: a, Quantity: types.NewQuantityFromInt(7)}, {LineNo: 2, ItemID: b, Quantity: types.NewQuantityFromInt(4)}},
	})

	net := append(prev.Inverse(), next...).Net()

	require.Len(t, net, 2)
	assert.Equal(t, Change{Pool: stock.PoolMain, ItemID: a, Delta: types.NewQuantityFromInt(3), Group: "items", LineNo: 1}, net[0])
	assert.Equal(t, stock.PoolFloor, net[1].Pool)
	assert.Equal(t, types.NewQuantityFromInt(-3), net[1].Delta)
	assert.Equal(t, 1, net[1].LineNo)
}
