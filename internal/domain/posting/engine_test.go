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

var receiptTable = Table{{Group: "items", Pool: stock.PoolMain, Direction: Inward}}

type staticDoc struct {
	docID id.ID
	set   MovementSet
}

func (d staticDoc) GetID() id.ID { return d.docID }
func (d staticDoc) DocumentType() string { return "receipt" }
func (d staticDoc) Movements() MovementSet { return d.set }

func receipt(docID, itemID id.ID, units int64) staticDoc {
	return staticDoc{docID: docID, set: receiptTable.Movements(map[string][]Line{
		"items": {{LineNo: 1, ItemID: itemID, Quantity: types.NewQuantityFromInt(units)}},
	})}
}

func newAmendEngine(itemID id.ID, main int64) (*Engine, *fakeLedger) {
	ledger := &fakeLedger{balances: map[stock.Pool]map[id.ID]types.Quantity{
		stock.PoolMain:  {itemID: types.NewQuantityFromInt(main)},
		stock.PoolFloor: {},
	}}
	return NewEngine(ledger, fakeCatalog{known: map[id.ID]bool{itemID: true}}), ledger
}

func TestEngine_AmendChecksFinalBalanceOnly(t *testing.T) {
	docID, itemID := id.New(), id.New()
	// 10 received, 8 already consumed by later documents.
	engine, ledger := newAmendEngine(itemID, 2)

	net, err := engine.Amend(context.Background(), receipt(docID, itemID, 10), receipt(docID, itemID, 12))
	require.NoError(t, err)

	require.Len(t, net, 1)
	assert.Equal(t, types.NewQuantityFromInt(2), net[0].Delta)
	assert.Equal(t, types.NewQuantityFromInt(4), ledger.balances[stock.PoolMain][itemID])
	assert.Equal(t, 1, ledger.adjusts)
}

func TestEngine_AmendUnchangedLinesAdjustsNothing(t *testing.T) {
	docID, itemID := id.New(), id.New()
	engine, ledger := newAmendEngine(itemID, 2)

	net, err := engine.Amend(context.Background(), receipt(docID, itemID, 10), receipt(docID, itemID, 10))
	require.NoError(t, err)

	assert.Empty(t, net)
	assert.Zero(t, ledger.adjusts)
	assert.Equal(t, types.NewQuantityFromInt(2), ledger.balances[stock.PoolMain][itemID])
}

func TestEngine_AmendRejectsNegativeFinalBalance(t *testing.T) {
	docID, itemID := id.New(), id.New()
	engine, ledger := newAmendEngine(itemID, 2)

	_, err := engine.Amend(context.Background(), receipt(docID, itemID, 10), receipt(docID, itemID, 5))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, types.NewQuantityFromInt(2), appErr.Details["available"])
	assert.Equal(t, types.NewQuantityFromInt(5), appErr.Details["requested"])
	assert.Equal(t, 1, appErr.Details["lineNo"])
	assert.Zero(t, ledger.adjusts)
}

func TestEngine_AmendValidatesNewLines(t *testing.T) {
	docID, itemID := id.New(), id.New()
	engine, ledger := newAmendEngine(itemID, 2)

	_, err := engine.Amend(context.Background(), receipt(docID, itemID, 10), receipt(docID, id.New(), 1))

	assert.True(t, apperror.IsValidation(err))
	assert.Zero(t, ledger.adjusts)
}
