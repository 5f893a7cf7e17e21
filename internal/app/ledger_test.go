package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"millstock/internal/core/apperror"
	"millstock/internal/core/entity"
	"millstock/internal/core/id"
	"millstock/internal/domain/documents/gate_inward"
	"millstock/internal/domain/documents/inward_internal"
	"millstock/internal/domain/documents/issue_note"
	"millstock/internal/domain/documents/outward_challan"
	"millstock/internal/domain/registers/stock"
	"millstock/internal/infrastructure/storage/memory"
)

func TestGateInward_UpdateReplacesQuantity(t *testing.T) {
	f := newFixture(t)
	bolt := f.newItem("Bolt M8", 0)

	doc := gate_inward.NewGateInward(id.New())
	doc.Lines = []entity.Line{line(bolt, 10)}
	require.NoError(t, f.svc.GateInwards.Create(f.ctx, doc))
	assert.Equal(t, qty(10), f.main(bolt))
	assert.Equal(t, "GRN-001", doc.Number)

	stored, err := f.svc.GateInwards.GetByID(f.ctx, doc.ID)
	require.NoError(t, err)
	stored.Lines[0].Quantity = qty(6)
	require.NoError(t, f.svc.GateInwards.Update(f.ctx, stored))

	assert.Equal(t, qty(6), f.main(bolt))
	assert.Equal(t, "GRN-001", stored.Number)
	assert.Equal(t, 2, stored.Version)

	reloaded, err := f.svc.GateInwards.GetByID(f.ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "60.00", reloaded.Lines[0].Amount.StringFixed(2))
}

func TestIssueNote_MovesToFloorAndDeleteRestores(t *testing.T) {
	f := newFixture(t)
	sheet := f.newItem("Sheet 2mm", 20)

	doc := issue_note.NewIssueNote("Fabrication", "Ravi")
	doc.Lines = []entity.Line{line(sheet, 5)}
	require.NoError(t, f.svc.IssueNotes.Create(f.ctx, doc))

	assert.Equal(t, qty(15), f.main(sheet))
	assert.Equal(t, qty(5), f.floor(sheet))

	require.NoError(t, f.svc.IssueNotes.Delete(f.ctx, doc.ID))

	assert.Equal(t, qty(20), f.main(sheet))
	assert.Equal(t, qty(0), f.floor(sheet))

	_, err := f.svc.IssueNotes.GetByID(f.ctx, doc.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestOutwardChallan_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	frame := f.newItem("Frame", 30)

	doc := outward_challan.NewOutwardChallan(id.New())
	doc.Lines = []outward_challan.ChallanLine{{Line: line(frame, 50)}}
	err := f.svc.OutwardChallans.Create(f.ctx, doc)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, frame.String(), appErr.Details["itemId"])
	assert.Equal(t, qty(30), appErr.Details["available"])
	assert.Equal(t, qty(50), appErr.Details["requested"])

	assert.Equal(t, qty(30), f.main(frame))
	assert.Zero(t, f.store.OutwardChallans.Len())
}

func TestOutwardChallan_SameItemOnTwoLinesCheckedTogether(t *testing.T) {
	f := newFixture(t)
	frame := f.newItem("Frame", 30)

	doc := outward_challan.NewOutwardChallan(id.New())
	doc.Lines = []outward_challan.ChallanLine{{Line: line(frame, 20)}, {Line: line(frame, 20)}}
	err := f.svc.OutwardChallans.Create(f.ctx, doc)

	require.True(t, apperror.IsInsufficientStock(err))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, qty(40), appErr.Details["requested"])
	assert.Equal(t, qty(30), f.main(frame))
}

func TestInwardInternal_RejectedWholeWhenMaterialShort(t *testing.T) {
	f := newFixture(t)
	chair := f.newItem("Chair", 0)
	tube := f.newItem("Steel tube", 10)

	issue := issue_note.NewIssueNote("Assembly", "Ravi")
	issue.Lines = []entity.Line{line(tube, 2)}
	require.NoError(t, f.svc.IssueNotes.Create(f.ctx, issue))
	require.Equal(t, qty(2), f.floor(tube))

	doc := inward_internal.NewInwardInternal("Meena")
	doc.FinishedGoods = []entity.Line{line(chair, 4)}
	doc.MaterialsUsed = []entity.Line{line(tube, 3)}
	err := f.svc.InwardInternals.Create(f.ctx, doc)

	require.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, qty(0), f.main(chair))
	assert.Equal(t, qty(2), f.floor(tube))
	assert.Equal(t, qty(8), f.main(tube))
	assert.Zero(t, f.store.InwardInternals.Len())
}

func TestInwardInternal_PostsBothGroups(t *testing.T) {
	f := newFixture(t)
	chair := f.newItem("Chair", 0)
	tube := f.newItem("Steel tube", 10)

	issue := issue_note.NewIssueNote("Assembly", "Ravi")
	issue.Lines = []entity.Line{line(tube, 6)}
	require.NoError(t, f.svc.IssueNotes.Create(f.ctx, issue))

	doc := inward_internal.NewInwardInternal("Meena")
	doc.FinishedGoods = []entity.Line{line(chair, 4)}
	doc.MaterialsUsed = []entity.Line{line(tube, 3)}
	require.NoError(t, f.svc.InwardInternals.Create(f.ctx, doc))

	assert.Equal(t, qty(4), f.main(chair))
	assert.Equal(t, qty(3), f.floor(tube))
	assert.Equal(t, "REC-001", doc.Number)
}

func TestDelete_RoundTripsEveryDocumentType(t *testing.T) {
	f := newFixture(t)
	a := f.newItem("A", 50)
	b := f.newItem("B", 50)

	issue := issue_note.NewIssueNote("Assembly", "Ravi")
	issue.Lines = []entity.Line{line(a, 10), line(b, 10)}
	require.NoError(t, f.svc.IssueNotes.Create(f.ctx, issue))

	snapshot := func() map[id.ID][2]any {
		return map[id.ID][2]any{a: {f.main(a), f.floor(a)}, b: {f.main(b), f.floor(b)}}
	}
	before := snapshot()

	gi := gate_inward.NewGateInward(id.New())
	gi.Lines = []entity.Line{line(a, 7)}
	require.NoError(t, f.svc.GateInwards.Create(f.ctx, gi))
	require.NoError(t, f.svc.GateInwards.Delete(f.ctx, gi.ID))
	assert.Equal(t, before, snapshot(), "gate inward")

	in := issue_note.NewIssueNote("Paint", "Ravi")
	in.Lines = []entity.Line{line(b, 4)}
	require.NoError(t, f.svc.IssueNotes.Create(f.ctx, in))
	require.NoError(t, f.svc.IssueNotes.Delete(f.ctx, in.ID))
	assert.Equal(t, before, snapshot(), "issue note")

	ii := inward_internal.NewInwardInternal("Meena")
	ii.FinishedGoods = []entity.Line{line(a, 2)}
	ii.MaterialsUsed = []entity.Line{line(b, 3)}
	require.NoError(t, f.svc.InwardInternals.Create(f.ctx, ii))
	require.NoError(t, f.svc.InwardInternals.Delete(f.ctx, ii.ID))
	assert.Equal(t, before, snapshot(), "inward internal")

	oc := outward_challan.NewOutwardChallan(id.New())
	oc.Lines = []outward_challan.ChallanLine{{Line: line(a, 40)}}
	require.NoError(t, f.svc.OutwardChallans.Create(f.ctx, oc))
	require.NoError(t, f.svc.OutwardChallans.Delete(f.ctx, oc.ID))
	assert.Equal(t, before, snapshot(), "outward challan")
}

func TestUpdate_RejectedWhenFinalBalanceWouldGoNegative(t *testing.T) {
	f := newFixture(t)
	bolt := f.newItem("Bolt", 0)

	gi := gate_inward.NewGateInward(id.New())
	gi.Lines = []entity.Line{line(bolt, 10)}
	require.NoError(t, f.svc.GateInwards.Create(f.ctx, gi))

	oc := outward_challan.NewOutwardChallan(id.New())
	oc.Lines = []outward_challan.ChallanLine{{Line: line(bolt, 8)}}
	require.NoError(t, f.svc.OutwardChallans.Create(f.ctx, oc))

	stored, err := f.svc.GateInwards.GetByID(f.ctx, gi.ID)
	require.NoError(t, err)
	stored.Lines[0].Quantity = qty(5)
	err = f.svc.GateInwards.Update(f.ctx, stored)

	require.True(t, apperror.IsInsufficientStock(err))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, qty(2), appErr.Details["available"])
	assert.Equal(t, qty(5), appErr.Details["requested"])
	assert.Equal(t, qty(2), f.main(bolt))

	unchanged, err := f.svc.GateInwards.GetByID(f.ctx, gi.ID)
	require.NoError(t, err)
	assert.Equal(t, qty(10), unchanged.Lines[0].Quantity)
	assert.Equal(t, 1, unchanged.Version)
}

func TestUpdate_GateInwardAfterPartialConsumption(t *testing.T) {
	f := newFixture(t)
	bolt := f.newItem("Bolt", 0)

	gi := gate_inward.NewGateInward(id.New())
	gi.Lines = []entity.Line{line(bolt, 10)}
	require.NoError(t, f.svc.GateInwards.Create(f.ctx, gi))

	oc := outward_challan.NewOutwardChallan(id.New())
	oc.Lines = []outward_challan.ChallanLine{{Line: line(bolt, 8)}}
	require.NoError(t, f.svc.OutwardChallans.Create(f.ctx, oc))
	require.Equal(t, qty(2), f.main(bolt))

	stored, err := f.svc.GateInwards.GetByID(f.ctx, gi.ID)
	require.NoError(t, err)
	stored.Lines[0].Quantity = qty(12)
	require.NoError(t, f.svc.GateInwards.Update(f.ctx, stored))

	assert.Equal(t, qty(4), f.main(bolt))
	assert.Equal(t, 2, stored.Version)

	// A reduction that still covers the challan is fine too.
	stored.Lines[0].Quantity = qty(8)
	require.NoError(t, f.svc.GateInwards.Update(f.ctx, stored))
	assert.Equal(t, qty(0), f.main(bolt))
}

func TestUpdate_IssueNoteAfterFloorConsumption(t *testing.T) {
	f := newFixture(t)
	chair := f.newItem("Chair", 0)
	tube := f.newItem("Steel tube", 20)

	issue := issue_note.NewIssueNote("Assembly", "Ravi")
	issue.Lines = []entity.Line{line(tube, 10)}
	require.NoError(t, f.svc.IssueNotes.Create(f.ctx, issue))

	receipt := inward_internal.NewInwardInternal("Meena")
	receipt.FinishedGoods = []entity.Line{line(chair, 2)}
	receipt.MaterialsUsed = []entity.Line{line(tube, 6)}
	require.NoError(t, f.svc.InwardInternals.Create(f.ctx, receipt))
	require.Equal(t, qty(4), f.floor(tube))

	stored, err := f.svc.IssueNotes.GetByID(f.ctx, issue.ID)
	require.NoError(t, err)
	stored.Lines[0].Quantity = qty(8)
	require.NoError(t, f.svc.IssueNotes.Update(f.ctx, stored))

	assert.Equal(t, qty(12), f.main(tube))
	assert.Equal(t, qty(2), f.floor(tube))

	stored.Lines[0].Quantity = qty(5)
	err = f.svc.IssueNotes.Update(f.ctx, stored)
	require.True(t, apperror.IsInsufficientStock(err))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, stock.PoolFloor, appErr.Details["pool"])
	assert.Equal(t, qty(12), f.main(tube))
	assert.Equal(t, qty(2), f.floor(tube))
}

func TestUpdate_UnchangedLinesAfterConsumptionKeepBalances(t *testing.T) {
	f := newFixture(t)
	chair := f.newItem("Chair", 0)
	tube := f.newItem("Steel tube", 20)

	gi := gate_inward.NewGateInward(id.New())
	gi.Lines = []entity.Line{line(tube, 10)}
	require.NoError(t, f.svc.GateInwards.Create(f.ctx, gi))

	issue := issue_note.NewIssueNote("Assembly", "Ravi")
	issue.Lines = []entity.Line{line(tube, 25)}
	require.NoError(t, f.svc.IssueNotes.Create(f.ctx, issue))

	receipt := inward_internal.NewInwardInternal("Meena")
	receipt.FinishedGoods = []entity.Line{line(chair, 3)}
	receipt.MaterialsUsed = []entity.Line{line(tube, 20)}
	require.NoError(t, f.svc.InwardInternals.Create(f.ctx, receipt))

	oc := outward_challan.NewOutwardChallan(id.New())
	oc.Lines = []outward_challan.ChallanLine{{Line: line(chair, 3)}}
	require.NoError(t, f.svc.OutwardChallans.Create(f.ctx, oc))

	type balances struct{ tubeMain, tubeFloor, chairMain any }
	snapshot := func() balances { return balances{f.main(tube), f.floor(tube), f.main(chair)} }
	before := snapshot()
	require.Equal(t, balances{qty(5), qty(5), qty(0)}, before)

	storedGI, err := f.svc.GateInwards.GetByID(f.ctx, gi.ID)
	require.NoError(t, err)
	storedGI.BillNo = "B-17"
	require.NoError(t, f.svc.GateInwards.Update(f.ctx, storedGI))
	assert.Equal(t, before, snapshot(), "gate inward")

	storedIssue, err := f.svc.IssueNotes.GetByID(f.ctx, issue.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.IssueNotes.Update(f.ctx, storedIssue))
	assert.Equal(t, before, snapshot(), "issue note")

	storedReceipt, err := f.svc.InwardInternals.GetByID(f.ctx, receipt.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.InwardInternals.Update(f.ctx, storedReceipt))
	assert.Equal(t, before, snapshot(), "inward internal")

	reloaded, err := f.svc.GateInwards.GetByID(f.ctx, gi.ID)
	require.NoError(t, err)
	assert.Equal(t, "B-17", reloaded.BillNo)
	assert.Equal(t, 2, reloaded.Version)
}

func TestCreate_StorageFailureMidPostingRollsBack(t *testing.T) {
	f := newFixture(t)
	sheet := f.newItem("Sheet", 20)

	f.store.Stock.FailAfter(1, errors.New("disk full"))
	t.Cleanup(func() { f.store.Stock.FailAfter(-1, nil) })

	doc := issue_note.NewIssueNote("Fabrication", "Ravi")
	doc.Lines = []entity.Line{line(sheet, 5)}
	err := f.svc.IssueNotes.Create(f.ctx, doc)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDatabase, appErr.Code)

	f.store.Stock.FailAfter(-1, nil)
	assert.Equal(t, qty(20), f.main(sheet))
	assert.Equal(t, qty(0), f.floor(sheet))
	assert.Zero(t, f.store.IssueNotes.Len())
}

func TestCreate_StoreFailureLeavesBalances(t *testing.T) {
	f := newFixture(t)
	bolt := f.newItem("Bolt", 3)

	f.store.GateInwards.FailOn(memory.OpCreate, errors.New("connection reset"))
	doc := gate_inward.NewGateInward(id.New())
	doc.Lines = []entity.Line{line(bolt, 10)}
	err := f.svc.GateInwards.Create(f.ctx, doc)

	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeDatabase))
	assert.Equal(t, qty(3), f.main(bolt))
}

func TestCreate_ValidationBeforeAnyMutation(t *testing.T) {
	f := newFixture(t)
	bolt := f.newItem("Bolt", 3)

	zero := gate_inward.NewGateInward(id.New())
	zero.Lines = []entity.Line{line(bolt, 0)}
	err := f.svc.GateInwards.Create(f.ctx, zero)
	require.True(t, apperror.IsValidation(err))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, 1, appErr.Details["lineNo"])

	unknown := gate_inward.NewGateInward(id.New())
	unknown.Lines = []entity.Line{line(bolt, 1), line(id.New(), 1)}
	err = f.svc.GateInwards.Create(f.ctx, unknown)
	require.True(t, apperror.IsValidation(err))

	assert.Equal(t, qty(3), f.main(bolt))
	assert.Zero(t, f.store.GateInwards.Len())
}

func TestNumbers_DuplicateOnCreateIsReplaced(t *testing.T) {
	f := newFixture(t)
	bolt := f.newItem("Bolt", 0)

	first := gate_inward.NewGateInward(id.New())
	first.Number = "GRN-777"
	first.Lines = []entity.Line{line(bolt, 1)}
	require.NoError(t, f.svc.GateInwards.Create(f.ctx, first))
	assert.Equal(t, "GRN-777", first.Number)

	second := gate_inward.NewGateInward(id.New())
	second.Number = "GRN-777"
	second.Lines = []entity.Line{line(bolt, 1)}
	require.NoError(t, f.svc.GateInwards.Create(f.ctx, second))
	assert.Equal(t, "GRN-001", second.Number)

	stored, err := f.svc.GateInwards.GetByID(f.ctx, second.ID)
	require.NoError(t, err)
	stored.Number = "GRN-777"
	err = f.svc.GateInwards.Update(f.ctx, stored)
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
	assert.Equal(t, qty(2), f.main(bolt))
}

func TestUpdate_StaleVersionRejected(t *testing.T) {
	f := newFixture(t)
	bolt := f.newItem("Bolt", 0)

	doc := gate_inward.NewGateInward(id.New())
	doc.Lines = []entity.Line{line(bolt, 4)}
	require.NoError(t, f.svc.GateInwards.Create(f.ctx, doc))

	stale, err := f.svc.GateInwards.GetByID(f.ctx, doc.ID)
	require.NoError(t, err)

	fresh, err := f.svc.GateInwards.GetByID(f.ctx, doc.ID)
	require.NoError(t, err)
	fresh.Lines[0].Quantity = qty(5)
	require.NoError(t, f.svc.GateInwards.Update(f.ctx, fresh))

	stale.Lines[0].Quantity = qty(9)
	err = f.svc.GateInwards.Update(f.ctx, stale)
	assert.True(t, apperror.HasCode(err, apperror.CodeConcurrentModification))
	assert.Equal(t, qty(5), f.main(bolt))
}

func TestItemDelete_BlockedWhileReferenced(t *testing.T) {
	f := newFixture(t)
	used := f.newItem("Used", 0)
	spare := f.newItem("Spare", 0)

	doc := gate_inward.NewGateInward(id.New())
	doc.Lines = []entity.Line{line(used, 1)}
	require.NoError(t, f.svc.GateInwards.Create(f.ctx, doc))

	err := f.svc.Items.Delete(f.ctx, used)
	assert.True(t, apperror.HasCode(err, apperror.CodeConflict))

	require.NoError(t, f.svc.Items.Delete(f.ctx, spare))
	_, err = f.svc.Items.GetByID(f.ctx, spare)
	assert.True(t, apperror.IsNotFound(err))
}
