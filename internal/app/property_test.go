package app

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"millstock/internal/core/apperror"
	"millstock/internal/core/entity"
	"millstock/internal/core/id"
	"millstock/internal/core/types"
	"millstock/internal/domain"
	"millstock/internal/domain/documents/gate_inward"
	"millstock/internal/domain/documents/inward_internal"
	"millstock/internal/domain/documents/issue_note"
	"millstock/internal/domain/documents/outward_challan"
	"millstock/internal/domain/posting"
	"millstock/internal/domain/registers/stock"
)

type balanceKey struct {
	pool   stock.Pool
	itemID id.ID
}

// TestRandomOperations_BalancesStayConsistent drives random create, update
// and delete calls. A call must fail with INSUFFICIENT_STOCK exactly when its
// summed effect would leave a balance below zero, and after each call every
// balance must equal opening stock plus the movements of the stored documents.
func TestRandomOperations_BalancesStayConsistent(t *testing.T) {
	for _, seed := range []uint64{1, 7, 42, 2024} {
		rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		f := newFixture(t)

		opening := map[id.ID]types.Quantity{}
		items := make([]id.ID, 4)
		for i := range items {
			units := int64(rng.IntN(20))
			items[i] = f.newItem("item", units)
			opening[items[i]] = qty(units)
		}

		pick := func() id.ID { return items[rng.IntN(len(items))] }
		randLine := func() entity.Line { return line(pick(), int64(1+rng.IntN(12))) }

		var gis, ins, iis, ocs []id.ID
		for step := 0; step < 300; step++ {
			var (
				err      error
				negative bool
			)
			switch rng.IntN(8) {
			case 0:
				doc := gate_inward.NewGateInward(id.New())
				doc.Lines = []entity.Line{randLine(), randLine()}
				negative = f.finalBalanceNegative(nil, doc.Movements())
				if err = f.svc.GateInwards.Create(f.ctx, doc); err == nil {
					gis = append(gis, doc.ID)
				}
			case 1:
				doc := issue_note.NewIssueNote("Assembly", "Ravi")
				doc.Lines = []entity.Line{randLine()}
				negative = f.finalBalanceNegative(nil, doc.Movements())
				if err = f.svc.IssueNotes.Create(f.ctx, doc); err == nil {
					ins = append(ins, doc.ID)
				}
			case 2:
				doc := inward_internal.NewInwardInternal("Meena")
				if rng.IntN(3) != 0 {
					doc.FinishedGoods = []entity.Line{randLine()}
				}
				if len(doc.FinishedGoods) == 0 || rng.IntN(2) == 0 {
					doc.MaterialsUsed = []entity.Line{randLine()}
				}
				negative = f.finalBalanceNegative(nil, doc.Movements())
				if err = f.svc.InwardInternals.Create(f.ctx, doc); err == nil {
					iis = append(iis, doc.ID)
				}
			case 3:
				doc := outward_challan.NewOutwardChallan(id.New())
				doc.Lines = []outward_challan.ChallanLine{{Line: randLine()}}
				negative = f.finalBalanceNegative(nil, doc.Movements())
				if err = f.svc.OutwardChallans.Create(f.ctx, doc); err == nil {
					ocs = append(ocs, doc.ID)
				}
			case 4:
				if len(gis) > 0 {
					doc, getErr := f.svc.GateInwards.GetByID(f.ctx, gis[rng.IntN(len(gis))])
					require.NoError(t, getErr)
					prev := doc.Movements()
					doc.Lines[0].Quantity = qty(int64(1 + rng.IntN(12)))
					negative = f.finalBalanceNegative(prev, doc.Movements())
					err = f.svc.GateInwards.Update(f.ctx, doc)
				}
			case 5:
				if len(ins) > 0 {
					doc, getErr := f.svc.IssueNotes.GetByID(f.ctx, ins[rng.IntN(len(ins))])
					require.NoError(t, getErr)
					prev := doc.Movements()
					doc.Lines = []entity.Line{randLine()}
					negative = f.finalBalanceNegative(prev, doc.Movements())
					err = f.svc.IssueNotes.Update(f.ctx, doc)
				}
			case 6:
				gis, negative, err = f.deleteRandom(rng, gis, func(docID id.ID) (posting.MovementSet, func() error) {
					doc, getErr := f.svc.GateInwards.GetByID(f.ctx, docID)
					require.NoError(t, getErr)
					return doc.Movements(), func() error { return f.svc.GateInwards.Delete(f.ctx, docID) }
				})
			case 7:
				switch rng.IntN(3) {
				case 0:
					ins, negative, err = f.deleteRandom(rng, ins, func(docID id.ID) (posting.MovementSet, func() error) {
						doc, getErr := f.svc.IssueNotes.GetByID(f.ctx, docID)
						require.NoError(t, getErr)
						return doc.Movements(), func() error { return f.svc.IssueNotes.Delete(f.ctx, docID) }
					})
				case 1:
					iis, negative, err = f.deleteRandom(rng, iis, func(docID id.ID) (posting.MovementSet, func() error) {
						doc, getErr := f.svc.InwardInternals.GetByID(f.ctx, docID)
						require.NoError(t, getErr)
						return doc.Movements(), func() error { return f.svc.InwardInternals.Delete(f.ctx, docID) }
					})
				default:
					ocs, negative, err = f.deleteRandom(rng, ocs, func(docID id.ID) (posting.MovementSet, func() error) {
						doc, getErr := f.svc.OutwardChallans.GetByID(f.ctx, docID)
						require.NoError(t, getErr)
						return doc.Movements(), func() error { return f.svc.OutwardChallans.Delete(f.ctx, docID) }
					})
				}
			}

			if negative {
				require.True(t, apperror.IsInsufficientStock(err), "seed %d step %d: %v", seed, step, err)
			} else {
				require.NoError(t, err, "seed %d step %d", seed, step)
			}
			f.requireConsistent(seed, step, items, opening)
		}
	}
}

// deleteRandom deletes one of ids. load returns the stored movements and the
// delete call; the balances are judged before the call runs.
func (f *fixture) deleteRandom(rng *rand.Rand, ids []id.ID, load func(id.ID) (posting.MovementSet, func() error)) ([]id.ID, bool, error) {
	if len(ids) == 0 {
		return ids, false, nil
	}
	i := rng.IntN(len(ids))
	prev, del := load(ids[i])
	negative := f.finalBalanceNegative(prev, nil)
	if err := del(); err != nil {
		return ids, negative, err
	}
	return append(ids[:i], ids[i+1:]...), negative, nil
}

// finalBalanceNegative reports whether reversing prev and posting next on the
// current balances would leave any (pool, item) below zero.
func (f *fixture) finalBalanceNegative(prev, next posting.MovementSet) bool {
	f.t.Helper()

	for _, c := range append(prev.Inverse(), next...).Net() {
		current := f.main(c.ItemID)
		if c.Pool == stock.PoolFloor {
			current = f.floor(c.ItemID)
		}
		if current+c.Delta < 0 {
			return true
		}
	}
	return false
}

func (f *fixture) requireConsistent(seed uint64, step int, items []id.ID, opening map[id.ID]types.Quantity) {
	f.t.Helper()

	want := map[balanceKey]types.Quantity{}
	for itemID, q := range opening {
		want[balanceKey{stock.PoolMain, itemID}] = q
	}
	add := func(set posting.MovementSet) {
		for _, m := range set {
			want[balanceKey{m.Pool, m.ItemID}] += m.Delta()
		}
	}

	all := domain.ListFilter{}
	gis, err := f.store.GateInwards.List(f.ctx, gate_inward.ListFilter{ListFilter: all})
	require.NoError(f.t, err)
	for _, d := range gis.Items {
		add(d.Movements())
	}
	ins, err := f.store.IssueNotes.List(f.ctx, issue_note.ListFilter{ListFilter: all})
	require.NoError(f.t, err)
	for _, d := range ins.Items {
		add(d.Movements())
	}
	iis, err := f.store.InwardInternals.List(f.ctx, inward_internal.ListFilter{ListFilter: all})
	require.NoError(f.t, err)
	for _, d := range iis.Items {
		add(d.Movements())
	}
	ocs, err := f.store.OutwardChallans.List(f.ctx, outward_challan.ListFilter{ListFilter: all})
	require.NoError(f.t, err)
	for _, d := range ocs.Items {
		add(d.Movements())
	}

	for _, itemID := range items {
		main, floor := f.main(itemID), f.floor(itemID)
		require.GreaterOrEqual(f.t, int64(main), int64(0), "seed %d step %d", seed, step)
		require.GreaterOrEqual(f.t, int64(floor), int64(0), "seed %d step %d", seed, step)
		require.Equal(f.t, want[balanceKey{stock.PoolMain, itemID}], main, "main, seed %d step %d", seed, step)
		require.Equal(f.t, want[balanceKey{stock.PoolFloor, itemID}], floor, "floor, seed %d step %d", seed, step)
	}
}
