package posting

import (
	"context"
	"fmt"

	"millstock/internal/core/apperror"
	"millstock/internal/core/id"
	"millstock/internal/core/types"
	"millstock/internal/domain/registers/stock"
)

// ItemCatalog answers item existence for a batch of ids.
type ItemCatalog interface {
	// MissingItems returns the subset of ids with no item row.
	MissingItems(ctx context.Context, ids []id.ID) ([]id.ID, error)
}

// Ledger is the part of the stock ledger the posting engine drives.
type Ledger interface {
	Adjust(ctx context.Context, pool stock.Pool, itemID id.ID, delta types.Quantity) (types.Quantity, error)
	LockBalances(ctx context.Context, pool stock.Pool, itemIDs []id.ID) (map[id.ID]types.Quantity, error)
}

// Validator checks every precondition of a movement set before any adjustment runs.
type Validator struct {
	items  ItemCatalog
	ledger Ledger
}

// NewValidator creates a movement validator.
func NewValidator(items ItemCatalog, ledger Ledger) *Validator {
	return &Validator{items: items, ledger: ledger}
}

// Validate fails with VALIDATION_ERROR for a missing item reference or a
// non-positive quantity and with INSUFFICIENT_STOCK when the outward total of
// an item exceeds its locked balance. Inward movements are never bounded.
func (v *Validator) Validate(ctx context.Context, set MovementSet) error {
	if err := v.CheckLines(ctx, set); err != nil {
		return err
	}

	for _, pool := range []stock.Pool{stock.PoolMain, stock.PoolFloor} {
		totals := set.OutwardTotals(pool)
		if len(totals) == 0 {
			continue
		}

		ids := make([]id.ID, 0, len(totals))
		for itemID := range totals {
			ids = append(ids, itemID)
		}
		ids = id.SortedUnique(ids)

		balances, err := v.ledger.LockBalances(ctx, pool, ids)
		if err != nil {
			return err
		}

		for _, itemID := range ids {
			if requested, available := totals[itemID], balances[itemID]; requested > available {
				return apperror.NewInsufficientStock(itemID.String(), available, requested).
					WithDetail("pool", pool)
			}
		}
	}

	return nil
}

// CheckLines runs the per-line checks of Validate: item present and known,
// quantity positive. It reads no balance.
func (v *Validator) CheckLines(ctx context.Context, set MovementSet) error {
	for _, m := range set {
		if id.IsNil(m.ItemID) {
			return lineError("item is required", m)
		}
		if !m.Quantity.IsPositive() {
			return lineError("quantity must be positive", m)
		}
	}

	if len(set) == 0 {
		return nil
	}

	missing, err := v.items.MissingItems(ctx, set.ItemIDs())
	if err != nil {
		return apperror.NewStorage(fmt.Errorf("check items: %w", err))
	}
	if len(missing) > 0 {
		for _, m := range set {
			if m.ItemID == missing[0] {
				return lineError("unknown item", m).WithDetail("itemId", m.ItemID.String())
			}
		}
	}
	return nil
}

// CheckNet locks the balances that changes draw down and fails with
// INSUFFICIENT_STOCK when one of them would end below zero. available is the
// locked balance and requested the net draw.
func (v *Validator) CheckNet(ctx context.Context, changes []Change) error {
	for _, pool := range []stock.Pool{stock.PoolMain, stock.PoolFloor} {
		var ids []id.ID
		for _, c := range changes {
			if c.Pool == pool && c.Delta.IsNegative() {
				ids = append(ids, c.ItemID)
			}
		}
		if len(ids) == 0 {
			continue
		}

		balances, err := v.ledger.LockBalances(ctx, pool, ids)
		if err != nil {
			return err
		}

		for _, c := range changes {
			if c.Pool != pool || !c.Delta.IsNegative() {
				continue
			}
			if available := balances[c.ItemID]; available+c.Delta < 0 {
				appErr := apperror.NewInsufficientStock(c.ItemID.String(), available, c.Delta.Neg()).
					WithDetail("pool", pool)
				if c.LineNo != 0 {
					appErr.WithDetail("field", c.Group).WithDetail("lineNo", c.LineNo)
				}
				return appErr
			}
		}
	}
	return nil
}

func lineError(msg string, m Movement) *apperror.AppError {
	return apperror.NewValidation(msg).
		WithDetail("field", m.Group).
		WithDetail("lineNo", m.LineNo)
}
