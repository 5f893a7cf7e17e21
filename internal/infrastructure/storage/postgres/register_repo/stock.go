// Package register_repo provides the PostgreSQL stock ledger repository.
package register_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"millstock/internal/core/id"
	"millstock/internal/core/types"
	"millstock/internal/domain/registers/stock"
	"millstock/internal/infrastructure/storage/postgres"
)

const (
	itemsTable = "items"
	floorTable = "production_floor_stocks"
)

// Guarded increments: the row is only touched when the result stays
// non-negative, so a concurrent writer can never drive a balance below zero.
const (
	adjustMainSQL = `UPDATE items
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING stock`

	adjustFloorSQL = `UPDATE production_floor_stocks
		SET quantity = quantity + $2, updated_at = now()
		WHERE item_id = $1 AND quantity + $2 >= 0
		RETURNING quantity`

	openFloorSQL = `INSERT INTO production_floor_stocks (id, item_id, quantity, unit_rate, uom, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (item_id) DO UPDATE
		SET quantity = production_floor_stocks.quantity + EXCLUDED.quantity,
		    updated_at = EXCLUDED.updated_at
		RETURNING quantity`
)

// StockRepo implements stock.Repository.
type StockRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

var _ stock.Repository = (*StockRepo)(nil)

// NewStockRepo creates a new stock ledger repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *StockRepo) AdjustMain(ctx context.Context, itemID id.ID, delta types.Quantity) (types.Quantity, error) {
	return r.adjust(ctx, stock.PoolMain, adjustMainSQL, itemID, delta)
}

func (r *StockRepo) AdjustFloor(ctx context.Context, itemID id.ID, delta types.Quantity) (types.Quantity, error) {
	return r.adjust(ctx, stock.PoolFloor, adjustFloorSQL, itemID, delta)
}

func (r *StockRepo) adjust(ctx context.Context, pool stock.Pool, sql string, itemID id.ID, delta types.Quantity) (types.Quantity, error) {
	q := r.txm.GetQuerier(ctx)

	var balance int64
	err := q.QueryRow(ctx, sql, itemID, delta.Int64Scaled()).Scan(&balance)
	switch {
	case err == nil:
		return types.NewQuantityFromInt64Scaled(balance), nil
	case postgres.HasPgCode(err, postgres.PgErrCheckViolation):
		return 0, stock.ErrNegativeBalance
	case !errors.Is(err, pgx.ErrNoRows):
		return 0, fmt.Errorf("adjust %s stock: %w", pool, err)
	}

	// No row updated: either the row is missing or the guard rejected the delta.
	exists, err := r.rowExists(ctx, pool, itemID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, stock.ErrEntryNotFound
	}
	return 0, stock.ErrNegativeBalance
}

func (r *StockRepo) rowExists(ctx context.Context, pool stock.Pool, itemID id.ID) (bool, error) {
	table, key, _, err := poolColumns(pool)
	if err != nil {
		return false, err
	}

	var exists bool
	sql := "SELECT EXISTS (SELECT 1 FROM " + table + " WHERE " + key + " = $1)"
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, itemID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s entry: %w", pool, err)
	}
	return exists, nil
}

func (r *StockRepo) OpenFloor(ctx context.Context, entry stock.FloorEntry) (types.Quantity, error) {
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now().UTC()
	}

	var balance int64
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, openFloorSQL,
		entry.ID, entry.ItemID, entry.Quantity.Int64Scaled(), entry.UnitRate, entry.UOM, entry.UpdatedAt,
	).Scan(&balance)
	if err != nil {
		if postgres.HasPgCode(err, postgres.PgErrCheckViolation) {
			return 0, stock.ErrNegativeBalance
		}
		return 0, fmt.Errorf("open floor entry: %w", err)
	}
	return types.NewQuantityFromInt64Scaled(balance), nil
}

func (r *StockRepo) GetBalances(ctx context.Context, pool stock.Pool, itemIDs []id.ID) (map[id.ID]types.Quantity, error) {
	return r.balances(ctx, pool, itemIDs, false)
}

// GetBalancesForUpdate locks rows in id order so that two units of work
// touching the same items always acquire locks in the same sequence.
func (r *StockRepo) GetBalancesForUpdate(ctx context.Context, pool stock.Pool, itemIDs []id.ID) (map[id.ID]types.Quantity, error) {
	return r.balances(ctx, pool, itemIDs, true)
}

type balanceRow struct {
	ItemID   id.ID `db:"item_id"`
	Quantity int64 `db:"quantity"`
}

func (r *StockRepo) balances(ctx context.Context, pool stock.Pool, itemIDs []id.ID, forUpdate bool) (map[id.ID]types.Quantity, error) {
	itemIDs = id.SortedUnique(itemIDs)
	result := make(map[id.ID]types.Quantity, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	sql, args, err := r.balancesQuery(pool, itemIDs, forUpdate)
	if err != nil {
		return nil, err
	}

	var rows []balanceRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("get %s balances: %w", pool, err)
	}
	for _, row := range rows {
		result[row.ItemID] = types.NewQuantityFromInt64Scaled(row.Quantity)
	}
	return result, nil
}

func (r *StockRepo) balancesQuery(pool stock.Pool, itemIDs []id.ID, forUpdate bool) (string, []any, error) {
	table, key, qty, err := poolColumns(pool)
	if err != nil {
		return "", nil, err
	}

	q := r.builder.
		Select(key+" AS item_id", qty+" AS quantity").
		From(table).
		Where(squirrel.Eq{key: itemIDs}).
		OrderBy(key)
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build balances query: %w", err)
	}
	return sql, args, nil
}

func poolColumns(pool stock.Pool) (table, key, qty string, err error) {
	switch pool {
	case stock.PoolMain:
		return itemsTable, "id", "stock", nil
	case stock.PoolFloor:
		return floorTable, "item_id", "quantity", nil
	default:
		return "", "", "", fmt.Errorf("unknown stock pool %q", pool)
	}
}

func (r *StockRepo) ListFloor(ctx context.Context, filter stock.FloorFilter) ([]stock.FloorEntry, error) {
	sql, args, err := r.listFloorQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build floor query: %w", err)
	}

	var entries []stock.FloorEntry
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list floor stock: %w", err)
	}
	return entries, nil
}

func (r *StockRepo) listFloorQuery(filter stock.FloorFilter) squirrel.SelectBuilder {
	q := r.builder.
		Select(
			"f.id", "f.item_id", "f.quantity", "f.unit_rate", "f.uom", "f.updated_at",
			"i.code AS item_code", "i.name AS item_name",
		).
		From(floorTable + " f").
		Join(itemsTable + " i ON i.id = f.item_id").
		OrderBy("i.code")
	if filter.OnlyPositive {
		q = q.Where(squirrel.Gt{"f.quantity": 0})
	}
	return q
}
