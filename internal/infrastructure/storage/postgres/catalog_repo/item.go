// Package catalog_repo provides the PostgreSQL item master repository.
package catalog_repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"millstock/internal/core/apperror"
	"millstock/internal/core/id"
	"millstock/internal/core/types"
	"millstock/internal/domain"
	"millstock/internal/domain/catalogs/item"
	"millstock/internal/infrastructure/storage/postgres"
)

const itemsTable = "items"

// Tables whose rows reference items; consulted before a delete.
var itemReferences = []string{
	"doc_gate_inward_lines",
	"doc_issue_note_lines",
	"doc_inward_internal_finished_goods",
	"doc_inward_internal_materials_used",
	"doc_outward_challan_lines",
	"production_floor_stocks",
}

// ItemRepo implements item.Repository.
type ItemRepo struct {
	txm        *postgres.TxManager
	selectCols []string
}

var _ item.Repository = (*ItemRepo)(nil)

// NewItemRepo creates a new item repository.
func NewItemRepo(txm *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		txm:        txm,
		selectCols: postgres.ExtractDBColumns[item.Item](),
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *ItemRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *ItemRepo) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// Create inserts the item with zero stock; opening stock goes through the ledger.
func (r *ItemRepo) Create(ctx context.Context, it *item.Item) error {
	data := postgres.PickColumns(postgres.StructToMap(it), r.selectCols)
	data["stock"] = int64(0)

	sql, args, err := r.Builder().Insert(itemsTable).SetMap(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.HasPgCode(err, postgres.PgErrUniqueViolation) {
			return apperror.NewDuplicate("item", "code", it.Code).WithCause(err)
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	sql, args, err := r.Builder().Select(r.selectCols...).From(itemsTable).Where(squirrel.Eq{"id": itemID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	it := &item.Item{}
	if err := pgxscan.Get(ctx, r.querier(ctx), it, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("item", itemID.String())
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// Update writes master fields with optimistic locking. The stock column is
// never part of the SET list.
func (r *ItemRepo) Update(ctx context.Context, it *item.Item) error {
	data := postgres.PickColumns(postgres.StructToMap(it), r.selectCols,
		"id", "version", "stock", "created_at", "updated_at")

	q := r.Builder().
		Update(itemsTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": it.ID})
	if it.Version != 0 {
		q = q.Where(squirrel.Eq{"version": it.Version})
	}

	sql, args, err := q.Suffix("RETURNING version, stock").ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&it.Version, &it.Stock); err != nil {
		if pgxscan.NotFound(err) {
			if _, getErr := r.GetByID(ctx, it.ID); getErr != nil {
				return getErr
			}
			return apperror.NewConcurrentModification("item", it.ID.String())
		}
		if postgres.HasPgCode(err, postgres.PgErrUniqueViolation) {
			return apperror.NewDuplicate("item", "code", it.Code).WithCause(err)
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Delete removes the item. A foreign key hit means a reference appeared after
// the IsReferenced check.
func (r *ItemRepo) Delete(ctx context.Context, itemID id.ID) error {
	sql, args, err := r.Builder().Delete(itemsTable).Where(squirrel.Eq{"id": itemID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.HasPgCode(err, postgres.PgErrForeignKeyViolation) {
			return apperror.NewConflict("Cannot delete item. It is used by stock documents or production floor stock.").
				WithDetail("itemId", itemID.String()).
				WithDetail("constraint", postgres.ConstraintName(err)).
				WithCause(err)
		}
		return fmt.Errorf("delete item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("item", itemID.String())
	}
	return nil
}

func (r *ItemRepo) List(ctx context.Context, filter item.ListFilter) (domain.ListResult[*item.Item], error) {
	result := domain.ListResult[*item.Item]{Limit: filter.Limit, Offset: filter.Offset}

	q := r.listQuery(filter)

	countSQL, countArgs, err := r.Builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := r.querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count items: %w", err)
	}

	q = q.OrderBy("code")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.querier(ctx), &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list items: %w", err)
	}
	return result, nil
}

func (r *ItemRepo) listQuery(filter item.ListFilter) squirrel.SelectBuilder {
	q := r.Builder().Select(r.selectCols...).From(itemsTable)
	if filter.Category != "" {
		q = q.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.Subcategory != "" {
		q = q.Where(squirrel.Eq{"subcategory": filter.Subcategory})
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		q = q.Where(squirrel.Or{
			squirrel.ILike{"code": "%" + s + "%"},
			squirrel.ILike{"name": "%" + s + "%"},
		})
	}
	return q
}

func (r *ItemRepo) MissingItems(ctx context.Context, ids []id.ID) ([]id.ID, error) {
	ids = id.SortedUnique(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	var found []id.ID
	sql, args, err := r.Builder().Select("id").From(itemsTable).Where(squirrel.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.querier(ctx), &found, sql, args...); err != nil {
		return nil, fmt.Errorf("check items: %w", err)
	}

	present := make(map[id.ID]struct{}, len(found))
	for _, f := range found {
		present[f] = struct{}{}
	}
	var missing []id.ID
	for _, itemID := range ids {
		if _, ok := present[itemID]; !ok {
			missing = append(missing, itemID)
		}
	}
	return missing, nil
}

func (r *ItemRepo) CurrentUnitRate(ctx context.Context, itemID id.ID) (types.Rate, error) {
	var rate types.Rate
	err := r.querier(ctx).QueryRow(ctx, "SELECT unit_rate FROM items WHERE id = $1", itemID).Scan(&rate)
	if err != nil {
		if pgxscan.NotFound(err) {
			return types.ZeroRate(), apperror.NewNotFound("item", itemID.String())
		}
		return types.ZeroRate(), fmt.Errorf("get unit rate: %w", err)
	}
	return rate, nil
}

func (r *ItemRepo) IsReferenced(ctx context.Context, itemID id.ID) (bool, error) {
	var referenced bool
	if err := r.querier(ctx).QueryRow(ctx, referencedSQL(), itemID).Scan(&referenced); err != nil {
		return false, fmt.Errorf("check item references: %w", err)
	}
	return referenced, nil
}

func referencedSQL() string {
	parts := make([]string, len(itemReferences))
	for i, table := range itemReferences {
		parts[i] = "EXISTS (SELECT 1 FROM " + table + " WHERE item_id = $1)"
	}
	return "SELECT " + strings.Join(parts, " OR ")
}

func (r *ItemRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	if err := r.querier(ctx).QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM items WHERE code = $1)", code).Scan(&exists); err != nil {
		return false, fmt.Errorf("check code: %w", err)
	}
	return exists, nil
}

func (r *ItemRepo) CountByCategory(ctx context.Context, category, subcategory string) (int64, error) {
	var n int64
	err := r.querier(ctx).QueryRow(ctx,
		"SELECT COUNT(*) FROM items WHERE category = $1 AND subcategory = $2",
		category, subcategory,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}
