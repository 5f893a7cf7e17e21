// Package document_repo provides PostgreSQL implementations of the document stores.
// A document is one header row plus line rows in one or more line tables;
// lines are always replaced as a whole.
package document_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"millstock/internal/core/apperror"
	"millstock/internal/core/entity"
	"millstock/internal/core/id"
	"millstock/internal/domain"
	"millstock/internal/infrastructure/storage/postgres"
)

// lineColumns are the columns of every line table, in COPY order.
var lineColumns = []string{
	"line_id", "document_id", "line_no", "item_id",
	"quantity", "unit_rate", "uom", "amount", "remark",
}

// BaseDocumentRepo provides header CRUD and line helpers for one document type.
type BaseDocumentRepo[T any] struct {
	txm        *postgres.TxManager
	name       string
	tableName  string
	selectCols []string
	newFn      func() T
}

// NewBaseDocumentRepo creates a new base document repository.
func NewBaseDocumentRepo[T any](txm *postgres.TxManager, name, tableName string, selectCols []string, newFn func() T) *BaseDocumentRepo[T] {
	return &BaseDocumentRepo[T]{
		txm:        txm,
		name:       name,
		tableName:  tableName,
		selectCols: selectCols,
		newFn:      newFn,
	}
}

// Builder returns a new squirrel builder.
func (r *BaseDocumentRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseDocumentRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// insertHeader inserts the header row.
func (r *BaseDocumentRepo[T]) insertHeader(ctx context.Context, doc T) error {
	data := postgres.PickColumns(postgres.StructToMap(doc), r.selectCols)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in %s", r.name)
	}

	sql, args, err := r.Builder().Insert(r.tableName).SetMap(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.HasPgCode(err, postgres.PgErrUniqueViolation) {
			return apperror.NewDuplicate(r.name, "number", fmt.Sprint(postgres.StructToMap(doc)["number"])).WithCause(err)
		}
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}
	return nil
}

// updateHeader rewrites the mutable header columns and bumps the version.
// The caller holds the row lock from GetForUpdate, so the version guard only
// catches writers that bypassed it.
func (r *BaseDocumentRepo[T]) updateHeader(ctx context.Context, header *entity.Document, doc T) error {
	data := postgres.PickColumns(postgres.StructToMap(doc), r.selectCols,
		"id", "version", "created_at", "created_by")

	q := r.Builder().
		Update(r.tableName).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": header.ID, "version": header.Version}).
		Suffix("RETURNING version")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	var version int
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&version); err != nil {
		if pgxscan.NotFound(err) {
			return apperror.NewConcurrentModification(r.name, header.ID.String())
		}
		if postgres.HasPgCode(err, postgres.PgErrUniqueViolation) {
			return apperror.NewDuplicate(r.name, "number", header.Number).WithCause(err)
		}
		return fmt.Errorf("update %s: %w", r.tableName, err)
	}
	header.Version = version
	return nil
}

// Delete removes the header; line rows go with it (ON DELETE CASCADE).
func (r *BaseDocumentRepo[T]) Delete(ctx context.Context, docID id.ID) error {
	sql, args, err := r.Builder().Delete(r.tableName).Where(squirrel.Eq{"id": docID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.name, docID.String())
	}
	return nil
}

// NumberExists reports whether any document in the table uses number.
func (r *BaseDocumentRepo[T]) NumberExists(ctx context.Context, number string) (bool, error) {
	sql, args, err := r.Builder().
		Select("1").
		Prefix("SELECT EXISTS (").
		From(r.tableName).
		Where(squirrel.Eq{"number": number}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists: %w", err)
	}

	var exists bool
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("number exists: %w", err)
	}
	return exists, nil
}

func (r *BaseDocumentRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().Select(r.selectCols...).From(r.tableName)
}

// getHeader loads the header row, optionally locking it.
func (r *BaseDocumentRepo[T]) getHeader(ctx context.Context, docID id.ID, forUpdate bool) (T, error) {
	doc := r.newFn()
	q := r.baseSelect().Where(squirrel.Eq{"id": docID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return doc, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return doc, apperror.NewNotFound(r.name, docID.String())
		}
		return doc, fmt.Errorf("get %s: %w", r.tableName, err)
	}
	return doc, nil
}

// loadLines scans the lines of docID from table into dest (a pointer to a slice).
func (r *BaseDocumentRepo[T]) loadLines(ctx context.Context, table string, docID id.ID, dest any, extra ...string) error {
	cols := append(lineColumnsWithoutDocument(), extra...)
	sql, args, err := r.Builder().
		Select(cols...).
		From(table).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return fmt.Errorf("build lines query: %w", err)
	}

	if err := pgxscan.Select(ctx, r.querier(ctx), dest, sql, args...); err != nil {
		return fmt.Errorf("get %s: %w", table, err)
	}
	return nil
}

// replaceLines deletes every line of docID in table and copies rows in.
func (r *BaseDocumentRepo[T]) replaceLines(ctx context.Context, table string, docID id.ID, columns []string, rows [][]any) error {
	if _, err := r.querier(ctx).Exec(ctx, "DELETE FROM "+table+" WHERE document_id = $1", docID); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	if _, err := postgres.NewBatchInserter(r.txm).CopyFromSlice(ctx, table, columns, rows); err != nil {
		return fmt.Errorf("copy %s: %w", table, err)
	}
	return nil
}

func lineColumnsWithoutDocument() []string {
	cols := make([]string, 0, len(lineColumns)-1)
	for _, c := range lineColumns {
		if c != "document_id" {
			cols = append(cols, c)
		}
	}
	return cols
}

func lineRows(docID id.ID, lines []entity.Line) [][]any {
	rows := make([][]any, len(lines))
	for i, l := range lines {
		rows[i] = []any{
			l.LineID, docID, l.LineNo, l.ItemID,
			l.Quantity.Int64Scaled(), l.UnitRate, l.UOM, l.Amount, l.Remark,
		}
	}
	return rows
}

// list runs the common list query; apply adds type-specific conditions.
func (r *BaseDocumentRepo[T]) list(ctx context.Context, filter domain.ListFilter, apply func(squirrel.SelectBuilder) squirrel.SelectBuilder) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if apply != nil {
		q = apply(q)
	}

	countSQL, countArgs, err := r.Builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := r.querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy, "number DESC")

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
		return result, fmt.Errorf("list %s: %w", r.tableName, err)
	}
	return result, nil
}

func (r *BaseDocumentRepo[T]) parseOrderBy(orderBy string) (string, error) {
	if strings.TrimSpace(orderBy) == "" {
		return "date DESC", nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else {
		field = strings.TrimPrefix(orderBy, "+")
	}
	field = strings.TrimSpace(field)

	for _, col := range r.selectCols {
		if col == field {
			return field + " " + direction, nil
		}
	}
	return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
}
