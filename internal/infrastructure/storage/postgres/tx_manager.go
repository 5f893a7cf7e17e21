package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"millstock/internal/core/tx"
	"millstock/pkg/logger"
)

var tracer = otel.Tracer("millstock/tx")

var _ tx.ReadOnlyManager = (*TxManager)(nil)

// TxOptions configures transaction behavior.
type TxOptions struct {
	// IsolationLevel: pgx.Serializable, pgx.RepeatableRead, pgx.ReadCommitted
	IsolationLevel pgx.TxIsoLevel

	// AccessMode: pgx.ReadWrite, pgx.ReadOnly
	AccessMode pgx.TxAccessMode

	// StatementTimeout bounds every statement of the transaction (0 = server default)
	StatementTimeout time.Duration
}

// DefaultTxOptions returns production-safe defaults.
// READ COMMITTED is enough: every balance change is a single guarded UPDATE
// and the validator locks the rows it reads.
func DefaultTxOptions() TxOptions {
	return TxOptions{
		IsolationLevel:   pgx.ReadCommitted,
		AccessMode:       pgx.ReadWrite,
		StatementTimeout: 30 * time.Second,
	}
}

// ParseIsolation maps a config value to a pgx isolation level.
func ParseIsolation(s string) (pgx.TxIsoLevel, error) {
	switch s {
	case "", "read committed", "read_committed":
		return pgx.ReadCommitted, nil
	case "repeatable read", "repeatable_read":
		return pgx.RepeatableRead, nil
	case "serializable":
		return pgx.Serializable, nil
	default:
		return "", fmt.Errorf("unknown isolation level %q", s)
	}
}

// TxManager implements tx.Manager on a pgx pool. The active pgx.Tx travels in
// the context so repositories join it through GetQuerier.
type TxManager struct {
	pool *pgxpool.Pool
	opts TxOptions
}

// NewTxManager creates a new transaction manager.
func NewTxManager(pool *Pool, opts TxOptions) *TxManager {
	return &TxManager{pool: pool.Pool, opts: opts}
}

type txKey struct{}

// RunInTransaction executes fn within a transaction.
// If a transaction already exists in ctx, it is reused.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTransactionWithOptions(ctx, m.opts, fn)
}

// ReadOnly executes fn in a read-only transaction.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := m.opts
	opts.AccessMode = pgx.ReadOnly
	return m.RunInTransactionWithOptions(ctx, opts, fn)
}

// RunInTransactionWithOptions executes fn with custom transaction options.
func (m *TxManager) RunInTransactionWithOptions(ctx context.Context, opts TxOptions, fn func(ctx context.Context) error) error {
	if m.GetTx(ctx) != nil {
		return fn(ctx)
	}

	ctx, span := tracer.Start(ctx, "transaction",
		trace.WithAttributes(
			attribute.String("tx.isolation", string(opts.IsolationLevel)),
			attribute.String("tx.access", string(opts.AccessMode)),
		))
	defer span.End()

	err := m.run(ctx, opts, fn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (m *TxManager) run(ctx context.Context, opts TxOptions, fn func(ctx context.Context) error) (err error) {
	pgTx, err := m.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   opts.IsolationLevel,
		AccessMode: opts.AccessMode,
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = pgTx.Rollback(context.Background())
			panic(p)
		}
	}()

	if opts.StatementTimeout > 0 {
		if _, err := pgTx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", opts.StatementTimeout.Milliseconds())); err != nil {
			_ = pgTx.Rollback(context.Background())
			return fmt.Errorf("set statement_timeout: %w", err)
		}
	}

	if err := fn(context.WithValue(ctx, txKey{}, pgTx)); err != nil {
		// Background context: the rollback must run even if ctx was cancelled.
		if rbErr := pgTx.Rollback(context.Background()); rbErr != nil {
			logger.Error(ctx, "rollback failed", "error", rbErr, "original_error", err)
		}
		return err
	}

	if err := pgTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetTx returns the current transaction from context, or nil if none.
func (m *TxManager) GetTx(ctx context.Context) pgx.Tx {
	if t, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return t
	}
	return nil
}

// Querier is satisfied by both pgx.Tx and *pgxpool.Pool.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GetQuerier returns the transaction in ctx, or the pool outside a transaction.
func (m *TxManager) GetQuerier(ctx context.Context) Querier {
	if t := m.GetTx(ctx); t != nil {
		return t
	}
	return m.pool
}
