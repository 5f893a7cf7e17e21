// Package numerator provides the PostgreSQL implementation of document auto-numbering.
// It implements core/numerator.Generator on top of the sys_sequences table.
package numerator

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	corenumerator "millstock/internal/core/numerator"
	"millstock/internal/infrastructure/storage/postgres"
)

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service allocates numbers with an UPSERT per call, so numbers are gapless
// as long as the surrounding transaction commits.
type Service struct {
	querier func(ctx context.Context) Querier
}

var _ corenumerator.Generator = (*Service)(nil)

// New creates a numerator that joins the caller's transaction when ctx carries one.
func New(txm *postgres.TxManager) *Service {
	return &Service{
		querier: func(ctx context.Context) Querier { return txm.GetQuerier(ctx) },
	}
}

// NewWithQuerier creates a numerator bound to a fixed querier.
func NewWithQuerier(q Querier) *Service {
	return &Service{
		querier: func(context.Context) Querier { return q },
	}
}

// Next implements corenumerator.Generator.
func (s *Service) Next(ctx context.Context, cfg corenumerator.Config) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	var num int64
	err := s.querier(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, cfg.Prefix).Scan(&num)
	if err != nil {
		return "", fmt.Errorf("next %s number: %w", cfg.Prefix, err)
	}
	return cfg.Format(num), nil
}

// Peek implements corenumerator.Generator.
func (s *Service) Peek(ctx context.Context, cfg corenumerator.Config) (string, error) {
	var num int64
	err := s.querier(ctx).QueryRow(ctx, `
		SELECT COALESCE((SELECT current_val FROM sys_sequences WHERE key = $1), 0)
	`, cfg.Prefix).Scan(&num)
	if err != nil {
		return "", fmt.Errorf("peek %s number: %w", cfg.Prefix, err)
	}
	return cfg.Format(num + 1), nil
}

// SetCurrent moves the sequence so that the next number is value+1.
// Used when importing documents numbered elsewhere.
func (s *Service) SetCurrent(ctx context.Context, cfg corenumerator.Config, value int64) error {
	var result int64
	err := s.querier(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
		RETURNING current_val
	`, cfg.Prefix, value).Scan(&result)
	if err != nil {
		return fmt.Errorf("set %s sequence: %w", cfg.Prefix, err)
	}
	return nil
}
