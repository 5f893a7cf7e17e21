package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"millstock/internal/core/numerator"
	"millstock/internal/core/types"
	"millstock/internal/domain/catalogs/item"
)

func seedItem(t *testing.T, s *Store, units int64) *item.Item {
	t.Helper()
	it := item.NewItem("Pipe", "Raw", "Pipes", "PC", types.MustRate("1"))
	it.Code = "RAPI-001"
	it.Stock = types.NewQuantityFromInt(units)
	require.NoError(t, s.Items.Create(context.Background(), it))
	return it
}

func TestRunInTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	it := seedItem(t, s, 10)

	boom := errors.New("boom")
	err := s.TxManager.RunInTransaction(ctx, func(ctx context.Context) error {
		_, err := s.Stock.AdjustMain(ctx, it.ID, types.NewQuantityFromInt(-4))
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromInt(10), got.Stock)
}

func TestRunInTransaction_RollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	it := seedItem(t, s, 10)

	assert.Panics(t, func() {
		_ = s.TxManager.RunInTransaction(ctx, func(ctx context.Context) error {
			_, _ = s.Stock.AdjustMain(ctx, it.ID, types.NewQuantityFromInt(5))
			panic("unexpected")
		})
	})

	got, err := s.Items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromInt(10), got.Stock)
}

func TestRunInTransaction_NestedReusesOuter(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	it := seedItem(t, s, 10)

	err := s.TxManager.RunInTransaction(ctx, func(ctx context.Context) error {
		require.True(t, InTransaction(ctx))
		inner := s.TxManager.RunInTransaction(ctx, func(ctx context.Context) error {
			_, err := s.Stock.AdjustMain(ctx, it.ID, types.NewQuantityFromInt(1))
			return err
		})
		require.NoError(t, inner)
		return errors.New("outer fails")
	})
	require.Error(t, err)

	got, err := s.Items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromInt(10), got.Stock)
}

func TestSequences_ReturnedOnRollback(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	cfg := numerator.DefaultConfig("GRN")

	err := s.TxManager.RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := s.Sequences.Next(ctx, cfg)
		require.NoError(t, err)
		assert.Equal(t, "GRN-001", n)
		return errors.New("rejected")
	})
	require.Error(t, err)

	n, err := s.Sequences.Next(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, "GRN-001", n)

	peek, err := s.Sequences.Peek(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, "GRN-002", peek)
}

func TestRunInTransaction_OutsideReadsWaitForCommitOrRollback(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	it := seedItem(t, s, 10)

	entered, release := make(chan struct{}), make(chan struct{})
	done := make(chan error, 1)
	var inside types.Quantity
	go func() {
		done <- s.TxManager.RunInTransaction(ctx, func(ctx context.Context) error {
			if _, err := s.Stock.AdjustMain(ctx, it.ID, types.NewQuantityFromInt(-4)); err != nil {
				return err
			}
			got, err := s.Items.GetByID(ctx, it.ID)
			if err != nil {
				return err
			}
			inside = got.Stock
			close(entered)
			<-release
			return errors.New("rejected")
		})
	}()
	<-entered

	read := make(chan types.Quantity, 1)
	go func() {
		got, err := s.Items.GetByID(ctx, it.ID)
		if err != nil {
			read <- -1
			return
		}
		read <- got.Stock
	}()

	select {
	case q := <-read:
		t.Fatalf("read returned %s before the transaction finished", q)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.Error(t, <-done)
	assert.Equal(t, types.NewQuantityFromInt(6), inside)
	assert.Equal(t, types.NewQuantityFromInt(10), <-read)
}
