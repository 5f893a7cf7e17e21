package stock

import (
	"context"
	"errors"
	"fmt"

	"millstock/internal/core/apperror"
	"millstock/internal/core/entity"
	"millstock/internal/core/id"
	"millstock/internal/core/types"
	"millstock/pkg/logger"
)

// Service is the stock ledger.
// It never opens transactions itself: callers wrap a whole document's worth of
// adjustments in one tx.Manager unit.
type Service struct {
	repo       Repository
	rates      ItemRates
	defaultUOM string
	recorder   Recorder
}

// Option configures Service.
type Option func(*Service)

// WithDefaultUOM sets the unit of measure stored on new floor entries.
func WithDefaultUOM(uom string) Option {
	return func(s *Service) {
		if uom != "" {
			s.defaultUOM = uom
		}
	}
}

// WithRecorder attaches an adjustment observer (metrics).
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewService creates a new stock ledger service.
func NewService(repo Repository, rates ItemRates, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		rates:      rates,
		defaultUOM: entity.DefaultUOM,
		recorder:   nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Adjust applies a signed delta to the item's balance in pool and returns the new balance.
//
// Positive delta is inward, negative is outward. A Floor credit for an item
// with no floor entry opens one with the item's current unit rate. A debit
// against a missing entry is an internal consistency error: validation must
// have rejected it. A debit that would go below zero is rejected with
// INSUFFICIENT_STOCK and leaves the balance unchanged.
func (s *Service) Adjust(ctx context.Context, pool Pool, itemID id.ID, delta types.Quantity) (types.Quantity, error) {
	if !pool.Valid() {
		return 0, apperror.NewInternal(fmt.Errorf("unknown stock pool %q", pool))
	}
	if delta.IsZero() {
		return s.Balance(ctx, pool, itemID)
	}

	var (
		balance types.Quantity
		err     error
	)
	switch {
	case pool == PoolMain:
		balance, err = s.repo.AdjustMain(ctx, itemID, delta)
	case delta.IsPositive():
		balance, err = s.creditFloor(ctx, itemID, delta)
	default:
		balance, err = s.repo.AdjustFloor(ctx, itemID, delta)
	}
	if err != nil {
		return 0, s.translate(ctx, pool, itemID, delta, err)
	}

	s.recorder.ObserveAdjustment(pool, delta.IsPositive())
	logger.Debug(ctx, "stock adjusted",
		"pool", pool,
		"item_id", itemID,
		"delta", delta,
		"balance", balance,
	)

	return balance, nil
}

func (s *Service) creditFloor(ctx context.Context, itemID id.ID, delta types.Quantity) (types.Quantity, error) {
	balance, err := s.repo.AdjustFloor(ctx, itemID, delta)
	if !errors.Is(err, ErrEntryNotFound) {
		return balance, err
	}

	rate, err := s.rates.CurrentUnitRate(ctx, itemID)
	if err != nil {
		return 0, fmt.Errorf("unit rate for floor entry: %w", err)
	}

	return s.repo.OpenFloor(ctx, FloorEntry{
		ID:       id.New(),
		ItemID:   itemID,
		Quantity: delta,
		UnitRate: rate,
		UOM:      s.defaultUOM,
	})
}

func (s *Service) translate(ctx context.Context, pool Pool, itemID id.ID, delta types.Quantity, err error) error {
	switch {
	case errors.Is(err, ErrEntryNotFound):
		logger.Error(ctx, "stock adjustment against missing entry",
			"pool", pool,
			"item_id", itemID,
			"delta", delta,
		)
		return apperror.NewInternalConsistency(fmt.Sprintf("no %s stock entry for item", pool)).
			WithDetail("pool", pool).
			WithDetail("itemId", itemID.String()).
			WithDetail("delta", delta).
			WithCause(err)

	case errors.Is(err, ErrNegativeBalance):
		available, balErr := s.Balance(ctx, pool, itemID)
		if balErr != nil {
			return balErr
		}
		return apperror.NewInsufficientStock(itemID.String(), available, delta.Neg()).
			WithDetail("pool", pool)

	case apperror.IsAppError(err):
		return err

	default:
		return apperror.NewStorage(fmt.Errorf("adjust %s stock: %w", pool, err))
	}
}

// Balance returns the item's balance in pool; a missing floor entry reads as zero.
func (s *Service) Balance(ctx context.Context, pool Pool, itemID id.ID) (types.Quantity, error) {
	balances, err := s.repo.GetBalances(ctx, pool, []id.ID{itemID})
	if err != nil {
		return 0, apperror.NewStorage(fmt.Errorf("get %s balance: %w", pool, err))
	}
	return balances[itemID], nil
}

// LockBalances locks the pool rows of itemIDs in ascending id order and
// returns their balances. Every requested item is present in the result;
// missing rows read as zero. Must run inside a transaction.
func (s *Service) LockBalances(ctx context.Context, pool Pool, itemIDs []id.ID) (map[id.ID]types.Quantity, error) {
	ids := id.SortedUnique(itemIDs)
	if len(ids) == 0 {
		return map[id.ID]types.Quantity{}, nil
	}

	locked, err := s.repo.GetBalancesForUpdate(ctx, pool, ids)
	if err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("lock %s balances: %w", pool, err))
	}

	out := make(map[id.ID]types.Quantity, len(ids))
	for _, itemID := range ids {
		out[itemID] = locked[itemID]
	}
	return out, nil
}

// ItemStock returns both pool balances for an item.
func (s *Service) ItemStock(ctx context.Context, itemID id.ID) (ItemStock, error) {
	main, err := s.repo.GetBalances(ctx, PoolMain, []id.ID{itemID})
	if err != nil {
		return ItemStock{}, apperror.NewStorage(fmt.Errorf("get main balance: %w", err))
	}
	if _, ok := main[itemID]; !ok {
		return ItemStock{}, apperror.NewNotFound("item", itemID.String())
	}

	floor, err := s.Balance(ctx, PoolFloor, itemID)
	if err != nil {
		return ItemStock{}, err
	}

	return ItemStock{ItemID: itemID, Main: main[itemID], Floor: floor}, nil
}

// ListFloorStock returns production-floor entries.
func (s *Service) ListFloorStock(ctx context.Context, filter FloorFilter) ([]FloorEntry, error) {
	entries, err := s.repo.ListFloor(ctx, filter)
	if err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("list floor stock: %w", err))
	}
	return entries, nil
}
