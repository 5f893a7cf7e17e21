package item

import (
	"context"
	"fmt"

	"millstock/internal/core/apperror"
	"millstock/internal/core/id"
	"millstock/internal/core/tx"
	"millstock/internal/core/types"
	"millstock/internal/domain"
	"millstock/internal/domain/registers/stock"
	"millstock/pkg/logger"
)

// Ledger is the stock ledger entry point used for opening stock.
type Ledger interface {
	Adjust(ctx context.Context, pool stock.Pool, itemID id.ID, delta types.Quantity) (types.Quantity, error)
}

// Service provides item master operations.
type Service struct {
	repo      Repository
	ledger    Ledger
	txManager tx.Manager
}

// NewService creates a new item service.
func NewService(repo Repository, ledger Ledger, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		ledger:    ledger,
		txManager: txManager,
	}
}

// Create inserts the item and books openingStock into Main through the ledger.
// An empty code is generated as CCSS-NNN from category and subcategory.
func (s *Service) Create(ctx context.Context, item *Item, openingStock types.Quantity) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}
	if openingStock.IsNegative() {
		return apperror.NewValidation("opening stock must not be negative").
			WithDetail("field", "openingStock")
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if item.Code == "" {
			code, err := s.NextCode(ctx, item.Category, item.Subcategory)
			if err != nil {
				return err
			}
			item.Code = code
		} else {
			exists, err := s.repo.CodeExists(ctx, item.Code)
			if err != nil {
				return fmt.Errorf("check code: %w", err)
			}
			if exists {
				return apperror.NewDuplicate("item", "code", item.Code)
			}
		}

		item.Stock = 0
		if err := s.repo.Create(ctx, item); err != nil {
			return fmt.Errorf("create item: %w", err)
		}

		if openingStock.IsPositive() {
			balance, err := s.ledger.Adjust(ctx, stock.PoolMain, item.ID, openingStock)
			if err != nil {
				return err
			}
			item.Stock = balance
		}
		return nil
	})
	if err != nil {
		return storageError(err)
	}

	logger.Info(ctx, "item created", "id", item.ID, "code", item.Code, "opening_stock", openingStock)
	return nil
}

// NextCode previews the generated code for a category/subcategory pair.
func (s *Service) NextCode(ctx context.Context, category, subcategory string) (string, error) {
	prefix := CodePrefix(category, subcategory)
	if prefix == "" {
		return "", apperror.NewValidation("category and subcategory are required").
			WithDetail("field", "category")
	}

	count, err := s.repo.CountByCategory(ctx, category, subcategory)
	if err != nil {
		return "", fmt.Errorf("count items: %w", err)
	}
	return fmt.Sprintf("%s-%03d", prefix, count+1), nil
}

// GetByID retrieves an item.
func (s *Service) GetByID(ctx context.Context, itemID id.ID) (*Item, error) {
	return s.repo.GetByID(ctx, itemID)
}

// Update changes master fields. The stored stock balance is preserved.
func (s *Service) Update(ctx context.Context, item *Item) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return storageError(err)
	}
	logger.Info(ctx, "item updated", "id", item.ID, "code", item.Code)
	return nil
}

// Delete removes an item that no document line or floor entry references.
func (s *Service) Delete(ctx context.Context, itemID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, itemID)
		if err != nil {
			return err
		}

		referenced, err := s.repo.IsReferenced(ctx, itemID)
		if err != nil {
			return fmt.Errorf("check references: %w", err)
		}
		if referenced {
			return apperror.NewConflict("Cannot delete item. It is used by stock documents or production floor stock.").
				WithDetail("itemId", itemID.String()).
				WithDetail("code", current.Code)
		}

		return s.repo.Delete(ctx, itemID)
	})
	if err != nil {
		return storageError(err)
	}

	logger.Info(ctx, "item deleted", "id", itemID)
	return nil
}

// List returns items.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Item], error) {
	return s.repo.List(ctx, filter)
}

func storageError(err error) error {
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewStorage(err)
}
