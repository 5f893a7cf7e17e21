package item

import (
	"context"

	"millstock/internal/core/id"
	"millstock/internal/core/types"
	"millstock/internal/domain"
)

// Repository persists items.
type Repository interface {
	// Create inserts an item with zero stock.
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, itemID id.ID) (*Item, error)
	// Update writes master fields only; stock is never written here.
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, itemID id.ID) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Item], error)

	// MissingItems returns the ids that have no item row.
	MissingItems(ctx context.Context, ids []id.ID) ([]id.ID, error)
	// CurrentUnitRate returns NOT_FOUND for an unknown item.
	CurrentUnitRate(ctx context.Context, itemID id.ID) (types.Rate, error)
	// IsReferenced reports whether any document line or floor entry points at the item.
	IsReferenced(ctx context.Context, itemID id.ID) (bool, error)

	CodeExists(ctx context.Context, code string) (bool, error)
	CountByCategory(ctx context.Context, category, subcategory string) (int64, error)
}

// ListFilter for items.
type ListFilter struct {
	domain.ListFilter

	Category    string
	Subcategory string
}
