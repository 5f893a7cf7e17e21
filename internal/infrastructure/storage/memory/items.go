package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"millstock/internal/core/apperror"
	"millstock/internal/core/id"
	"millstock/internal/core/types"
	"millstock/internal/domain"
	"millstock/internal/domain/catalogs/item"
	"millstock/internal/domain/posting"
	"millstock/internal/domain/registers/stock"
)

// ItemReferencer is a store whose rows may point at items.
type ItemReferencer interface {
	ReferencesItem(itemID id.ID) bool
}

// ItemRepo stores items, including the Main pool balance.
type ItemRepo struct {
	readGate

	mu    sync.RWMutex
	items map[id.ID]item.Item

	referencers []ItemReferencer
}

var (
	_ item.Repository     = (*ItemRepo)(nil)
	_ posting.ItemCatalog = (*ItemRepo)(nil)
	_ stock.ItemRates     = (*ItemRepo)(nil)
	_ Snapshotter         = (*ItemRepo)(nil)
)

// NewItemRepo creates an empty item store.
func NewItemRepo() *ItemRepo {
	return &ItemRepo{items: make(map[id.ID]item.Item)}
}

// AddReferencers registers stores consulted by IsReferenced.
func (r *ItemRepo) AddReferencers(refs ...ItemReferencer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.referencers = append(r.referencers, refs...)
}

// Snapshot implements Snapshotter.
func (r *ItemRepo) Snapshot() func() {
	r.mu.RLock()
	saved := maps.Clone(r.items)
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		r.items = saved
		r.mu.Unlock()
	}
}

func (r *ItemRepo) Create(ctx context.Context, it *item.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[it.ID]; ok {
		return apperror.NewDuplicate("item", "id", it.ID.String())
	}
	for _, existing := range r.items {
		if existing.Code == it.Code {
			return apperror.NewDuplicate("item", "code", it.Code)
		}
	}
	r.items[it.ID] = *it
	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	defer r.view(ctx)()

	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("item", itemID.String())
	}
	return &it, nil
}

// Update writes master fields and bumps the version; the stored stock is kept.
func (r *ItemRepo) Update(ctx context.Context, it *item.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[it.ID]
	if !ok {
		return apperror.NewNotFound("item", it.ID.String())
	}
	if it.Version != 0 && it.Version != current.Version {
		return apperror.NewConcurrentModification("item", it.ID.String())
	}

	it.Stock = current.Stock
	it.CreatedAt = current.CreatedAt
	it.UpdatedAt = time.Now().UTC()
	it.Version = current.Version + 1
	r.items[it.ID] = *it
	return nil
}

func (r *ItemRepo) Delete(ctx context.Context, itemID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[itemID]; !ok {
		return apperror.NewNotFound("item", itemID.String())
	}
	delete(r.items, itemID)
	return nil
}

func (r *ItemRepo) List(ctx context.Context, filter item.ListFilter) (domain.ListResult[*item.Item], error) {
	defer r.view(ctx)()

	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	var out []*item.Item
	for _, it := range r.items {
		if filter.Category != "" && it.Category != filter.Category {
			continue
		}
		if filter.Subcategory != "" && it.Subcategory != filter.Subcategory {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(it.Code), search) &&
			!strings.Contains(strings.ToLower(it.Name), search) {
			continue
		}
		out = append(out, &it)
	}
	slices.SortFunc(out, func(a, b *item.Item) int { return cmp.Compare(a.Code, b.Code) })

	return paginate(out, filter.ListFilter), nil
}

func (r *ItemRepo) MissingItems(ctx context.Context, ids []id.ID) ([]id.ID, error) {
	defer r.view(ctx)()

	r.mu.RLock()
	defer r.mu.RUnlock()

	var missing []id.ID
	for _, itemID := range id.SortedUnique(ids) {
		if _, ok := r.items[itemID]; !ok {
			missing = append(missing, itemID)
		}
	}
	return missing, nil
}

func (r *ItemRepo) CurrentUnitRate(ctx context.Context, itemID id.ID) (types.Rate, error) {
	defer r.view(ctx)()

	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[itemID]
	if !ok {
		return types.ZeroRate(), apperror.NewNotFound("item", itemID.String())
	}
	return it.UnitRate, nil
}

func (r *ItemRepo) IsReferenced(ctx context.Context, itemID id.ID) (bool, error) {
	defer r.view(ctx)()

	r.mu.RLock()
	refs := slices.Clone(r.referencers)
	r.mu.RUnlock()

	for _, ref := range refs {
		if ref.ReferencesItem(itemID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *ItemRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	defer r.view(ctx)()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, it := range r.items {
		if it.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *ItemRepo) CountByCategory(ctx context.Context, category, subcategory string) (int64, error) {
	defer r.view(ctx)()

	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, it := range r.items {
		if it.Category == category && it.Subcategory == subcategory {
			n++
		}
	}
	return n, nil
}

// adjustStock is the Main pool read-modify-write used by StockRepo.
func (r *ItemRepo) adjustStock(itemID id.ID, delta types.Quantity) (types.Quantity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[itemID]
	if !ok {
		return 0, stock.ErrEntryNotFound
	}
	if it.Stock+delta < 0 {
		return 0, stock.ErrNegativeBalance
	}
	it.Stock += delta
	r.items[itemID] = it
	return it.Stock, nil
}

func (r *ItemRepo) stock(itemID id.ID) (types.Quantity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[itemID]
	return it.Stock, ok
}

func (r *ItemRepo) describe(itemID id.ID) (code, name string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it := r.items[itemID]
	return it.Code, it.Name
}

func paginate[T any](all []T, filter domain.ListFilter) domain.ListResult[T] {
	total := len(all)
	start := min(max(filter.Offset, 0), total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}
	return domain.ListResult[T]{
		Items:      all[start:end],
		TotalCount: int64(total),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
}

func errUnknownPool(pool stock.Pool) error {
	return fmt.Errorf("unknown stock pool %q", pool)
}
