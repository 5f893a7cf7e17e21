package dto

import (
	"github.com/shopspring/decimal"

	"millstock/internal/core/types"
	"millstock/internal/domain/catalogs/item"
)

// ItemRequest creates or updates an item. OpeningStock is only read on create.
type ItemRequest struct {
	Code         string          `json:"code,omitempty" binding:"omitempty,max=32"`
	Name         string          `json:"name" binding:"required,max=200"`
	Category     string          `json:"category" binding:"required"`
	Subcategory  string          `json:"subcategory" binding:"required"`
	Description  string          `json:"description,omitempty"`
	UnitRate     decimal.Decimal `json:"unitRate"`
	UOM          string          `json:"uom" binding:"required,max=16"`
	MinimumLevel types.Quantity  `json:"minimumLevel"`
	RackBin      string          `json:"rackBin,omitempty"`
	OpeningStock types.Quantity  `json:"openingStock"`
	Version      int             `json:"version,omitempty"`
}

// ToEntity builds a new item.
func (r *ItemRequest) ToEntity() *item.Item {
	it := item.NewItem(r.Name, r.Category, r.Subcategory, r.UOM, r.UnitRate)
	it.Code = r.Code
	it.Description = r.Description
	it.MinimumLevel = r.MinimumLevel
	it.RackBin = r.RackBin
	return it
}

// ApplyTo overwrites the master fields of an existing item.
func (r *ItemRequest) ApplyTo(it *item.Item) {
	if r.Code != "" {
		it.Code = r.Code
	}
	it.Name = r.Name
	it.Category = r.Category
	it.Subcategory = r.Subcategory
	it.Description = r.Description
	it.UnitRate = r.UnitRate
	it.UOM = r.UOM
	it.MinimumLevel = r.MinimumLevel
	it.RackBin = r.RackBin
	if r.Version != 0 {
		it.Version = r.Version
	}
}

// ItemListQuery adds item filters to ListQuery.
type ItemListQuery struct {
	ListQuery
	Category    string `form:"category"`
	Subcategory string `form:"subcategory"`
}

// ToFilter converts the query to an item filter.
func (q ItemListQuery) ToFilter() (item.ListFilter, error) {
	base, err := q.ListQuery.ToFilter()
	if err != nil {
		return item.ListFilter{}, err
	}
	base.OrderBy = ""
	return item.ListFilter{ListFilter: base, Category: q.Category, Subcategory: q.Subcategory}, nil
}
