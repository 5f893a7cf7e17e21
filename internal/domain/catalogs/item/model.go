// Package item provides the item master that the stock engine reads:
// existence checks, the current unit rate, and guarded deletion.
package item

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"millstock/internal/core/apperror"
	"millstock/internal/core/entity"
	"millstock/internal/core/types"
)

// Item is a stock-keeping unit. Stock is the Main pool balance and is only
// changed through the stock ledger.
type Item struct {
	entity.BaseEntity

	Code         string         `db:"code" json:"code"`
	Name         string         `db:"name" json:"name"`
	Category     string         `db:"category" json:"category"`
	Subcategory  string         `db:"subcategory" json:"subcategory"`
	Description  string         `db:"description" json:"description,omitempty"`
	UnitRate     types.Rate     `db:"unit_rate" json:"unitRate"`
	UOM          string         `db:"uom" json:"uom"`
	MinimumLevel types.Quantity `db:"minimum_level" json:"minimumLevel"`
	RackBin      string         `db:"rack_bin" json:"rackBin,omitempty"`
	Stock        types.Quantity `db:"stock" json:"stock"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
}

// NewItem creates an item with a fresh id and zero stock.
func NewItem(name, category, subcategory, uom string, rate types.Rate) *Item {
	now := time.Now().UTC()
	return &Item{
		BaseEntity:  entity.NewBaseEntity(),
		Name:        name,
		Category:    category,
		Subcategory: subcategory,
		UnitRate:    rate,
		UOM:         uom,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate implements entity.Validatable.
func (i *Item) Validate(ctx context.Context) error {
	if strings.TrimSpace(i.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if strings.TrimSpace(i.Category) == "" {
		return apperror.NewValidation("category is required").WithDetail("field", "category")
	}
	if strings.TrimSpace(i.Subcategory) == "" {
		return apperror.NewValidation("subcategory is required").WithDetail("field", "subcategory")
	}
	if strings.TrimSpace(i.UOM) == "" {
		return apperror.NewValidation("uom is required").WithDetail("field", "uom")
	}
	if i.UnitRate.IsNegative() {
		return apperror.NewValidation("unit rate must not be negative").WithDetail("field", "unitRate")
	}
	if i.MinimumLevel.IsNegative() {
		return apperror.NewValidation("minimum level must not be negative").WithDetail("field", "minimumLevel")
	}
	return nil
}

// CodePrefix is the first two letters of category and subcategory, upper-cased.
func CodePrefix(category, subcategory string) string {
	return strings.ToUpper(firstRunes(category, 2) + firstRunes(subcategory, 2))
}

func firstRunes(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
