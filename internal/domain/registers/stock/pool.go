// Package stock is the stock ledger: the current quantity-on-hand of every item
// in the Main pool (items.stock) and the Production-Floor pool
// (production_floor_stocks.quantity). All mutation goes through Service.Adjust.
package stock

import (
	"time"

	"millstock/internal/core/id"
	"millstock/internal/core/types"
)

// Pool names one of the two stock ledgers.
type Pool string

const (
	// PoolMain is the warehouse stock carried on the item row.
	PoolMain Pool = "main"
	// PoolFloor is material staged on the production floor.
	PoolFloor Pool = "floor"
)

// Valid reports whether p is a known pool.
func (p Pool) Valid() bool {
	return p == PoolMain || p == PoolFloor
}

func (p Pool) String() string { return string(p) }

// FloorEntry is one production-floor row. Created lazily on the first inward
// movement, never deleted, only driven down to zero.
type FloorEntry struct {
	ID        id.ID          `db:"id" json:"id"`
	ItemID    id.ID          `db:"item_id" json:"itemId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitRate  types.Rate     `db:"unit_rate" json:"unitRate"`
	UOM       string         `db:"uom" json:"uom"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`

	// Joined from items for listings.
	ItemCode string `db:"item_code" json:"itemCode,omitempty"`
	ItemName string `db:"item_name" json:"itemName,omitempty"`
}

// FloorFilter narrows ListFloorStock.
type FloorFilter struct {
	OnlyPositive bool
}

// ItemStock is the combined view of both pools for one item.
type ItemStock struct {
	ItemID id.ID          `json:"itemId"`
	Main   types.Quantity `json:"main"`
	Floor  types.Quantity `json:"floor"`
}
