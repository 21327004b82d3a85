// Package variant provides the stock-keeping variant aggregate: on-hand
// quantity, running weighted-average cost and derived sale pricing.
package variant

import (
	"time"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// Variant is the per-SKU stock aggregate.
//
// AverageCost has a single authoritative writer: the ledger posting path,
// which feeds entry movements through the costing engine. Other components
// read it (pricing, reports) but never set it; the catalog override path may
// touch SalePrice/MarginPct only.
type Variant struct {
	ID        id.ID  `db:"id" json:"id"`
	ProductID id.ID  `db:"product_id" json:"productId"`
	SKU       string `db:"sku" json:"sku"`

	Quantity    types.Quantity `db:"quantity" json:"quantity"`
	AverageCost types.Money    `db:"average_cost" json:"averageCost"`
	SalePrice   types.Money    `db:"sale_price" json:"salePrice"`
	MarginPct   types.Money    `db:"margin_pct" json:"marginPct"`
	MinStock    types.Quantity `db:"min_stock" json:"minStock"`

	// Version is the optimistic-lock token; every aggregate update must
	// carry the version it read or fail with STALE_STATE.
	Version int `db:"version" json:"version"`

	DeletionMark bool      `db:"deletion_mark" json:"deletionMark"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a variant with zero stock and undefined costing.
func New(productID id.ID, sku string) *Variant {
	now := time.Now().UTC()
	return &Variant{
		ID:          id.New(),
		ProductID:   productID,
		SKU:         sku,
		AverageCost: types.ZeroMoney(),
		SalePrice:   types.ZeroMoney(),
		MarginPct:   types.ZeroMoney(),
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// BelowMinStock reports whether on-hand quantity fell under the threshold.
func (v *Variant) BelowMinStock() bool {
	return v.MinStock.IsPositive() && v.Quantity < v.MinStock
}

// CostingUndefined reports whether margin/price derivation is impossible.
func (v *Variant) CostingUndefined() bool {
	return !v.AverageCost.IsPositive()
}

// State is the read model returned to callers.
type State struct {
	VariantID     id.ID          `json:"variantId"`
	SKU           string         `json:"sku"`
	Quantity      types.Quantity `json:"quantity"`
	AverageCost   types.Money    `json:"averageCost"`
	SalePrice     types.Money    `json:"salePrice"`
	MarginPct     types.Money    `json:"marginPct"`
	CostingUndef  bool           `json:"costingUndefined"`
	BelowMinStock bool           `json:"belowMinStock"`
}

// Snapshot builds the read model from the aggregate.
func (v *Variant) Snapshot() State {
	return State{
		VariantID:     v.ID,
		SKU:           v.SKU,
		Quantity:      v.Quantity,
		AverageCost:   v.AverageCost,
		SalePrice:     v.SalePrice,
		MarginPct:     v.MarginPct,
		CostingUndef:  v.CostingUndefined(),
		BelowMinStock: v.BelowMinStock(),
	}
}
