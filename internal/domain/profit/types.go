// Package profit provides the profitability reporting engine: realized
// profit and margin over sale movements, computed from the cost basis frozen
// at sale time. Current variant cost is never consulted, so reports stay
// historically accurate no matter how costs moved since.
package profit

import (
	"time"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// ReportFilter narrows the report to a time window and optional catalog labels.
type ReportFilter struct {
	From        time.Time
	To          time.Time
	Category    string
	Subcategory string
}

// Row is one aggregated report line, grouped by category/subcategory.
type Row struct {
	Category    string         `json:"category"`
	Subcategory string         `json:"subcategory"`
	Quantity    types.Quantity `json:"quantity"`
	CostTotal   types.Money    `json:"costTotal"`
	SaleTotal   types.Money    `json:"saleTotal"`
	Profit      types.Money    `json:"profit"`
	MarginPct   types.Money    `json:"marginPct"`
}

// Report is the aggregated result plus a grand total over all rows.
type Report struct {
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
	Rows  []Row     `json:"rows"`
	Total Row       `json:"total"`
}

// SaleRow is one sale movement as read for reporting: ledger facts joined
// with the sale snapshot (when one exists) and the catalog labels of the
// variant's product.
type SaleRow struct {
	MovementID id.ID          `db:"movement_id"`
	VariantID  id.ID          `db:"variant_id"`
	SKU        string         `db:"sku"`
	Quantity   types.Quantity `db:"quantity"`
	OccurredAt time.Time      `db:"occurred_at"`

	Category    string `db:"category"`
	Subcategory string `db:"subcategory"`

	// Snapshot facts; nil when the sale predates linkage snapshots.
	UnitSalePrice *types.Money `db:"unit_sale_price"`
	UnitCostBasis *types.Money `db:"unit_cost_basis"`

	// CostAtTime is the ledger movement's average cost at posting, the
	// fallback basis for rows without a snapshot. It may itself be a
	// post-hoc average; that imprecision is accepted for legacy rows.
	CostAtTime types.Money `db:"cost_at_time"`
}
