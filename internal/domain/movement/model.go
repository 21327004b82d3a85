// Package movement provides the stock ledger: append-only movements,
// their validation, and the atomic posting path that keeps the variant
// aggregate consistent with the ledger.
package movement

import (
	"time"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// Type defines the movement kind. It fixes the sign of the quantity effect
// and which cost rules apply.
type Type string

const (
	// TypeEntry increases stock and is the only kind that changes average cost.
	TypeEntry Type = "entry"
	// TypeExit decreases stock (consumption, breakage write-off with reason).
	TypeExit Type = "exit"
	// TypeSale decreases stock and freezes a sale-price/cost-basis snapshot.
	TypeSale Type = "sale"
	// TypeAdjustIn increases stock without cost data (count surplus).
	TypeAdjustIn Type = "adjust_in"
	// TypeAdjustOut decreases stock without cost data (count shortage).
	TypeAdjustOut Type = "adjust_out"
)

// IsEntry reports whether the type carries cost inputs.
func (t Type) IsEntry() bool { return t == TypeEntry }

// Increases reports whether the type adds to on-hand quantity.
func (t Type) Increases() bool { return t == TypeEntry || t == TypeAdjustIn }

// Valid reports whether t is a known movement type.
func (t Type) Valid() bool {
	switch t {
	case TypeEntry, TypeExit, TypeSale, TypeAdjustIn, TypeAdjustOut:
		return true
	}
	return false
}

// StockMovement is one row of the ledger. Rows are write-once: corrections
// are new compensating movements, never edits or deletes.
type StockMovement struct {
	ID        id.ID `db:"id" json:"id"`
	VariantID id.ID `db:"variant_id" json:"variantId"`

	Type     Type           `db:"type" json:"type"`
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// Cost inputs (entries only)
	UnitCostInvoice types.Money `db:"unit_cost_invoice" json:"unitCostInvoice"`
	AdditionalCosts types.Money `db:"additional_costs" json:"additionalCosts"`
	RealUnitCost    types.Money `db:"real_unit_cost" json:"realUnitCost"`

	// CostAtTime is the variant's average cost in effect for this movement:
	// for entries the freshly blended average, otherwise the average at the
	// moment of posting. Profit reporting falls back to it when a sale has
	// no linkage snapshot.
	CostAtTime types.Money `db:"cost_at_time" json:"costAtTime"`

	Reason        string    `db:"reason" json:"reason,omitempty"`
	ResponsibleID id.ID     `db:"responsible_id" json:"responsibleId"`
	SourceDocRef  string    `db:"source_doc_ref" json:"sourceDocRef,omitempty"`
	OccurredAt    time.Time `db:"occurred_at" json:"occurredAt"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// SignedQuantity returns the quantity with the sign the type implies.
func (m *StockMovement) SignedQuantity() types.Quantity {
	if m.Type.Increases() {
		return m.Quantity
	}
	return m.Quantity.Neg()
}

// SaleLinkage freezes the unit sale price and unit cost basis of a sale
// movement as they were at sale time. It is an immutable snapshot, not a
// live join: later changes to the variant's average cost must not alter
// historical profit figures.
type SaleLinkage struct {
	MovementID    id.ID          `db:"movement_id" json:"movementId"`
	SaleRef       string         `db:"sale_ref" json:"saleRef"`
	UnitSalePrice types.Money    `db:"unit_sale_price" json:"unitSalePrice"`
	UnitCostBasis types.Money    `db:"unit_cost_basis" json:"unitCostBasis"`
	Quantity      types.Quantity `db:"quantity" json:"quantity"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
}

// Draft is a movement before validation and posting.
type Draft struct {
	VariantID id.ID
	Type      Type
	Quantity  types.Quantity

	// Entry cost inputs
	UnitCostInvoice types.Money
	AdditionalCosts types.Money

	// Sale facts supplied by the order subsystem at sale time
	SaleRef       string
	UnitSalePrice types.Money

	Reason        string
	ResponsibleID id.ID
	SourceDocRef  string
	OccurredAt    time.Time
}
