package dto

import (
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/movement"
	"stockbook/internal/domain/variant"
)

// RecordMovementRequest is the posting input for one stock movement.
type RecordMovementRequest struct {
	Type     string         `json:"type" binding:"required"`
	Quantity types.Quantity `json:"quantity" binding:"required"`

	// Entry cost inputs
	UnitCostInvoice types.Money `json:"unitCostInvoice"`
	AdditionalCosts types.Money `json:"additionalCosts"`

	// Sale facts
	SaleRef       string      `json:"saleRef"`
	UnitSalePrice types.Money `json:"unitSalePrice"`

	Reason        string     `json:"reason"`
	ResponsibleID string     `json:"responsibleId" binding:"required"`
	SourceDocRef  string     `json:"sourceDocRef"`
	OccurredAt    *time.Time `json:"occurredAt"`
}

// ToDraft converts the request into a movement draft for the given variant.
func (r *RecordMovementRequest) ToDraft(variantID id.ID) (*movement.Draft, error) {
	responsibleID, err := id.Parse(r.ResponsibleID)
	if err != nil {
		return nil, apperror.NewFieldValidation("responsibleId", "invalid responsibleId format")
	}

	draft := &movement.Draft{
		VariantID:       variantID,
		Type:            movement.Type(r.Type),
		Quantity:        r.Quantity,
		UnitCostInvoice: r.UnitCostInvoice,
		AdditionalCosts: r.AdditionalCosts,
		SaleRef:         r.SaleRef,
		UnitSalePrice:   r.UnitSalePrice,
		Reason:          r.Reason,
		ResponsibleID:   responsibleID,
		SourceDocRef:    r.SourceDocRef,
	}
	if r.OccurredAt != nil {
		draft.OccurredAt = r.OccurredAt.UTC()
	}

	return draft, nil
}

// VariantStateResponse is the variant read model returned after postings
// and state reads.
type VariantStateResponse struct {
	VariantID     string         `json:"variantId"`
	SKU           string         `json:"sku"`
	Quantity      types.Quantity `json:"quantity"`
	AverageCost   types.Money    `json:"averageCost"`
	SalePrice     types.Money    `json:"salePrice"`
	MarginPct     types.Money    `json:"marginPct"`
	CostingUndef  bool           `json:"costingUndefined"`
	BelowMinStock bool           `json:"belowMinStock"`

	// Warnings surfaces non-fatal conditions, e.g. undefined costing.
	Warnings []string `json:"warnings,omitempty"`
}

// FromVariantState creates VariantStateResponse from the domain read model.
func FromVariantState(s variant.State) VariantStateResponse {
	resp := VariantStateResponse{
		VariantID:     s.VariantID.String(),
		SKU:           s.SKU,
		Quantity:      s.Quantity,
		AverageCost:   s.AverageCost,
		SalePrice:     s.SalePrice,
		MarginPct:     s.MarginPct,
		CostingUndef:  s.CostingUndef,
		BelowMinStock: s.BelowMinStock,
	}
	if s.CostingUndef {
		resp.Warnings = append(resp.Warnings, "costing undefined: average cost is not positive")
	}
	if s.BelowMinStock {
		resp.Warnings = append(resp.Warnings, "quantity below minimum stock threshold")
	}
	return resp
}

// MovementResponse is one ledger row.
type MovementResponse struct {
	ID              string         `json:"id"`
	VariantID       string         `json:"variantId"`
	Type            string         `json:"type"`
	Quantity        types.Quantity `json:"quantity"`
	UnitCostInvoice types.Money    `json:"unitCostInvoice"`
	AdditionalCosts types.Money    `json:"additionalCosts"`
	RealUnitCost    types.Money    `json:"realUnitCost"`
	CostAtTime      types.Money    `json:"costAtTime"`
	Reason          string         `json:"reason,omitempty"`
	ResponsibleID   string         `json:"responsibleId"`
	SourceDocRef    string         `json:"sourceDocRef,omitempty"`
	OccurredAt      time.Time      `json:"occurredAt"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// FromMovement creates MovementResponse from a ledger row.
func FromMovement(m movement.StockMovement) MovementResponse {
	return MovementResponse{
		ID:              m.ID.String(),
		VariantID:       m.VariantID.String(),
		Type:            string(m.Type),
		Quantity:        m.Quantity,
		UnitCostInvoice: m.UnitCostInvoice,
		AdditionalCosts: m.AdditionalCosts,
		RealUnitCost:    m.RealUnitCost,
		CostAtTime:      m.CostAtTime,
		Reason:          m.Reason,
		ResponsibleID:   m.ResponsibleID.String(),
		SourceDocRef:    m.SourceDocRef,
		OccurredAt:      m.OccurredAt,
		CreatedAt:       m.CreatedAt,
	}
}

// MovementListResponse wraps a history read.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
}
