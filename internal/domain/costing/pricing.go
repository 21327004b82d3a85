package costing

import (
	"stockbook/internal/core/apperror"
	"stockbook/internal/core/types"
)

// EditedField names which of the three pricing fields the caller just changed.
// Exactly one dependent field is recomputed from it, never both, so repeated
// derivations cannot oscillate.
type EditedField string

const (
	EditedCost   EditedField = "cost"
	EditedMargin EditedField = "margin"
	EditedPrice  EditedField = "price"
)

// Pricing holds the three interdependent pricing fields of a variant.
type Pricing struct {
	Cost      types.Money
	MarginPct types.Money
	Price     types.Money
}

// Derive recomputes the dependent pricing field:
//
//	cost or margin edited -> price  = cost * (1 + margin/100)
//	price edited          -> margin = (price - cost) / cost * 100
//
// A non-positive cost makes margin/price derivation undefined; Derive then
// returns an UNDEFINED_COSTING error and callers must surface it as a warning
// state, never as a computed numeric value.
func Derive(p Pricing, edited EditedField) (Pricing, error) {
	if !p.Cost.IsPositive() {
		return p, apperror.NewUndefinedCosting().
			WithDetail("cost", p.Cost.String())
	}

	switch edited {
	case EditedCost, EditedMargin:
		p.Price = p.Cost.Mul(hundred.Add(p.MarginPct)).Div(hundred).Round(2)
	case EditedPrice:
		p.MarginPct = p.Price.Sub(p.Cost).Div(p.Cost).Mul(hundred).Round(4)
	default:
		return p, apperror.NewFieldValidation("edited", "edited field must be cost, margin or price")
	}

	return p, nil
}
