// Package costing implements the weighted-average cost engine and the
// bidirectional cost/margin/price calculator.
//
// The average cost of a variant is owned by this package: ledger posting is
// the only caller that feeds entries through it, so no other write path can
// touch the cost field.
package costing

import (
	"stockbook/internal/core/types"

	"github.com/shopspring/decimal"
)

var hundred = decimal.New(100, 0)

// RealUnitCost returns the effective per-unit cost of a received lot:
// the invoiced unit cost plus additional (freight) costs amortized across
// the whole lot.
func RealUnitCost(unitCostInvoice, additionalCosts types.Money, qty types.Quantity) types.Money {
	if qty.IsZero() {
		return unitCostInvoice
	}
	return unitCostInvoice.Add(additionalCosts.Div(qty.Decimal()))
}

// WeightedAverage blends an incoming lot into the running average cost:
//
//	newCost = (currentQty*currentCost + incomingQty*incomingCost) / (currentQty+incomingQty)
//
// When the combined quantity is zero the incoming cost is returned as-is,
// avoiding division by zero (e.g. first entry after stock ran negative).
func WeightedAverage(currentQty types.Quantity, currentCost types.Money, incomingQty types.Quantity, incomingCost types.Money) types.Money {
	totalQty := currentQty.Decimal().Add(incomingQty.Decimal())
	if totalQty.IsZero() {
		return incomingCost
	}

	currentValue := currentQty.Decimal().Mul(currentCost)
	incomingValue := incomingQty.Decimal().Mul(incomingCost)

	return currentValue.Add(incomingValue).Div(totalQty)
}

// EntryResult is the outcome of blending an entry movement.
type EntryResult struct {
	RealUnitCost types.Money
	AverageCost  types.Money
}

// ApplyEntry computes the real unit cost of the lot and the resulting
// weighted-average cost in one step.
func ApplyEntry(currentQty types.Quantity, currentCost types.Money, incomingQty types.Quantity, unitCostInvoice, additionalCosts types.Money) EntryResult {
	real := RealUnitCost(unitCostInvoice, additionalCosts, incomingQty)
	return EntryResult{
		RealUnitCost: real,
		AverageCost:  WeightedAverage(currentQty, currentCost, incomingQty, real),
	}
}
