package costing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stockbook/internal/core/types"
)

func TestWeightedAverage_SequenceMatchesRunningSums(t *testing.T) {
	entries := []struct {
		qty  int64
		cost string
	}{
		{10, "5.00"},
		{5, "7.00"},
		{10, "4.00"},
		{25, "6.40"},
		{1, "100.00"},
	}

	var (
		qty  types.Quantity
		cost = types.ZeroMoney()

		sumValue = types.ZeroMoney()
		sumQty   = types.ZeroMoney()
	)

	for i, e := range entries {
		inQty := types.NewQuantityFromInt(e.qty)
		inCost := types.MustMoney(e.cost)

		cost = WeightedAverage(qty, cost, inQty, inCost)
		qty += inQty

		sumValue = sumValue.Add(inQty.Decimal().Mul(inCost))
		sumQty = sumQty.Add(inQty.Decimal())

		want := sumValue.Div(sumQty)
		require.Truef(t, cost.Sub(want).Abs().LessThan(types.MustMoney("0.0001")),
			"entry %d: average %s, want %s", i, cost, want)
	}
}

func TestWeightedAverage_KnownBlend(t *testing.T) {
	// 10 @ 5.00, then 5 @ 7.00, then 10 @ 4.00 -> 145/25 = 5.80
	cost := WeightedAverage(types.NewQuantityFromInt(0), types.ZeroMoney(), types.NewQuantityFromInt(10), types.MustMoney("5.00"))
	cost = WeightedAverage(types.NewQuantityFromInt(10), cost, types.NewQuantityFromInt(5), types.MustMoney("7.00"))
	cost = WeightedAverage(types.NewQuantityFromInt(15), cost, types.NewQuantityFromInt(10), types.MustMoney("4.00"))

	require.True(t, cost.Equal(types.MustMoney("5.80")), "got %s", cost)
}

func TestWeightedAverage_ZeroTotalQuantityFallsBackToIncomingCost(t *testing.T) {
	// Combined quantity zero: incoming cost wins, no division by zero.
	cost := WeightedAverage(types.NewQuantityFromInt(-5), types.MustMoney("3.00"), types.NewQuantityFromInt(5), types.MustMoney("9.99"))
	require.True(t, cost.Equal(types.MustMoney("9.99")), "got %s", cost)
}

func TestRealUnitCost_AmortizesFreightAcrossLot(t *testing.T) {
	got := RealUnitCost(types.MustMoney("10.00"), types.MustMoney("50.00"), types.NewQuantityFromInt(100))
	require.True(t, got.Equal(types.MustMoney("10.50")), "got %s", got)
}

func TestApplyEntry_FreightedLotIntoEmptyStock(t *testing.T) {
	// qty=100 @ invoice 10.00 + 50.00 freight from empty stock -> average 10.50
	res := ApplyEntry(
		types.NewQuantityFromInt(0), types.ZeroMoney(),
		types.NewQuantityFromInt(100), types.MustMoney("10.00"), types.MustMoney("50.00"),
	)

	require.True(t, res.RealUnitCost.Equal(types.MustMoney("10.50")), "real unit cost %s", res.RealUnitCost)
	require.True(t, res.AverageCost.Equal(types.MustMoney("10.50")), "average cost %s", res.AverageCost)
}
