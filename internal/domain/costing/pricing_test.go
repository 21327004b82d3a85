package costing

import (
	"testing"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/types"
)

func TestDerive_Operators(t *testing.T) {
	tests := []struct {
		name       string
		in         Pricing
		edited     EditedField
		wantPrice  string
		wantMargin string
	}{
		{
			name:       "cost edited recomputes price",
			in:         Pricing{Cost: types.MustMoney("10.00"), MarginPct: types.MustMoney("50")},
			edited:     EditedCost,
			wantPrice:  "15.00",
			wantMargin: "50",
		},
		{
			name:       "margin edited recomputes price",
			in:         Pricing{Cost: types.MustMoney("8.00"), MarginPct: types.MustMoney("25")},
			edited:     EditedMargin,
			wantPrice:  "10.00",
			wantMargin: "25",
		},
		{
			name:       "price edited recomputes margin",
			in:         Pricing{Cost: types.MustMoney("10.00"), Price: types.MustMoney("13.00")},
			edited:     EditedPrice,
			wantPrice:  "13.00",
			wantMargin: "30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Derive(tt.in, tt.edited)
			if err != nil {
				t.Fatalf("Derive failed: %v", err)
			}
			if !got.Price.Equal(types.MustMoney(tt.wantPrice)) {
				t.Errorf("price mismatch\nwant: %s\ngot:  %s", tt.wantPrice, got.Price)
			}
			if !got.MarginPct.Equal(types.MustMoney(tt.wantMargin)) {
				t.Errorf("margin mismatch\nwant: %s\ngot:  %s", tt.wantMargin, got.MarginPct)
			}
		})
	}
}

func TestDerive_RoundTripsThroughMargin(t *testing.T) {
	// cost -> price, re-derive margin from price, derive price again:
	// must land on the original price within rounding tolerance.
	p := Pricing{Cost: types.MustMoney("7.33"), MarginPct: types.MustMoney("42.5")}

	first, err := Derive(p, EditedCost)
	if err != nil {
		t.Fatalf("derive price: %v", err)
	}

	second, err := Derive(first, EditedPrice)
	if err != nil {
		t.Fatalf("derive margin: %v", err)
	}

	third, err := Derive(second, EditedMargin)
	if err != nil {
		t.Fatalf("derive price again: %v", err)
	}

	tolerance := types.MustMoney("0.01")
	if third.Price.Sub(first.Price).Abs().GreaterThan(tolerance) {
		t.Errorf("round trip drifted\nfirst:  %s\nfinal:  %s", first.Price, third.Price)
	}
}

func TestDerive_UndefinedCosting(t *testing.T) {
	for _, cost := range []string{"0", "-1.50"} {
		_, err := Derive(Pricing{Cost: types.MustMoney(cost), MarginPct: types.MustMoney("30")}, EditedMargin)
		if err == nil {
			t.Fatalf("cost %s: expected error, got none", cost)
		}
		if !apperror.IsUndefinedCosting(err) {
			t.Errorf("cost %s: expected UNDEFINED_COSTING, got %v", cost, err)
		}
	}
}
