package movement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/collaborator"
)

func TestValidate(t *testing.T) {
	active := id.MustParse("018f0000-0000-7000-8000-000000000001")
	inactive := id.MustParse("018f0000-0000-7000-8000-000000000002")
	directory := fakeDirectory{
		active:   {ID: active, Name: "Ana", Active: true},
		inactive: {ID: inactive, Name: "Bo", Active: false},
	}
	variantID := id.New()

	valid := func() Draft {
		return Draft{
			VariantID:       variantID,
			Type:            TypeEntry,
			Quantity:        types.NewQuantityFromInt(5),
			UnitCostInvoice: types.MustMoney("10.00"),
			ResponsibleID:   active,
		}
	}

	tests := []struct {
		name      string
		mutate    func(d *Draft)
		wantField string
	}{
		{
			name:   "valid entry",
			mutate: func(d *Draft) {},
		},
		{
			name:      "missing variant",
			mutate:    func(d *Draft) { d.VariantID = id.Nil() },
			wantField: "variantId",
		},
		{
			name:      "unknown type",
			mutate:    func(d *Draft) { d.Type = Type("teleport") },
			wantField: "type",
		},
		{
			name:      "zero quantity",
			mutate:    func(d *Draft) { d.Quantity = 0 },
			wantField: "quantity",
		},
		{
			name:      "negative quantity",
			mutate:    func(d *Draft) { d.Quantity = types.NewQuantityFromInt(-3) },
			wantField: "quantity",
		},
		{
			name:      "fractional quantity",
			mutate:    func(d *Draft) { d.Quantity = types.NewQuantityFromFloat64(2.5) },
			wantField: "quantity",
		},
		{
			name:      "negative invoice cost",
			mutate:    func(d *Draft) { d.UnitCostInvoice = types.MustMoney("-1.00") },
			wantField: "unitCostInvoice",
		},
		{
			name:      "negative additional costs",
			mutate:    func(d *Draft) { d.AdditionalCosts = types.MustMoney("-0.01") },
			wantField: "additionalCosts",
		},
		{
			name: "exit without reason",
			mutate: func(d *Draft) {
				d.Type = TypeExit
				d.Reason = ""
			},
			wantField: "reason",
		},
		{
			name: "sale without reference",
			mutate: func(d *Draft) {
				d.Type = TypeSale
				d.Reason = "sale"
				d.SaleRef = ""
			},
			wantField: "saleRef",
		},
		{
			name: "sale with negative price",
			mutate: func(d *Draft) {
				d.Type = TypeSale
				d.Reason = "sale"
				d.SaleRef = "ORD-1"
				d.UnitSalePrice = types.MustMoney("-5.00")
			},
			wantField: "unitSalePrice",
		},
		{
			name:      "missing responsible",
			mutate:    func(d *Draft) { d.ResponsibleID = id.Nil() },
			wantField: "responsibleId",
		},
		{
			name:      "unknown responsible",
			mutate:    func(d *Draft) { d.ResponsibleID = id.New() },
			wantField: "responsibleId",
		},
		{
			name:      "inactive responsible",
			mutate:    func(d *Draft) { d.ResponsibleID = inactive },
			wantField: "responsibleId",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.mutate(&d)

			err := Validate(context.Background(), &d, directory)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok, "expected AppError, got %v", err)
			require.Equal(t, apperror.CodeValidation, appErr.Code)
			require.Equal(t, tt.wantField, appErr.Details["field"])
		})
	}
}

var _ collaborator.Directory = fakeDirectory{}
