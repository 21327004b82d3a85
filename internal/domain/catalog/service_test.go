package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/audit"
	"stockbook/internal/domain/costing"
	"stockbook/internal/domain/variant"
)

type fakeTxManager struct{}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeVariants struct {
	stored variant.Variant
}

func (f *fakeVariants) GetByID(ctx context.Context, variantID id.ID) (*variant.Variant, error) {
	if f.stored.ID != variantID {
		return nil, apperror.NewNotFound("variant", variantID.String())
	}
	v := f.stored
	return &v, nil
}

func (f *fakeVariants) GetBySKU(ctx context.Context, sku string) (*variant.Variant, error) {
	v := f.stored
	return &v, nil
}

func (f *fakeVariants) Create(ctx context.Context, v *variant.Variant) error {
	f.stored = *v
	return nil
}

func (f *fakeVariants) Update(ctx context.Context, v *variant.Variant) error {
	if v.Version != f.stored.Version {
		return apperror.NewStaleState("variant", v.ID.String())
	}
	f.stored = *v
	f.stored.Version++
	return nil
}

func (f *fakeVariants) UpdatePricing(ctx context.Context, variantID id.ID, price, marginPct types.Money, version int) error {
	if version != f.stored.Version {
		return apperror.NewStaleState("variant", variantID.String())
	}
	f.stored.SalePrice = price
	f.stored.MarginPct = marginPct
	f.stored.Version++
	return nil
}

type fakeProducts struct {
	stored Product
}

func (f *fakeProducts) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	if f.stored.ID != productID {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	p := f.stored
	return &p, nil
}

func (f *fakeProducts) Create(ctx context.Context, p *Product) error {
	f.stored = *p
	return nil
}

func (f *fakeProducts) Update(ctx context.Context, p *Product) error {
	if p.Version != f.stored.Version {
		return apperror.NewStaleState("product", p.ID.String())
	}
	f.stored = *p
	f.stored.Version++
	return nil
}

type spyRecorder struct {
	entries []audit.Entry
}

func (r *spyRecorder) RecordChange(ctx context.Context, entry audit.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *spyRecorder) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]audit.Entry, error) {
	return r.entries, nil
}

func newFixture(v variant.Variant, p Product) (*Service, *fakeVariants, *fakeProducts, *spyRecorder) {
	variants := &fakeVariants{stored: v}
	products := &fakeProducts{stored: p}
	recorder := &spyRecorder{}
	svc := NewService(products, variants, recorder, &fakeTxManager{})
	return svc, variants, products, recorder
}

func costedVariant() variant.Variant {
	v := variant.New(id.New(), "SKU-001")
	v.AverageCost = types.MustMoney("10.00")
	v.MarginPct = types.MustMoney("50")
	v.SalePrice = types.MustMoney("15.00")
	return *v
}

func TestOverridePricing_MarginEditDerivesPrice(t *testing.T) {
	v := costedVariant()
	svc, variants, _, recorder := newFixture(v, Product{})

	state, err := svc.OverridePricing(context.Background(), v.ID, PriceOverride{
		Edited: costing.EditedMargin,
		Value:  types.MustMoney("30"),
	})
	require.NoError(t, err)

	// 10.00 * 1.30 = 13.00
	require.True(t, state.SalePrice.Equal(types.MustMoney("13.00")), "price %s", state.SalePrice)
	require.True(t, variants.stored.MarginPct.Equal(types.MustMoney("30")))

	require.Len(t, recorder.entries, 1)
	require.Equal(t, audit.ActionPriceOverride, recorder.entries[0].Action)
}

func TestOverridePricing_PriceEditDerivesMargin(t *testing.T) {
	v := costedVariant()
	svc, _, _, _ := newFixture(v, Product{})

	state, err := svc.OverridePricing(context.Background(), v.ID, PriceOverride{
		Edited: costing.EditedPrice,
		Value:  types.MustMoney("12.50"),
	})
	require.NoError(t, err)

	// (12.50 - 10.00) / 10.00 * 100 = 25
	require.True(t, state.MarginPct.Equal(types.MustMoney("25")), "margin %s", state.MarginPct)
	require.True(t, state.SalePrice.Equal(types.MustMoney("12.50")))
}

func TestOverridePricing_CostIsNotEditable(t *testing.T) {
	v := costedVariant()
	svc, _, _, recorder := newFixture(v, Product{})

	_, err := svc.OverridePricing(context.Background(), v.ID, PriceOverride{
		Edited: costing.EditedCost,
		Value:  types.MustMoney("5.00"),
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperror.CodeValidation, appErr.Code)
	require.Empty(t, recorder.entries)
}

func TestOverridePricing_UndefinedCostingIsAWarningState(t *testing.T) {
	v := *variant.New(id.New(), "SKU-002") // zero cost, costing undefined
	svc, variants, _, _ := newFixture(v, Product{})

	_, err := svc.OverridePricing(context.Background(), v.ID, PriceOverride{
		Edited: costing.EditedMargin,
		Value:  types.MustMoney("30"),
	})
	require.Error(t, err)
	require.True(t, apperror.IsUndefinedCosting(err))

	// Nothing written, no numeric ever derived from a non-positive cost.
	require.True(t, variants.stored.SalePrice.IsZero())
	require.Equal(t, 1, variants.stored.Version)
}

func TestReassignCategory(t *testing.T) {
	p := Product{ID: id.New(), Name: "Drill", Category: "tools", Subcategory: "drills", Version: 1}
	svc, _, products, recorder := newFixture(*variant.New(id.New(), "SKU-003"), p)

	updated, err := svc.ReassignCategory(context.Background(), p.ID, "power-tools", "cordless")
	require.NoError(t, err)

	require.Equal(t, "power-tools", updated.Category)
	require.Equal(t, "cordless", updated.Subcategory)
	require.Equal(t, "power-tools", products.stored.Category)

	require.Len(t, recorder.entries, 1)
	require.Equal(t, audit.ActionReassign, recorder.entries[0].Action)
	require.NotEmpty(t, recorder.entries[0].Before)
	require.NotEmpty(t, recorder.entries[0].After)
}

func TestReassignCategory_RequiresCategory(t *testing.T) {
	p := Product{ID: id.New(), Version: 1}
	svc, _, _, _ := newFixture(*variant.New(id.New(), "SKU-004"), p)

	_, err := svc.ReassignCategory(context.Background(), p.ID, "", "sub")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperror.CodeValidation, appErr.Code)
}
