package profit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

type fakeReader struct {
	rows []SaleRow
	got  ReportFilter
}

func (f *fakeReader) SaleRows(ctx context.Context, filter ReportFilter) ([]SaleRow, error) {
	f.got = filter
	return f.rows, nil
}

func money(s string) *types.Money {
	m := types.MustMoney(s)
	return &m
}

func saleRow(category, subcategory string, qty int64, salePrice, costBasis string) SaleRow {
	return SaleRow{
		MovementID:    id.New(),
		VariantID:     id.New(),
		Quantity:      types.NewQuantityFromInt(qty),
		OccurredAt:    time.Now().UTC(),
		Category:      category,
		Subcategory:   subcategory,
		UnitSalePrice: money(salePrice),
		UnitCostBasis: money(costBasis),
		CostAtTime:    types.MustMoney("999.99"), // must be ignored when a snapshot exists
	}
}

func TestBuildReport_UsesFrozenBasis(t *testing.T) {
	reader := &fakeReader{rows: []SaleRow{
		// 3 units sold at 9.00 with a 5.00 basis: profit 12.00.
		saleRow("tools", "drills", 3, "9.00", "5.00"),
	}}
	svc := NewService(reader)

	report, err := svc.BuildReport(context.Background(), ReportFilter{})
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	require.True(t, row.SaleTotal.Equal(types.MustMoney("27.00")), "sale total %s", row.SaleTotal)
	require.True(t, row.CostTotal.Equal(types.MustMoney("15.00")), "cost total %s", row.CostTotal)
	require.True(t, row.Profit.Equal(types.MustMoney("12.00")), "profit %s", row.Profit)
	// 12 / 27 * 100 = 44.4444
	require.True(t, row.MarginPct.Equal(types.MustMoney("44.4444")), "margin %s", row.MarginPct)
}

func TestBuildReport_FallsBackToCostAtTime(t *testing.T) {
	legacy := SaleRow{
		MovementID: id.New(),
		VariantID:  id.New(),
		Quantity:   types.NewQuantityFromInt(2),
		OccurredAt: time.Now().UTC(),
		Category:   "tools",
		CostAtTime: types.MustMoney("4.00"),
		// No snapshot: sale predates linkage records.
	}
	reader := &fakeReader{rows: []SaleRow{legacy}}
	svc := NewService(reader)

	report, err := svc.BuildReport(context.Background(), ReportFilter{})
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	require.True(t, row.CostTotal.Equal(types.MustMoney("8.00")), "cost total %s", row.CostTotal)
	// No snapshot means no billed value either; margin must be zero, not NaN.
	require.True(t, row.SaleTotal.IsZero())
	require.True(t, row.MarginPct.IsZero())
}

func TestBuildReport_GroupsByCategory(t *testing.T) {
	reader := &fakeReader{rows: []SaleRow{
		saleRow("tools", "drills", 1, "10.00", "6.00"),
		saleRow("tools", "drills", 1, "10.00", "6.00"),
		saleRow("tools", "saws", 1, "20.00", "15.00"),
		saleRow("paint", "", 1, "8.00", "8.00"),
	}}
	svc := NewService(reader)

	report, err := svc.BuildReport(context.Background(), ReportFilter{})
	require.NoError(t, err)
	require.Len(t, report.Rows, 3)

	// Sorted by category, then subcategory.
	require.Equal(t, "paint", report.Rows[0].Category)
	require.Equal(t, "drills", report.Rows[1].Subcategory)
	require.Equal(t, "saws", report.Rows[2].Subcategory)

	drills := report.Rows[1]
	require.Equal(t, types.NewQuantityFromInt(2), drills.Quantity)
	require.True(t, drills.Profit.Equal(types.MustMoney("8.00")), "profit %s", drills.Profit)

	// Zero-profit row keeps a zero margin instead of dividing by cost.
	require.True(t, report.Rows[0].Profit.IsZero())
	require.True(t, report.Rows[0].MarginPct.IsZero())

	require.Equal(t, types.NewQuantityFromInt(4), report.Total.Quantity)
	require.True(t, report.Total.SaleTotal.Equal(types.MustMoney("48.00")))
	require.True(t, report.Total.Profit.Equal(types.MustMoney("13.00")))
}

func TestBuildReport_DefaultsWindow(t *testing.T) {
	reader := &fakeReader{}
	svc := NewService(reader)

	_, err := svc.BuildReport(context.Background(), ReportFilter{})
	require.NoError(t, err)
	require.False(t, reader.got.From.IsZero())
	require.False(t, reader.got.To.IsZero())
	require.Equal(t, DefaultWindow, reader.got.To.Sub(reader.got.From))
}

func TestBuildReport_RejectsInvertedRange(t *testing.T) {
	svc := NewService(&fakeReader{})

	now := time.Now().UTC()
	_, err := svc.BuildReport(context.Background(), ReportFilter{From: now, To: now.Add(-time.Hour)})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperror.CodeValidation, appErr.Code)
}
