package profit

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/types"
	"stockbook/pkg/logger"
)

var hundred = decimal.New(100, 0)

// DefaultWindow is used when the caller gives no date range.
const DefaultWindow = 30 * 24 * time.Hour

// Service aggregates realized profit from sale movements.
type Service struct {
	reader Reader
}

// NewService creates a new profitability reporting service.
func NewService(reader Reader) *Service {
	return &Service{reader: reader}
}

// BuildReport computes realized profit per category/subcategory over the
// filter window. Each row's cost basis comes from the sale-time snapshot,
// falling back to the movement's cost-at-time when no snapshot exists.
func (s *Service) BuildReport(ctx context.Context, filter ReportFilter) (Report, error) {
	if filter.To.IsZero() {
		filter.To = time.Now().UTC()
	}
	if filter.From.IsZero() {
		filter.From = filter.To.Add(-DefaultWindow)
	}
	if filter.From.After(filter.To) {
		return Report{}, apperror.NewFieldValidation("dateRange", "from must not be after to")
	}

	rows, err := s.reader.SaleRows(ctx, filter)
	if err != nil {
		return Report{}, err
	}

	type groupKey struct {
		category    string
		subcategory string
	}
	groups := make(map[groupKey]*Row)

	for _, r := range rows {
		line := realize(r)

		key := groupKey{category: r.Category, subcategory: r.Subcategory}
		g, ok := groups[key]
		if !ok {
			g = &Row{Category: r.Category, Subcategory: r.Subcategory}
			groups[key] = g
		}
		g.Quantity += line.Quantity
		g.CostTotal = g.CostTotal.Add(line.CostTotal)
		g.SaleTotal = g.SaleTotal.Add(line.SaleTotal)
		g.Profit = g.Profit.Add(line.Profit)
	}

	report := Report{From: filter.From, To: filter.To}
	for _, g := range groups {
		g.MarginPct = marginPct(g.Profit, g.SaleTotal)

		report.Rows = append(report.Rows, *g)
		report.Total.Quantity += g.Quantity
		report.Total.CostTotal = report.Total.CostTotal.Add(g.CostTotal)
		report.Total.SaleTotal = report.Total.SaleTotal.Add(g.SaleTotal)
		report.Total.Profit = report.Total.Profit.Add(g.Profit)
	}
	report.Total.MarginPct = marginPct(report.Total.Profit, report.Total.SaleTotal)

	sort.Slice(report.Rows, func(i, j int) bool {
		a, b := report.Rows[i], report.Rows[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Subcategory < b.Subcategory
	})

	logger.Debug(ctx, "profitability report built",
		"rows", len(report.Rows),
		"sales", len(rows),
		"from", filter.From,
		"to", filter.To,
	)

	return report, nil
}

// realize computes one sale's totals from its frozen facts.
func realize(r SaleRow) Row {
	qty := r.Quantity.Decimal()

	basis := r.CostAtTime
	if r.UnitCostBasis != nil {
		basis = *r.UnitCostBasis
	}

	salePrice := types.ZeroMoney()
	if r.UnitSalePrice != nil {
		salePrice = *r.UnitSalePrice
	}

	costTotal := basis.Mul(qty)
	saleTotal := salePrice.Mul(qty)

	return Row{
		Quantity:  r.Quantity,
		CostTotal: costTotal,
		SaleTotal: saleTotal,
		Profit:    saleTotal.Sub(costTotal),
	}
}

// marginPct is profit over sale value, zero when nothing was billed.
func marginPct(profit, saleTotal types.Money) types.Money {
	if saleTotal.IsZero() {
		return types.ZeroMoney()
	}
	return profit.Div(saleTotal).Mul(hundred).Round(4)
}
