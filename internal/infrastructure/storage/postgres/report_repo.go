package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/domain/movement"
	"stockbook/internal/domain/profit"
)

// ReportRepo implements profit.Reader: sale movements joined with their
// linkage snapshot and the product's catalog labels. Everything it reads is
// immutable, so no transaction or locking is involved.
type ReportRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewReportRepo creates a new reporting repository.
func NewReportRepo(txManager *TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// SaleRows returns sale movements inside the filter window, oldest first.
// The linkage join is LEFT: legacy sales without a snapshot still report,
// falling back to the movement's cost-at-time.
func (r *ReportRepo) SaleRows(ctx context.Context, filter profit.ReportFilter) ([]profit.SaleRow, error) {
	q := r.builder.Select(
		"m.id AS movement_id",
		"m.variant_id",
		"v.sku",
		"m.quantity",
		"m.occurred_at",
		"p.category",
		"p.subcategory",
		"l.unit_sale_price",
		"l.unit_cost_basis",
		"m.cost_at_time",
	).
		From(movementsTable+" m").
		Join(variantsTable+" v ON v.id = m.variant_id").
		Join(productsTable+" p ON p.id = v.product_id").
		LeftJoin(saleLinkagesTable+" l ON l.movement_id = m.id").
		Where(squirrel.Eq{"m.type": movement.TypeSale}).
		Where(squirrel.GtOrEq{"m.occurred_at": filter.From}).
		Where(squirrel.LtOrEq{"m.occurred_at": filter.To})

	if filter.Category != "" {
		q = q.Where(squirrel.Eq{"p.category": filter.Category})
	}
	if filter.Subcategory != "" {
		q = q.Where(squirrel.Eq{"p.subcategory": filter.Subcategory})
	}

	q = q.OrderBy("m.occurred_at ASC", "m.created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []profit.SaleRow
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select sale rows: %w", err)
	}

	return rows, nil
}

// Ensure interface compliance.
var _ profit.Reader = (*ReportRepo)(nil)
