package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/id"
	"stockbook/internal/domain/movement"
)

const (
	movementsTable    = "stock_movements"
	saleLinkagesTable = "sale_linkages"
)

var movementColumns = []string{
	"id", "variant_id", "type", "quantity",
	"unit_cost_invoice", "additional_costs", "real_unit_cost", "cost_at_time",
	"reason", "responsible_id", "source_doc_ref",
	"occurred_at", "created_at",
}

// LedgerRepo implements movement.Repository. The ledger tables are
// append-only: this repository deliberately has no update or delete.
type LedgerRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewLedgerRepo creates a new stock ledger repository.
func NewLedgerRepo(txManager *TxManager) *LedgerRepo {
	return &LedgerRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts one movement row.
func (r *LedgerRepo) Create(ctx context.Context, m *movement.StockMovement) error {
	q := r.builder.Insert(movementsTable).
		Columns(movementColumns...).
		Values(
			m.ID, m.VariantID, m.Type, m.Quantity,
			m.UnitCostInvoice, m.AdditionalCosts, m.RealUnitCost, m.CostAtTime,
			m.Reason, m.ResponsibleID, m.SourceDocRef,
			m.OccurredAt, m.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}

	return nil
}

// CreateSaleLinkage inserts the immutable sale snapshot. Callers must run it
// in the same transaction as the movement insert.
func (r *LedgerRepo) CreateSaleLinkage(ctx context.Context, l *movement.SaleLinkage) error {
	q := r.builder.Insert(saleLinkagesTable).
		Columns(
			"movement_id", "sale_ref",
			"unit_sale_price", "unit_cost_basis", "quantity",
			"created_at",
		).
		Values(
			l.MovementID, l.SaleRef,
			l.UnitSalePrice, l.UnitCostBasis, l.Quantity,
			l.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale linkage: %w", err)
	}

	return nil
}

// History returns the most recent movements for a variant, newest first.
func (r *LedgerRepo) History(ctx context.Context, variantID id.ID, filter movement.HistoryFilter) ([]movement.StockMovement, error) {
	q := historyQuery(r.builder, variantID, filter)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []movement.StockMovement
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}

	return movements, nil
}

// historyQuery builds the history select; split out for testability.
func historyQuery(builder squirrel.StatementBuilderType, variantID id.ID, filter movement.HistoryFilter) squirrel.SelectBuilder {
	q := builder.Select(movementColumns...).
		From(movementsTable).
		Where(squirrel.Eq{"variant_id": variantID})

	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"occurred_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"occurred_at": *filter.ToDate})
	}

	q = q.OrderBy("occurred_at DESC", "created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	return q
}

// Ensure interface compliance.
var _ movement.Repository = (*LedgerRepo)(nil)
