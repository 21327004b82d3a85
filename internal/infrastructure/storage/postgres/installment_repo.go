package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/id"
	"stockbook/internal/domain/reconcile"
)

const installmentsTable = "order_installments"

var installmentColumns = []string{
	"id", "order_id", "seq", "amount", "due_date", "status", "paid_at",
}

// InstallmentRepo implements reconcile.Store for order payment installments.
// The reconciliation guard calls it inside its own transaction; the locked
// check and these writes therefore see one consistent snapshot.
type InstallmentRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewInstallmentRepo creates a new installment repository.
func NewInstallmentRepo(txManager *TxManager) *InstallmentRepo {
	return &InstallmentRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListByParent returns all installments of an order, in sequence order.
func (r *InstallmentRepo) ListByParent(ctx context.Context, parentID id.ID) ([]reconcile.Installment, error) {
	q := r.builder.Select(installmentColumns...).
		From(installmentsTable).
		Where(squirrel.Eq{"order_id": parentID}).
		OrderBy("seq")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var installments []reconcile.Installment
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &installments, sql, args...); err != nil {
		return nil, fmt.Errorf("select installments: %w", err)
	}

	return installments, nil
}

// Delete removes the given installments of an order.
func (r *InstallmentRepo) Delete(ctx context.Context, parentID id.ID, childIDs []string) error {
	if len(childIDs) == 0 {
		return nil
	}

	q := r.builder.Delete(installmentsTable).
		Where(squirrel.Eq{
			"order_id": parentID,
			"id":       childIDs,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete installments: %w", err)
	}

	return nil
}

// Upsert inserts or replaces the given installments of an order.
func (r *InstallmentRepo) Upsert(ctx context.Context, parentID id.ID, children []reconcile.Installment) error {
	if len(children) == 0 {
		return nil
	}

	q := r.builder.Insert(installmentsTable).Columns(installmentColumns...)
	for _, c := range children {
		q = q.Values(c.ID, parentID, c.Seq, c.Amount, c.DueDate, c.Status, c.PaidAt)
	}
	q = q.Suffix(`
		ON CONFLICT (id) DO UPDATE SET
			seq = EXCLUDED.seq,
			amount = EXCLUDED.amount,
			due_date = EXCLUDED.due_date,
			status = EXCLUDED.status,
			paid_at = EXCLUDED.paid_at
	`)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert installments: %w", err)
	}

	return nil
}

// Ensure interface compliance.
var _ reconcile.Store[reconcile.Installment] = (*InstallmentRepo)(nil)
