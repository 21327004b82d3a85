package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/variant"
)

const variantsTable = "variants"

var variantColumns = ExtractDBColumns[variant.Variant]()

// VariantRepo implements variant.Repository.
type VariantRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

// NewVariantRepo creates a new variant repository.
func NewVariantRepo(txManager *TxManager) *VariantRepo {
	return &VariantRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID retrieves a variant by ID.
func (r *VariantRepo) GetByID(ctx context.Context, variantID id.ID) (*variant.Variant, error) {
	q := r.builder.Select(variantColumns...).
		From(variantsTable).
		Where(squirrel.Eq{"id": variantID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var v variant.Variant
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &v, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("variant", variantID.String())
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}

	return &v, nil
}

// GetBySKU retrieves a variant by SKU.
func (r *VariantRepo) GetBySKU(ctx context.Context, sku string) (*variant.Variant, error) {
	q := r.builder.Select(variantColumns...).
		From(variantsTable).
		Where(squirrel.Eq{"sku": sku}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var v variant.Variant
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &v, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("variant", sku)
		}
		return nil, fmt.Errorf("get variant by sku: %w", err)
	}

	return &v, nil
}

// Create inserts a new variant.
func (r *VariantRepo) Create(ctx context.Context, v *variant.Variant) error {
	q := r.builder.Insert(variantsTable).SetMap(StructToMap(v))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("variant", "sku", v.SKU)
		}
		return fmt.Errorf("insert variant: %w", err)
	}

	return nil
}

// Update writes the aggregate under optimistic version check. Zero rows
// affected means a concurrent writer bumped the version first: STALE_STATE.
// On success the in-memory version is advanced to match the row.
func (r *VariantRepo) Update(ctx context.Context, v *variant.Variant) error {
	now := time.Now().UTC()

	q := r.builder.Update(variantsTable).
		Set("quantity", v.Quantity).
		Set("average_cost", v.AverageCost).
		Set("sale_price", v.SalePrice).
		Set("margin_pct", v.MarginPct).
		Set("min_stock", v.MinStock).
		Set("deletion_mark", v.DeletionMark).
		Set("version", v.Version+1).
		Set("updated_at", now).
		Where(squirrel.Eq{
			"id":      v.ID,
			"version": v.Version,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update variant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewStaleState("variant", v.ID.String())
	}

	v.Version++
	v.UpdatedAt = now
	return nil
}

// UpdatePricing writes only the pricing pair under version check, for the
// manual override path that must not touch quantity or cost.
func (r *VariantRepo) UpdatePricing(ctx context.Context, variantID id.ID, price, marginPct types.Money, version int) error {
	q := r.builder.Update(variantsTable).
		Set("sale_price", price).
		Set("margin_pct", marginPct).
		Set("version", version+1).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{
			"id":      variantID,
			"version": version,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update pricing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewStaleState("variant", variantID.String())
	}

	return nil
}

// Ensure interface compliance.
var _ variant.Repository = (*VariantRepo)(nil)
