package catalog

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/tx"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/audit"
	"stockbook/internal/domain/costing"
	"stockbook/internal/domain/variant"
	"stockbook/pkg/logger"
)

// Service handles catalog-level edits: manual pricing overrides and category
// reassignment. Every edit is audited with before/after snapshots.
type Service struct {
	products  Repository
	variants  variant.Repository
	recorder  audit.Recorder
	txManager tx.Manager
}

// NewService creates a new catalog service.
func NewService(
	products Repository,
	variants variant.Repository,
	recorder audit.Recorder,
	txManager tx.Manager,
) *Service {
	return &Service{
		products:  products,
		variants:  variants,
		recorder:  recorder,
		txManager: txManager,
	}
}

// PriceOverride is a manual edit of one pricing field. Only margin and price
// are editable; cost belongs to the ledger posting path.
type PriceOverride struct {
	Edited costing.EditedField
	Value  types.Money
}

// OverridePricing applies a manual margin or price edit to a variant,
// rederiving the dependent field from the current average cost. On
// STALE_STATE the edit is retried exactly once against the fresh variant.
func (s *Service) OverridePricing(ctx context.Context, variantID id.ID, override PriceOverride) (variant.State, error) {
	if override.Edited != costing.EditedMargin && override.Edited != costing.EditedPrice {
		return variant.State{}, apperror.NewFieldValidation("edited", "only margin or price can be overridden")
	}
	if override.Value.IsNegative() {
		return variant.State{}, apperror.NewFieldValidation("value", "override value must not be negative")
	}

	state, err := s.applyOverride(ctx, variantID, override)
	if apperror.IsStaleState(err) {
		logger.Warn(ctx, "variant changed concurrently, retrying price override",
			"variant_id", variantID,
		)
		state, err = s.applyOverride(ctx, variantID, override)
	}
	if err != nil {
		return variant.State{}, err
	}

	logger.Info(ctx, "pricing overridden",
		"variant_id", variantID,
		"edited", override.Edited,
	)

	return state, nil
}

func (s *Service) applyOverride(ctx context.Context, variantID id.ID, override PriceOverride) (variant.State, error) {
	var state variant.State

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		v, err := s.variants.GetByID(ctx, variantID)
		if err != nil {
			return err
		}
		before := v.Snapshot()

		pricing := costing.Pricing{
			Cost:      v.AverageCost,
			MarginPct: v.MarginPct,
			Price:     v.SalePrice,
		}
		switch override.Edited {
		case costing.EditedMargin:
			pricing.MarginPct = override.Value
		case costing.EditedPrice:
			pricing.Price = override.Value
		}

		derived, err := costing.Derive(pricing, override.Edited)
		if err != nil {
			return err
		}

		if err := s.variants.UpdatePricing(ctx, v.ID, derived.Price, derived.MarginPct, v.Version); err != nil {
			return err
		}
		v.SalePrice = derived.Price
		v.MarginPct = derived.MarginPct

		entry, err := audit.NewEntry(ctx, "variant", v.ID, audit.ActionPriceOverride, before, v.Snapshot())
		if err != nil {
			return fmt.Errorf("build audit entry: %w", err)
		}
		if err := s.recorder.RecordChange(ctx, entry); err != nil {
			return fmt.Errorf("record audit entry: %w", err)
		}

		state = v.Snapshot()
		return nil
	})

	return state, err
}

// ReassignCategory moves a product to new category labels. Reports group by
// these labels, so the change is audited like any other privileged edit.
func (s *Service) ReassignCategory(ctx context.Context, productID id.ID, category, subcategory string) (*Product, error) {
	if category == "" {
		return nil, apperror.NewFieldValidation("category", "category is required")
	}

	var updated *Product
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		before := *p

		p.Category = category
		p.Subcategory = subcategory
		p.UpdatedAt = time.Now().UTC()

		if err := s.products.Update(ctx, p); err != nil {
			return err
		}

		entry, err := audit.NewEntry(ctx, "product", p.ID, audit.ActionReassign, before, *p)
		if err != nil {
			return fmt.Errorf("build audit entry: %w", err)
		}
		if err := s.recorder.RecordChange(ctx, entry); err != nil {
			return fmt.Errorf("record audit entry: %w", err)
		}

		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "product category reassigned",
		"product_id", productID,
		"category", category,
		"subcategory", subcategory,
	)

	return updated, nil
}
