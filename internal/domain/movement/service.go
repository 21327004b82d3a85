package movement

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/tx"
	"stockbook/internal/domain/audit"
	"stockbook/internal/domain/collaborator"
	"stockbook/internal/domain/costing"
	"stockbook/internal/domain/variant"
	"stockbook/pkg/logger"
)

// Service is the stock ledger posting engine. Appending a movement and
// updating the variant aggregate happen in one transaction; a concurrent
// writer racing on the same variant is detected by the optimistic version
// check and retried once against the fresh aggregate.
type Service struct {
	variants  variant.Repository
	ledger    Repository
	directory collaborator.Directory
	recorder  audit.Recorder
	txManager tx.Manager
}

// NewService creates a new ledger service.
func NewService(
	variants variant.Repository,
	ledger Repository,
	directory collaborator.Directory,
	recorder audit.Recorder,
	txManager tx.Manager,
) *Service {
	return &Service{
		variants:  variants,
		ledger:    ledger,
		directory: directory,
		recorder:  recorder,
		txManager: txManager,
	}
}

// Record validates and posts one movement, returning the resulting variant
// state. On STALE_STATE the posting is retried exactly once after re-reading;
// a second failure surfaces to the caller.
func (s *Service) Record(ctx context.Context, draft *Draft) (variant.State, error) {
	if err := Validate(ctx, draft, s.directory); err != nil {
		return variant.State{}, err
	}

	if draft.OccurredAt.IsZero() {
		draft.OccurredAt = time.Now().UTC()
	}

	state, err := s.post(ctx, draft)
	if apperror.IsStaleState(err) {
		logger.Warn(ctx, "variant changed concurrently, retrying posting",
			"variant_id", draft.VariantID,
			"type", draft.Type,
		)
		state, err = s.post(ctx, draft)
	}
	if err != nil {
		return variant.State{}, err
	}

	logger.Info(ctx, "movement recorded",
		"variant_id", draft.VariantID,
		"type", draft.Type,
		"quantity", draft.Quantity,
	)

	return state, nil
}

// post runs one posting attempt as a single atomic unit: read the aggregate,
// run the averaging engine, append the ledger row (plus sale snapshot),
// update the aggregate under version check, record the audit entry.
func (s *Service) post(ctx context.Context, draft *Draft) (variant.State, error) {
	var state variant.State

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		v, err := s.variants.GetByID(ctx, draft.VariantID)
		if err != nil {
			return err
		}
		before := v.Snapshot()

		m := &StockMovement{
			ID:              id.New(),
			VariantID:       v.ID,
			Type:            draft.Type,
			Quantity:        draft.Quantity,
			UnitCostInvoice: draft.UnitCostInvoice,
			AdditionalCosts: draft.AdditionalCosts,
			Reason:          draft.Reason,
			ResponsibleID:   draft.ResponsibleID,
			SourceDocRef:    draft.SourceDocRef,
			OccurredAt:      draft.OccurredAt,
			CreatedAt:       time.Now().UTC(),
		}

		if m.Type.IsEntry() {
			res := costing.ApplyEntry(v.Quantity, v.AverageCost, m.Quantity, m.UnitCostInvoice, m.AdditionalCosts)
			m.RealUnitCost = res.RealUnitCost
			m.CostAtTime = res.AverageCost
			v.AverageCost = res.AverageCost

			// Cost moved, so price follows from the kept margin. An undefined
			// costing (cost still non-positive) leaves pricing untouched; the
			// variant state flags it as a warning instead.
			if p, derr := costing.Derive(costing.Pricing{
				Cost:      v.AverageCost,
				MarginPct: v.MarginPct,
				Price:     v.SalePrice,
			}, costing.EditedCost); derr == nil {
				v.SalePrice = p.Price
			}
		} else {
			m.CostAtTime = v.AverageCost

			// Exits and sales must not overdraw stock. Negative adjustments
			// may, so that post-hoc count corrections always go through.
			if (m.Type == TypeExit || m.Type == TypeSale) && v.Quantity < m.Quantity {
				return apperror.NewInsufficientStock(v.ID.String(), m.Quantity.Float64(), v.Quantity.Float64())
			}
		}

		v.Quantity += m.SignedQuantity()

		if err := s.ledger.Create(ctx, m); err != nil {
			return fmt.Errorf("append movement: %w", err)
		}

		if m.Type == TypeSale {
			link := &SaleLinkage{
				MovementID:    m.ID,
				SaleRef:       draft.SaleRef,
				UnitSalePrice: draft.UnitSalePrice,
				UnitCostBasis: m.CostAtTime,
				Quantity:      m.Quantity,
				CreatedAt:     m.CreatedAt,
			}
			if err := s.ledger.CreateSaleLinkage(ctx, link); err != nil {
				return fmt.Errorf("create sale linkage: %w", err)
			}
		}

		if err := s.variants.Update(ctx, v); err != nil {
			return err
		}

		entry, err := audit.NewEntry(ctx, "variant", v.ID, audit.ActionMovement, before, v.Snapshot())
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

// GetVariantState returns the current read model for a variant.
func (s *Service) GetVariantState(ctx context.Context, variantID id.ID) (variant.State, error) {
	v, err := s.variants.GetByID(ctx, variantID)
	if err != nil {
		return variant.State{}, err
	}
	return v.Snapshot(), nil
}

// History returns the most recent movements for a variant, newest first.
// Ledger rows are immutable, so this is a plain snapshot read.
func (s *Service) History(ctx context.Context, variantID id.ID, filter HistoryFilter) ([]StockMovement, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	return s.ledger.History(ctx, variantID, filter)
}
