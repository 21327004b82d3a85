package variant

import (
	"context"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

// Repository defines persistence for variants.
type Repository interface {
	// GetByID returns the variant or a NOT_FOUND AppError.
	GetByID(ctx context.Context, variantID id.ID) (*Variant, error)

	// GetBySKU returns the variant or a NOT_FOUND AppError.
	GetBySKU(ctx context.Context, sku string) (*Variant, error)

	// Create inserts a new variant.
	Create(ctx context.Context, v *Variant) error

	// Update persists the aggregate with an optimistic version check:
	// the row is matched on (id, version) and the version incremented.
	// Zero rows affected surfaces as a STALE_STATE AppError.
	Update(ctx context.Context, v *Variant) error

	// UpdatePricing persists only SalePrice/MarginPct, with the same
	// optimistic version check. Quantity and AverageCost are untouchable
	// through this path.
	UpdatePricing(ctx context.Context, variantID id.ID, price, marginPct types.Money, version int) error
}
