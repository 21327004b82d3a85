package movement

import (
	"context"
	"time"

	"stockbook/internal/core/id"
)

// Repository defines operations on the ledger tables.
// Rows are append-only: there is deliberately no update or delete.
type Repository interface {
	// Create inserts one movement row.
	Create(ctx context.Context, m *StockMovement) error

	// CreateSaleLinkage inserts the immutable sale snapshot.
	// Must run in the same transaction as the movement insert.
	CreateSaleLinkage(ctx context.Context, l *SaleLinkage) error

	// History returns the most recent movements for a variant,
	// newest first, up to limit.
	History(ctx context.Context, variantID id.ID, filter HistoryFilter) ([]StockMovement, error)
}

// HistoryFilter narrows history reads.
type HistoryFilter struct {
	Type     *Type
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}
