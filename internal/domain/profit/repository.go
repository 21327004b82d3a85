package profit

import "context"

// Reader reads sale rows for reporting. Ledger rows and snapshots are
// immutable, so these are plain snapshot reads.
type Reader interface {
	// SaleRows returns every sale movement inside the filter window joined
	// with its linkage snapshot and catalog labels, oldest first.
	SaleRows(ctx context.Context, filter ReportFilter) ([]SaleRow, error)
}
