// Package catalog provides catalog-level metadata and the manual edit paths:
// category labels used for report grouping, and the audited price/margin
// override. Average cost is not editable here; its only writer is the ledger
// posting path.
package catalog

import (
	"context"
	"time"

	"stockbook/internal/core/id"
)

// Product groups variants and carries the labels reports aggregate by.
type Product struct {
	ID          id.ID  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Category    string `db:"category" json:"category"`
	Subcategory string `db:"subcategory" json:"subcategory"`

	Version int `db:"version" json:"version"`

	DeletionMark bool      `db:"deletion_mark" json:"deletionMark"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Repository defines product persistence.
type Repository interface {
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	Create(ctx context.Context, p *Product) error

	// Update writes the product under optimistic version check and fails
	// with STALE_STATE when the version moved.
	Update(ctx context.Context, p *Product) error
}
