package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stockbook/internal/core/id"
	"stockbook/internal/domain/variant"
)

type auditedRow struct {
	Version      int  `db:"version"`
	DeletionMark bool `db:"deletion_mark"`
}

type skuRow struct {
	auditedRow
	ID       id.ID  `db:"id"`
	SKU      string `db:"sku"`
	Internal string `db:"-"`
	NoTag    string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[skuRow]()

	assert.Equal(t, []string{"version", "deletion_mark", "id", "sku"}, cols)
}

func TestExtractDBColumns_Variant(t *testing.T) {
	cols := ExtractDBColumns[variant.Variant]()

	for _, expected := range []string{
		"id", "product_id", "sku",
		"quantity", "average_cost", "sale_price", "margin_pct", "min_stock",
		"version", "deletion_mark", "created_at", "updated_at",
	} {
		assert.Contains(t, cols, expected)
	}
}

func TestStructToMap(t *testing.T) {
	row := skuRow{
		auditedRow: auditedRow{Version: 3, DeletionMark: true},
		ID:         id.New(),
		SKU:        "WIDGET-XL",
		Internal:   "hidden",
		NoTag:      "hidden",
	}

	m := StructToMap(row)

	assert.Equal(t, row.ID, m["id"])
	assert.Equal(t, "WIDGET-XL", m["sku"])
	assert.Equal(t, 3, m["version"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Len(t, m, 4)
}
