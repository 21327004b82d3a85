package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"

	"stockbook/internal/core/id"
	"stockbook/internal/domain/movement"
)

func TestHistoryQuery(t *testing.T) {
	builder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	variantID := id.New()

	t.Run("base query", func(t *testing.T) {
		sql, args, err := historyQuery(builder, variantID, movement.HistoryFilter{Limit: 50}).ToSql()
		if err != nil {
			t.Fatalf("ToSql failed: %v", err)
		}

		if !strings.Contains(sql, "FROM stock_movements") {
			t.Errorf("unexpected table in SQL: %s", sql)
		}
		if !strings.Contains(sql, "ORDER BY occurred_at DESC, created_at DESC") {
			t.Errorf("history must be newest first, got: %s", sql)
		}
		if !strings.Contains(sql, "LIMIT 50") {
			t.Errorf("limit missing from SQL: %s", sql)
		}
		if len(args) != 1 {
			t.Fatalf("want 1 arg, got %d", len(args))
		}
	})

	t.Run("full filter", func(t *testing.T) {
		saleType := movement.TypeSale
		from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

		sql, args, err := historyQuery(builder, variantID, movement.HistoryFilter{
			Type:     &saleType,
			FromDate: &from,
			ToDate:   &to,
			Limit:    10,
			Offset:   20,
		}).ToSql()
		if err != nil {
			t.Fatalf("ToSql failed: %v", err)
		}

		for _, fragment := range []string{
			"variant_id = $1",
			"type = $2",
			"occurred_at >= $3",
			"occurred_at <= $4",
			"LIMIT 10",
			"OFFSET 20",
		} {
			if !strings.Contains(sql, fragment) {
				t.Errorf("SQL missing %q:\n%s", fragment, sql)
			}
		}
		if len(args) != 4 {
			t.Fatalf("want 4 args, got %d", len(args))
		}
	})
}
