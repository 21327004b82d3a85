package reconcile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
)

func TestCompileRule(t *testing.T) {
	orderID := id.New()
	settled := installment(orderID, "1", "100.00", InstallmentSettled)
	pending := installment(orderID, "2", "100.00", InstallmentPending)

	t.Run("default rule locks settled only", func(t *testing.T) {
		locked, err := CompileRule[Installment](DefaultInstallmentLockRule, installmentFields)
		require.NoError(t, err)
		require.True(t, locked(settled))
		require.False(t, locked(pending))
	})

	t.Run("rule can use any exposed field", func(t *testing.T) {
		locked, err := CompileRule[Installment](`child.status == "settled" || child.amount > 500.0`, installmentFields)
		require.NoError(t, err)

		large := installment(orderID, "3", "900.00", InstallmentPending)
		require.True(t, locked(large))
		require.False(t, locked(pending))
	})

	t.Run("rejects non-boolean rules", func(t *testing.T) {
		_, err := CompileRule[Installment](`child.amount`, installmentFields)
		require.Error(t, err)
	})

	t.Run("rejects malformed rules", func(t *testing.T) {
		_, err := CompileRule[Installment](`child.status ==`, installmentFields)
		require.Error(t, err)
	})

	t.Run("evaluation failure locks the child", func(t *testing.T) {
		locked, err := CompileRule[Installment](`child.missing_field == "x"`, installmentFields)
		require.NoError(t, err)
		require.True(t, locked(pending), "undecidable children must be treated as locked")
	})
}

func TestInstallmentEqualTo(t *testing.T) {
	orderID := id.New()
	a := installment(orderID, "1", "100.00", InstallmentPending)

	same := a
	same.Amount = types.MustMoney("100.0000")
	require.True(t, a.EqualTo(same), "decimal scale must not matter")

	changed := a
	changed.Amount = types.MustMoney("100.01")
	require.False(t, a.EqualTo(changed))

	paid := a
	now := a.DueDate
	paid.PaidAt = &now
	require.True(t, a.EqualTo(paid), "bookkeeping fields are not business content")
}
