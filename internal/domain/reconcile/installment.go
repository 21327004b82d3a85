package reconcile

import (
	"time"

	"stockbook/internal/core/id"
	"stockbook/internal/core/tx"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/audit"
)

// InstallmentStatus is the payment state of one installment.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentSettled InstallmentStatus = "settled"
)

// Installment is one payment installment of an order: the reference child
// entity reconciled by the guard. A settled installment is financially
// finalized and locked against overwrite.
type Installment struct {
	ID      string            `db:"id" json:"id"`
	OrderID id.ID             `db:"order_id" json:"orderId"`
	Seq     int               `db:"seq" json:"seq"`
	Amount  types.Money       `db:"amount" json:"amount"`
	DueDate time.Time         `db:"due_date" json:"dueDate"`
	Status  InstallmentStatus `db:"status" json:"status"`
	PaidAt  *time.Time        `db:"paid_at" json:"paidAt,omitempty"`
}

// ChildID implements Child.
func (i Installment) ChildID() string { return i.ID }

// EqualTo compares business content; persistence bookkeeping (PaidAt) is
// ignored so re-sending an unchanged settled installment is not a conflict.
func (i Installment) EqualTo(other Installment) bool {
	return i.Seq == other.Seq &&
		i.Amount.Equal(other.Amount) &&
		i.DueDate.Equal(other.DueDate) &&
		i.Status == other.Status
}

// DefaultInstallmentLockRule locks settled installments.
const DefaultInstallmentLockRule = `child.status == "settled"`

// installmentFields exposes an installment to the CEL lock rule.
func installmentFields(i Installment) map[string]any {
	return map[string]any{
		"id":     i.ID,
		"seq":    i.Seq,
		"amount": i.Amount.InexactFloat64(),
		"status": string(i.Status),
		"paid":   i.PaidAt != nil,
	}
}

// NewInstallmentGuard creates the reconciliation guard for order payment
// installments, with the lock policy given as a CEL rule.
func NewInstallmentGuard(
	store Store[Installment],
	rule string,
	recorder audit.Recorder,
	txManager tx.Manager,
) (*Guard[Installment], error) {
	if rule == "" {
		rule = DefaultInstallmentLockRule
	}
	locked, err := CompileRule[Installment](rule, installmentFields)
	if err != nil {
		return nil, err
	}
	return NewGuard("order_installments", store, locked, recorder, txManager), nil
}
