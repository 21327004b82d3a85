package dto

import (
	"time"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/reconcile"
)

// InstallmentRequest is one desired installment in a reconcile call.
type InstallmentRequest struct {
	ID      string      `json:"id" binding:"required"`
	Seq     int         `json:"seq"`
	Amount  types.Money `json:"amount"`
	DueDate time.Time   `json:"dueDate"`
	Status  string      `json:"status"`
}

// ReconcileInstallmentsRequest carries the full desired installment set.
type ReconcileInstallmentsRequest struct {
	Installments []InstallmentRequest `json:"installments"`
}

// ToInstallments converts the request into domain children of the order.
func (r *ReconcileInstallmentsRequest) ToInstallments(orderID id.ID) []reconcile.Installment {
	installments := make([]reconcile.Installment, 0, len(r.Installments))
	for _, in := range r.Installments {
		status := reconcile.InstallmentStatus(in.Status)
		if status == "" {
			status = reconcile.InstallmentPending
		}
		installments = append(installments, reconcile.Installment{
			ID:      in.ID,
			OrderID: orderID,
			Seq:     in.Seq,
			Amount:  in.Amount,
			DueDate: in.DueDate.UTC(),
			Status:  status,
		})
	}
	return installments
}

// ReconcileResponse reports what the reconciliation did.
type ReconcileResponse struct {
	Upserted      []string `json:"upserted"`
	Deleted       []string `json:"deleted"`
	SkippedLocked []string `json:"skippedLocked"`
}

// FromReconcileResult creates ReconcileResponse from the guard result.
func FromReconcileResult(res reconcile.Result) ReconcileResponse {
	return ReconcileResponse{
		Upserted:      res.Upserted,
		Deleted:       res.Deleted,
		SkippedLocked: res.SkippedLocked,
	}
}
