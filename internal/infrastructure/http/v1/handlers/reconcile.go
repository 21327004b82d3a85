package handlers

import (
	"github.com/gin-gonic/gin"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/domain/reconcile"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// ReconcileHandler handles installment reconciliation for orders.
type ReconcileHandler struct {
	*BaseHandler
	guard *reconcile.Guard[reconcile.Installment]
}

// NewReconcileHandler creates a new reconcile handler.
func NewReconcileHandler(base *BaseHandler, guard *reconcile.Guard[reconcile.Installment]) *ReconcileHandler {
	return &ReconcileHandler{
		BaseHandler: base,
		guard:       guard,
	}
}

// ReconcileInstallments handles POST /orders/:id/installments/reconcile
func (h *ReconcileHandler) ReconcileInstallments(c *gin.Context) {
	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewFieldValidation("id", "invalid order id format"))
		return
	}

	var req dto.ReconcileInstallmentsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.guard.Reconcile(c.Request.Context(), orderID, req.ToInstallments(orderID))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromReconcileResult(result))
}
