package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/profit"
)

// ReportsHandler handles the profitability report endpoint.
type ReportsHandler struct {
	*BaseHandler
	service *profit.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *profit.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetProfitability handles GET /reports/profitability
func (h *ReportsHandler) GetProfitability(c *gin.Context) {
	filter := profit.ReportFilter{
		Category:    c.Query("category"),
		Subcategory: c.Query("subcategory"),
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.Error(c, apperror.NewFieldValidation("from", "invalid from date, expected RFC3339"))
			return
		}
		filter.From = from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			h.Error(c, apperror.NewFieldValidation("to", "invalid to date, expected RFC3339"))
			return
		}
		filter.To = to
	}

	report, err := h.service.BuildReport(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}
