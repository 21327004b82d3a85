package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/domain/movement"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// StockHandler handles the stock ledger endpoints: posting movements,
// reading variant state and movement history.
type StockHandler struct {
	*BaseHandler
	service *movement.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *movement.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RecordMovement handles POST /variants/:id/movements
func (h *StockHandler) RecordMovement(c *gin.Context) {
	variantID, ok := h.parseVariantID(c)
	if !ok {
		return
	}

	var req dto.RecordMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	draft, err := req.ToDraft(variantID)
	if err != nil {
		h.Error(c, err)
		return
	}

	state, err := h.service.Record(c.Request.Context(), draft)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromVariantState(state))
}

// GetVariant handles GET /variants/:id
func (h *StockHandler) GetVariant(c *gin.Context) {
	variantID, ok := h.parseVariantID(c)
	if !ok {
		return
	}

	state, err := h.service.GetVariantState(c.Request.Context(), variantID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromVariantState(state))
}

// GetHistory handles GET /variants/:id/movements
func (h *StockHandler) GetHistory(c *gin.Context) {
	variantID, ok := h.parseVariantID(c)
	if !ok {
		return
	}

	filter := movement.HistoryFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if typeStr := c.Query("type"); typeStr != "" {
		t := movement.Type(typeStr)
		if !t.Valid() {
			h.Error(c, apperror.NewFieldValidation("type", "unknown movement type"))
			return
		}
		filter.Type = &t
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.Error(c, apperror.NewFieldValidation("from", "invalid from date, expected RFC3339"))
			return
		}
		filter.FromDate = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			h.Error(c, apperror.NewFieldValidation("to", "invalid to date, expected RFC3339"))
			return
		}
		filter.ToDate = &to
	}

	movements, err := h.service.History(c.Request.Context(), variantID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.MovementResponse, len(movements))
	for i, m := range movements {
		items[i] = dto.FromMovement(m)
	}

	h.OK(c, dto.MovementListResponse{Items: items})
}

func (h *StockHandler) parseVariantID(c *gin.Context) (id.ID, bool) {
	variantID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewFieldValidation("id", "invalid variant id format"))
		return id.Nil(), false
	}
	return variantID, true
}
