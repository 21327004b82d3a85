package handlers

import (
	"github.com/gin-gonic/gin"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/domain/catalog"
	"stockbook/internal/domain/costing"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// CatalogHandler handles catalog-level edits: manual pricing overrides and
// category reassignment.
type CatalogHandler struct {
	*BaseHandler
	service *catalog.Service
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(base *BaseHandler, service *catalog.Service) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: base,
		service:     service,
	}
}

// OverridePricing handles POST /variants/:id/pricing
func (h *CatalogHandler) OverridePricing(c *gin.Context) {
	variantID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewFieldValidation("id", "invalid variant id format"))
		return
	}

	var req dto.PriceOverrideRequest
	if !h.BindJSON(c, &req) {
		return
	}

	state, err := h.service.OverridePricing(c.Request.Context(), variantID, catalog.PriceOverride{
		Edited: costing.EditedField(req.Edited),
		Value:  req.Value,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromVariantState(state))
}

// ReassignCategory handles POST /products/:id/category
func (h *CatalogHandler) ReassignCategory(c *gin.Context) {
	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewFieldValidation("id", "invalid product id format"))
		return
	}

	var req dto.ReassignCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.service.ReassignCategory(c.Request.Context(), productID, req.Category, req.Subcategory)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProduct(product))
}
