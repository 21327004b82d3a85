package dto

import (
	"time"

	"stockbook/internal/core/types"
	"stockbook/internal/domain/catalog"
)

// PriceOverrideRequest is a manual pricing edit: exactly one field name and
// its new value.
type PriceOverrideRequest struct {
	Edited string      `json:"edited" binding:"required"`
	Value  types.Money `json:"value" binding:"required"`
}

// ReassignCategoryRequest moves a product to new labels.
type ReassignCategoryRequest struct {
	Category    string `json:"category" binding:"required"`
	Subcategory string `json:"subcategory"`
}

// ProductResponse is the catalog product view.
type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Version     int       `json:"version"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromProduct creates ProductResponse from the domain product.
func FromProduct(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Category:    p.Category,
		Subcategory: p.Subcategory,
		Version:     p.Version,
		UpdatedAt:   p.UpdatedAt,
	}
}
