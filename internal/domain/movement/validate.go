package movement

import (
	"context"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/domain/collaborator"
)

// Validate checks every precondition a draft must satisfy before anything
// is persisted. Each failure names the offending field; the first failure
// wins and no partial persistence can occur.
func Validate(ctx context.Context, d *Draft, directory collaborator.Directory) error {
	if id.IsNil(d.VariantID) {
		return apperror.NewFieldValidation("variantId", "variant is required")
	}

	if !d.Type.Valid() {
		return apperror.NewFieldValidation("type", "unknown movement type")
	}

	if !d.Quantity.IsPositive() {
		return apperror.NewFieldValidation("quantity", "quantity must be positive")
	}
	if !d.Quantity.IsIntegral() {
		return apperror.NewFieldValidation("quantity", "quantity must be a whole number of units")
	}

	if d.Type.IsEntry() {
		if d.UnitCostInvoice.IsNegative() {
			return apperror.NewFieldValidation("unitCostInvoice", "invoiced unit cost must not be negative")
		}
		if d.AdditionalCosts.IsNegative() {
			return apperror.NewFieldValidation("additionalCosts", "additional costs must not be negative")
		}
	} else if d.Reason == "" {
		return apperror.NewFieldValidation("reason", "non-entry movements require a reason")
	}

	if d.Type == TypeSale {
		if d.SaleRef == "" {
			return apperror.NewFieldValidation("saleRef", "sale movements require a sale reference")
		}
		if d.UnitSalePrice.IsNegative() {
			return apperror.NewFieldValidation("unitSalePrice", "unit sale price must not be negative")
		}
	}

	if id.IsNil(d.ResponsibleID) {
		return apperror.NewFieldValidation("responsibleId", "responsible party is required")
	}

	resp, err := directory.Resolve(ctx, d.ResponsibleID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewFieldValidation("responsibleId", "responsible party does not exist")
		}
		return err
	}
	if !resp.Active {
		return apperror.NewFieldValidation("responsibleId", "responsible party is not an active collaborator")
	}

	return nil
}
