package handlers

import (
	"strings"
)

type ItemValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateItem(p ItemRequest) []ItemValidationError {
	errs := []ItemValidationError{}
	if strings.TrimSpace(p.SKU) == "" {
		errs = append(errs, ItemValidationError{Field: "SKU", Description: "SKU is required"})
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ItemValidationError{Field: "Name", Description: "Name is required"})
	}
	if p.Quantity < 0 {
		errs = append(errs, ItemValidationError{Field: "Quantity", Description: "Quantity cannot be negative"})
	}
	if p.MinStockLevel < 0 {
		errs = append(errs, ItemValidationError{Field: "MinStockLevel", Description: "Minimum stock level cannot be negative"})
	}
	if p.Cost.Sign() < 0 {
		errs = append(errs, ItemValidationError{Field: "Cost", Description: "Cost cannot be negative"})
	}
	if p.Price.Sign() < 0 {
		errs = append(errs, ItemValidationError{Field: "Price", Description: "Price cannot be negative"})
	}
	if p.Margin != nil && p.Margin.Sign() < 0 {
		errs = append(errs, ItemValidationError{Field: "Margin", Description: "Margin cannot be negative"})
	}
	return errs
}
