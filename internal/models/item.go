package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is the mutable current-state projection of a stocked product.
// Quantity is reconciled against the item's movement log: it must always equal
// the signed sum of the movements recorded since creation.
type InventoryItem struct {
	ID            int             `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	CategoryID    *int            `json:"category_id,omitempty"`
	Location      *string         `json:"location,omitempty"`
	Active        bool            `json:"active"`
	Quantity      int             `json:"quantity"`
	MinStockLevel int             `json:"min_stock_level"`
	Cost          decimal.Decimal `json:"cost"`
	Price         decimal.Decimal `json:"price"`
	Margin        decimal.Decimal `json:"margin"`
	CreatedAt     time.Time       `json:"created_at"`
	LastUpdated   time.Time       `json:"last_updated"`
}

// LowStock reports whether the item has fallen below its minimum stock level.
func (i InventoryItem) LowStock() bool {
	return i.Quantity < i.MinStockLevel
}
