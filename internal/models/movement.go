package models

import (
	"time"

	"github.com/google/uuid"
)

type MovementType string

const (
	MovementInitial  MovementType = "INITIAL"
	MovementStockIn  MovementType = "STOCK_IN"
	MovementStockOut MovementType = "STOCK_OUT"
	// MovementAdjustment covers both directions of a stock correction. The
	// magnitude is |new - old|, so the sign of an adjustment cannot be
	// reconstructed from the row alone; it requires the surrounding
	// before/after quantities.
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// StockMovement is one append-only ledger entry for an inventory item.
// Quantity is an absolute magnitude, always positive; the direction is
// carried by Type. Rows are immutable once written and are removed only as a
// cascade of deleting the owning item.
type StockMovement struct {
	ID         uuid.UUID    `json:"id"`
	ItemID     int          `json:"item_id"`
	Quantity   int          `json:"quantity"`
	Type       MovementType `json:"type"`
	OccurredAt time.Time    `json:"occurred_at"`
	Notes      *string      `json:"notes,omitempty"`
	CreatedBy  *int         `json:"created_by,omitempty"`
}
