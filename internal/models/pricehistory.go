package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceHistory is one append-only audit entry for a change to an item's
// financial fields. A row is written only when at least one of price, cost or
// margin actually changed; every row snapshots all three fields before and
// after. Fields are pointers so partial snapshots remain representable.
type PriceHistory struct {
	ID           uuid.UUID        `json:"id"`
	ItemID       int              `json:"item_id"`
	OldPrice     *decimal.Decimal `json:"old_price,omitempty"`
	NewPrice     *decimal.Decimal `json:"new_price,omitempty"`
	OldCost      *decimal.Decimal `json:"old_cost,omitempty"`
	NewCost      *decimal.Decimal `json:"new_cost,omitempty"`
	OldMargin    *decimal.Decimal `json:"old_margin,omitempty"`
	NewMargin    *decimal.Decimal `json:"new_margin,omitempty"`
	ChangeReason *string          `json:"change_reason,omitempty"`
	UserID       *int             `json:"user_id,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}
