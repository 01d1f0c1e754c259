package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/inventory-core/internal/models"
)

type ItemRequest struct {
	SKU           string           `json:"sku"`
	Name          string           `json:"name"`
	CategoryID    *int             `json:"category_id,omitempty"`
	Location      *string          `json:"location,omitempty"`
	Quantity      int              `json:"quantity"`
	MinStockLevel int              `json:"min_stock_level"`
	Cost          decimal.Decimal  `json:"cost"`
	Price         decimal.Decimal  `json:"price"`
	Margin        *decimal.Decimal `json:"margin,omitempty"`
	Actor         *string          `json:"actor,omitempty"`
}

type ItemResponse struct {
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
	LowStock      bool            `json:"low_stock,omitempty"`
	LastUpdated   time.Time       `json:"last_updated"`
}

func toItemResponse(it models.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:            it.ID,
		SKU:           it.SKU,
		Name:          it.Name,
		CategoryID:    it.CategoryID,
		Location:      it.Location,
		Active:        it.Active,
		Quantity:      it.Quantity,
		MinStockLevel: it.MinStockLevel,
		Cost:          it.Cost,
		Price:         it.Price,
		Margin:        it.Margin,
		LowStock:      it.LowStock(),
		LastUpdated:   it.LastUpdated,
	}
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type StockRequest struct {
	Quantity int     `json:"quantity"`
	Notes    *string `json:"notes,omitempty"`
	Actor    *string `json:"actor,omitempty"`
}

type AdjustmentRequest struct {
	NewQuantity int     `json:"new_quantity"`
	Notes       *string `json:"notes,omitempty"`
	Actor       *string `json:"actor,omitempty"`
}

type MovementResponse struct {
	ID         uuid.UUID `json:"id"`
	ItemID     int       `json:"item_id"`
	Quantity   int       `json:"quantity"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Notes      *string   `json:"notes,omitempty"`
	CreatedBy  *int      `json:"created_by,omitempty"`
}

func toMovementResponse(m models.StockMovement) MovementResponse {
	return MovementResponse{
		ID:         m.ID,
		ItemID:     m.ItemID,
		Quantity:   m.Quantity,
		Type:       string(m.Type),
		OccurredAt: m.OccurredAt,
		Notes:      m.Notes,
		CreatedBy:  m.CreatedBy,
	}
}

// StockOperationResult pairs the updated projection with the ledger entry the
// operation appended. Movement is null when an adjustment was a no-op.
type StockOperationResult struct {
	Item     ItemResponse      `json:"item"`
	Movement *MovementResponse `json:"movement,omitempty"`
}

type MovementsSearchResult struct {
	Data []MovementResponse `json:"data"`
	Meta Meta               `json:"meta,omitempty"`
}

type DeleteItemResult struct {
	MovementsDeleted int `json:"movements_deleted"`
}

type FinancialsRequest struct {
	Price        *decimal.Decimal `json:"price,omitempty"`
	Cost         *decimal.Decimal `json:"cost,omitempty"`
	Margin       *decimal.Decimal `json:"margin,omitempty"`
	ChangeReason *string          `json:"change_reason,omitempty"`
	Actor        *string          `json:"actor,omitempty"`
}

type PriceHistoryResponse struct {
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

func toPriceHistoryResponse(h models.PriceHistory) PriceHistoryResponse {
	return PriceHistoryResponse{
		ID:           h.ID,
		ItemID:       h.ItemID,
		OldPrice:     h.OldPrice,
		NewPrice:     h.NewPrice,
		OldCost:      h.OldCost,
		NewCost:      h.NewCost,
		OldMargin:    h.OldMargin,
		NewMargin:    h.NewMargin,
		ChangeReason: h.ChangeReason,
		UserID:       h.UserID,
		CreatedAt:    h.CreatedAt,
	}
}

type PriceHistorySearchResult struct {
	Data []PriceHistoryResponse `json:"data"`
	Meta Meta                   `json:"meta,omitempty"`
}

type PricePreviewResult struct {
	Cost   decimal.Decimal `json:"cost"`
	Margin decimal.Decimal `json:"margin"`
	Price  decimal.Decimal `json:"price"`
}
