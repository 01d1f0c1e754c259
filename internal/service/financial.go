package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ledgerline/inventory-core/internal/models"
	"github.com/ledgerline/inventory-core/internal/pricing"
	"github.com/ledgerline/inventory-core/internal/repo"
)

// DefaultChangeReason is attributed to financial changes whose caller gave no
// explicit reason.
const DefaultChangeReason = "manual update"

// FinancialChange carries the optional field updates for UpdateFinancials.
// A nil field is left unchanged on the item.
type FinancialChange struct {
	Price        *decimal.Decimal
	Cost         *decimal.Decimal
	Margin       *decimal.Decimal
	ChangeReason *string
	Actor        *string
}

func (c FinancialChange) empty() bool {
	return c.Price == nil && c.Cost == nil && c.Margin == nil
}

// FinancialService orchestrates updates to an item's price, cost and margin
// together with the price-history audit trail: a history row is appended in
// the same transaction if and only if at least one provided field differs
// from the persisted value.
type FinancialService struct {
	items    repo.ItemRepository
	history  repo.PriceHistoryRepository
	identity *IdentityResolver
	log      *zap.Logger
}

func NewFinancialService(items repo.ItemRepository, history repo.PriceHistoryRepository, identity *IdentityResolver, log *zap.Logger) *FinancialService {
	return &FinancialService{
		items:    items,
		history:  history,
		identity: identity,
		log:      log,
	}
}

func (s *FinancialService) UpdateFinancials(ctx context.Context, itemID int, change FinancialChange) (models.InventoryItem, *models.PriceHistory, error) {
	if change.Price != nil && change.Price.Sign() < 0 {
		return models.InventoryItem{}, nil, &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if change.Cost != nil && change.Cost.Sign() < 0 {
		return models.InventoryItem{}, nil, &ValidationError{Field: "cost", Reason: "must not be negative"}
	}
	if change.Margin != nil && change.Margin.Sign() < 0 {
		return models.InventoryItem{}, nil, &ValidationError{Field: "margin", Reason: "must not be negative"}
	}

	// Nothing to update is a successful no-op, not an error; the item row is
	// left untouched.
	if change.empty() {
		item, err := s.items.GetByID(ctx, itemID)
		if err != nil {
			return models.InventoryItem{}, nil, err
		}
		s.log.Debug("financial update with no fields, nothing to do", zap.Int("item_id", itemID))
		return item, nil, nil
	}

	// Actor resolution is a prerequisite step; doing it inside the financial
	// transaction would widen the lock scope for no reason.
	userID, err := s.identity.Resolve(ctx, change.Actor)
	if err != nil {
		return models.InventoryItem{}, nil, err
	}

	now := time.Now().UTC()
	item, history, err := s.items.UpdateFinancials(ctx, itemID, func(current models.InventoryItem) (models.InventoryItem, *models.PriceHistory, error) {
		updated := current
		if change.Price != nil {
			updated.Price = *change.Price
		}
		if change.Cost != nil {
			updated.Cost = *change.Cost
		}
		switch {
		case change.Margin != nil:
			// Caller-supplied override, persisted as given.
			updated.Margin = *change.Margin
		default:
			updated.Margin = pricing.MarginFromCostPrice(updated.Cost, updated.Price)
		}
		updated.LastUpdated = now

		hasChange := (change.Price != nil && !change.Price.Equal(current.Price)) ||
			(change.Cost != nil && !change.Cost.Equal(current.Cost)) ||
			(change.Margin != nil && !change.Margin.Equal(current.Margin))
		if !hasChange {
			return updated, nil, nil
		}

		reason := DefaultChangeReason
		if change.ChangeReason != nil && *change.ChangeReason != "" {
			reason = *change.ChangeReason
		}

		h := &models.PriceHistory{
			ID:           uuid.New(),
			ItemID:       current.ID,
			OldPrice:     ptr(current.Price),
			NewPrice:     ptr(updated.Price),
			OldCost:      ptr(current.Cost),
			NewCost:      ptr(updated.Cost),
			OldMargin:    ptr(current.Margin),
			NewMargin:    ptr(updated.Margin),
			ChangeReason: &reason,
			UserID:       &userID,
			CreatedAt:    now,
		}
		return updated, h, nil
	})
	if err != nil {
		return models.InventoryItem{}, nil, err
	}

	if history != nil {
		s.log.Info("financials updated",
			zap.Int("item_id", itemID),
			zap.Int("user_id", userID),
			zap.String("price", item.Price.String()),
			zap.String("cost", item.Cost.String()),
			zap.String("margin", item.Margin.String()))
	}
	return item, history, nil
}

// PriceHistory returns the item's financial audit trail, newest first.
func (s *FinancialService) PriceHistory(ctx context.Context, itemID int, f repo.PriceHistoryFilter) ([]models.PriceHistory, int, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, 0, err
	}
	return s.history.ByItemID(ctx, itemID, f)
}

// PricePreview computes the selling price a cost and margin would produce,
// without touching any item. It replaces the margin math previously
// duplicated in UI helpers.
func (s *FinancialService) PricePreview(cost, margin decimal.Decimal) decimal.Decimal {
	return pricing.PriceFromCostMargin(cost, margin)
}

func ptr[T any](v T) *T {
	return &v
}
