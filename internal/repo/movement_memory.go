package repo

import (
	"context"

	"github.com/ledgerline/inventory-core/internal/models"
)

// InMemoryMovementRepository reads the ledger held by an
// InMemoryItemRepository, the same way the Postgres pair shares one database.
type InMemoryMovementRepository struct {
	items *InMemoryItemRepository
}

func NewInMemoryMovementRepository(items *InMemoryItemRepository) *InMemoryMovementRepository {
	return &InMemoryMovementRepository{items: items}
}

func (r *InMemoryMovementRepository) ByItemID(ctx context.Context, itemID int, mf MovementFilter) ([]models.StockMovement, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	filtered, total := r.items.movementsFor(itemID, mf)

	if mf.Limit != nil && *mf.Limit == 0 {
		return []models.StockMovement{}, total, nil
	}

	start := 0
	if mf.Offset != nil {
		start = clamp(*mf.Offset, 0, len(filtered))
	}
	end := len(filtered)
	if mf.Limit != nil && *mf.Limit > 0 {
		end = clamp(start+*mf.Limit, start, len(filtered))
	}

	return filtered[start:end], total, nil
}
