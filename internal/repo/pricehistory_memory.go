package repo

import (
	"context"

	"github.com/ledgerline/inventory-core/internal/models"
)

type InMemoryPriceHistoryRepository struct {
	items *InMemoryItemRepository
}

func NewInMemoryPriceHistoryRepository(items *InMemoryItemRepository) *InMemoryPriceHistoryRepository {
	return &InMemoryPriceHistoryRepository{items: items}
}

func (r *InMemoryPriceHistoryRepository) ByItemID(ctx context.Context, itemID int, f PriceHistoryFilter) ([]models.PriceHistory, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	filtered := r.items.historyFor(itemID)
	total := len(filtered)

	start := 0
	if f.Offset != nil {
		start = clamp(*f.Offset, 0, len(filtered))
	}
	end := len(filtered)
	if f.Limit != nil && *f.Limit > 0 {
		end = clamp(start+*f.Limit, start, len(filtered))
	}

	return filtered[start:end], total, nil
}
