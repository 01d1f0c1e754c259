package repo

import (
	"context"

	"github.com/ledgerline/inventory-core/internal/models"
)

// PriceHistoryRepository reads the append-only financial audit trail. Rows
// are written only inside ItemRepository.UpdateFinancials transactions.
type PriceHistoryRepository interface {
	ByItemID(ctx context.Context, itemID int, f PriceHistoryFilter) ([]models.PriceHistory, int, error)
}
