package repo

import (
	"context"

	"github.com/ledgerline/inventory-core/internal/models"
)

// MovementRepository reads the append-only movement ledger. Writes happen
// only through ItemRepository so a ledger append can never be observed
// without its matching quantity update.
type MovementRepository interface {
	ByItemID(ctx context.Context, itemID int, mf MovementFilter) ([]models.StockMovement, int, error)
}
