package repo

import (
	"context"

	"github.com/ledgerline/inventory-core/internal/models"
)

// FinancialMutation is applied to an item row while the row is locked. It
// receives the persisted item and returns the updated item plus the history
// row to append, or a nil history row when no financial field actually
// changed.
type FinancialMutation func(current models.InventoryItem) (models.InventoryItem, *models.PriceHistory, error)

// ItemRepository is the store for the current-state projection. Every
// mutating operation is one atomic unit of work: the item update and the
// ledger append either both persist or neither does.
type ItemRepository interface {
	// Create inserts the item and, when initial is non-nil, its INITIAL
	// movement in the same transaction.
	Create(ctx context.Context, item models.InventoryItem, initial *models.StockMovement) (models.InventoryItem, error)

	GetByID(ctx context.Context, id int) (models.InventoryItem, error)
	GetAll(ctx context.Context) ([]models.InventoryItem, error)

	// ApplyDelta shifts the item's quantity by delta and appends the movement,
	// guarded so the quantity can never go negative. Fails with
	// ErrItemNotFound or *InsufficientStockError without mutating anything.
	// The movement's Quantity must already be |delta|.
	ApplyDelta(ctx context.Context, id, delta int, movement models.StockMovement) (models.InventoryItem, error)

	// SetQuantity sets the item's quantity to newQuantity under a row lock and
	// appends the movement with its Quantity filled in as |new - old|. A
	// zero-delta call writes nothing and returns a nil movement.
	SetQuantity(ctx context.Context, id, newQuantity int, movement models.StockMovement) (models.InventoryItem, *models.StockMovement, error)

	// UpdateFinancials applies mutate to the row-locked item; a non-nil
	// history row returned by mutate is appended in the same transaction.
	UpdateFinancials(ctx context.Context, id int, mutate FinancialMutation) (models.InventoryItem, *models.PriceHistory, error)

	// DeleteCascade removes the item together with its movements and price
	// history, returning the number of movements removed.
	DeleteCascade(ctx context.Context, id int) (int, error)
}
