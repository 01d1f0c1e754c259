package repo

import (
	"context"
	"sync"

	"github.com/ledgerline/inventory-core/internal/models"
)

// InMemoryItemRepository holds items together with their movements and price
// history so that the composite operations stay atomic: everything mutates
// under one lock, mirroring the transactional Postgres implementation.
type InMemoryItemRepository struct {
	mu       sync.Mutex
	items    map[int]models.InventoryItem
	moves    []models.StockMovement
	history  []models.PriceHistory
	nextID   int
	skuIndex map[string]int
}

func NewInMemoryItemRepository() *InMemoryItemRepository {
	return &InMemoryItemRepository{
		items:    map[int]models.InventoryItem{},
		skuIndex: map[string]int{},
		nextID:   1,
	}
}

// Clear resets the repository to empty. Test helper.
func (r *InMemoryItemRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = map[int]models.InventoryItem{}
	r.skuIndex = map[string]int{}
	r.moves = nil
	r.history = nil
	r.nextID = 1
}

func (r *InMemoryItemRepository) Create(ctx context.Context, item models.InventoryItem, initial *models.StockMovement) (models.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return models.InventoryItem{}, err
	}

	if _, exists := r.skuIndex[item.SKU]; exists {
		return models.InventoryItem{}, ErrDuplicateSKU
	}
	item.ID = r.nextID
	r.nextID++
	r.items[item.ID] = item
	r.skuIndex[item.SKU] = item.ID

	if initial != nil {
		initial.ItemID = item.ID
		r.moves = append(r.moves, *initial)
	}
	return item, nil
}

func (r *InMemoryItemRepository) GetByID(ctx context.Context, id int) (models.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return models.InventoryItem{}, err
	}

	it, ok := r.items[id]
	if !ok {
		return models.InventoryItem{}, ErrItemNotFound
	}
	return it, nil
}

func (r *InMemoryItemRepository) GetAll(ctx context.Context) ([]models.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := make([]models.InventoryItem, 0, len(r.items))
	for id := 1; id < r.nextID; id++ {
		if it, ok := r.items[id]; ok {
			items = append(items, it)
		}
	}
	return items, nil
}

func (r *InMemoryItemRepository) ApplyDelta(ctx context.Context, id, delta int, movement models.StockMovement) (models.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return models.InventoryItem{}, err
	}

	it, ok := r.items[id]
	if !ok {
		return models.InventoryItem{}, ErrItemNotFound
	}
	if it.Quantity+delta < 0 {
		return models.InventoryItem{}, &InsufficientStockError{Requested: -delta, Available: it.Quantity}
	}

	it.Quantity += delta
	it.LastUpdated = movement.OccurredAt
	r.items[id] = it
	r.moves = append(r.moves, movement)
	return it, nil
}

func (r *InMemoryItemRepository) SetQuantity(ctx context.Context, id, newQuantity int, movement models.StockMovement) (models.InventoryItem, *models.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return models.InventoryItem{}, nil, err
	}

	it, ok := r.items[id]
	if !ok {
		return models.InventoryItem{}, nil, ErrItemNotFound
	}

	delta := newQuantity - it.Quantity
	if delta == 0 {
		return it, nil, nil
	}
	if delta < 0 {
		delta = -delta
	}

	it.Quantity = newQuantity
	it.LastUpdated = movement.OccurredAt
	r.items[id] = it

	movement.Quantity = delta
	r.moves = append(r.moves, movement)
	return it, &movement, nil
}

func (r *InMemoryItemRepository) UpdateFinancials(ctx context.Context, id int, mutate FinancialMutation) (models.InventoryItem, *models.PriceHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return models.InventoryItem{}, nil, err
	}

	it, ok := r.items[id]
	if !ok {
		return models.InventoryItem{}, nil, ErrItemNotFound
	}

	next, h, err := mutate(it)
	if err != nil {
		return models.InventoryItem{}, nil, err
	}
	r.items[id] = next
	if h != nil {
		r.history = append(r.history, *h)
	}
	return next, h, nil
}

func (r *InMemoryItemRepository) DeleteCascade(ctx context.Context, id int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	it, ok := r.items[id]
	if !ok {
		return 0, ErrItemNotFound
	}

	var kept []models.StockMovement
	removed := 0
	for _, m := range r.moves {
		if m.ItemID == id {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	r.moves = kept

	var keptHistory []models.PriceHistory
	for _, h := range r.history {
		if h.ItemID != id {
			keptHistory = append(keptHistory, h)
		}
	}
	r.history = keptHistory

	delete(r.items, id)
	delete(r.skuIndex, it.SKU)
	return removed, nil
}

// movementsFor returns the item's ledger entries newest first. Callers hold
// no lock; this takes it.
func (r *InMemoryItemRepository) movementsFor(itemID int, mf MovementFilter) ([]models.StockMovement, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filtered []models.StockMovement
	for i := len(r.moves) - 1; i >= 0; i-- {
		m := r.moves[i]
		if m.ItemID != itemID {
			continue
		}
		if mf.Since != nil && m.OccurredAt.Before(*mf.Since) {
			continue
		}
		if mf.Until != nil && m.OccurredAt.After(*mf.Until) {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered, len(filtered)
}

func (r *InMemoryItemRepository) historyFor(itemID int) []models.PriceHistory {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filtered []models.PriceHistory
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].ItemID == itemID {
			filtered = append(filtered, r.history[i])
		}
	}
	return filtered
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
