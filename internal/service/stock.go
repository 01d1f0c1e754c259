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

// Alerter receives best-effort low-stock notifications after a successful
// stock mutation. Implementations must not block the request path.
type Alerter interface {
	LowStock(ctx context.Context, item models.InventoryItem)
}

// StockService orchestrates the movement ledger and the item projection:
// every mutation appends exactly one ledger entry and updates the quantity in
// the same unit of work, so the projection can never drift from the log.
type StockService struct {
	items     repo.ItemRepository
	movements repo.MovementRepository
	identity  *IdentityResolver
	alerts    Alerter
	log       *zap.Logger
}

func NewStockService(items repo.ItemRepository, movements repo.MovementRepository, identity *IdentityResolver, alerts Alerter, log *zap.Logger) *StockService {
	return &StockService{
		items:     items,
		movements: movements,
		identity:  identity,
		alerts:    alerts,
		log:       log,
	}
}

// NewItem is the validated input for item creation.
type NewItem struct {
	SKU           string
	Name          string
	CategoryID    *int
	Location      *string
	Quantity      int
	MinStockLevel int
	Cost          decimal.Decimal
	Price         decimal.Decimal
	// Margin overrides the canonical computation when provided; it is
	// persisted as given.
	Margin *decimal.Decimal
	Actor  *string
}

// CreateItem inserts the item and, for a positive starting quantity, the
// INITIAL ledger entry that accounts for it.
func (s *StockService) CreateItem(ctx context.Context, input NewItem) (models.InventoryItem, *models.StockMovement, error) {
	if input.SKU == "" {
		return models.InventoryItem{}, nil, &ValidationError{Field: "sku", Reason: "must not be empty"}
	}
	if input.Name == "" {
		return models.InventoryItem{}, nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if input.Quantity < 0 {
		return models.InventoryItem{}, nil, &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	if input.MinStockLevel < 0 {
		return models.InventoryItem{}, nil, &ValidationError{Field: "min_stock_level", Reason: "must not be negative"}
	}
	if input.Cost.Sign() < 0 {
		return models.InventoryItem{}, nil, &ValidationError{Field: "cost", Reason: "must not be negative"}
	}
	if input.Price.Sign() < 0 {
		return models.InventoryItem{}, nil, &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if input.Margin != nil && input.Margin.Sign() < 0 {
		return models.InventoryItem{}, nil, &ValidationError{Field: "margin", Reason: "must not be negative"}
	}

	createdBy, err := s.resolveActor(ctx, input.Actor)
	if err != nil {
		return models.InventoryItem{}, nil, err
	}

	margin := pricing.MarginFromCostPrice(input.Cost, input.Price)
	if input.Margin != nil {
		margin = *input.Margin
	}

	now := time.Now().UTC()
	item := models.InventoryItem{
		SKU:           input.SKU,
		Name:          input.Name,
		CategoryID:    input.CategoryID,
		Location:      input.Location,
		Active:        true,
		Quantity:      input.Quantity,
		MinStockLevel: input.MinStockLevel,
		Cost:          input.Cost,
		Price:         input.Price,
		Margin:        margin,
		CreatedAt:     now,
		LastUpdated:   now,
	}

	var initial *models.StockMovement
	if input.Quantity > 0 {
		initial = &models.StockMovement{
			ID:         uuid.New(),
			Quantity:   input.Quantity,
			Type:       models.MovementInitial,
			OccurredAt: now,
			CreatedBy:  createdBy,
		}
	}

	created, err := s.items.Create(ctx, item, initial)
	if err != nil {
		return models.InventoryItem{}, nil, err
	}
	if initial != nil {
		initial.ItemID = created.ID
	}

	s.log.Info("item created",
		zap.Int("item_id", created.ID),
		zap.String("sku", created.SKU),
		zap.Int("quantity", created.Quantity))
	return created, initial, nil
}

// AddStock increases the item's quantity and appends a STOCK_IN entry of the
// same magnitude.
func (s *StockService) AddStock(ctx context.Context, itemID, quantity int, notes, actor *string) (models.StockMovement, models.InventoryItem, error) {
	if quantity <= 0 {
		return models.StockMovement{}, models.InventoryItem{}, &ValidationError{Field: "quantity", Reason: "must be positive"}
	}

	movement, item, err := s.applyDelta(ctx, itemID, quantity, models.MovementStockIn, notes, actor)
	if err != nil {
		return models.StockMovement{}, models.InventoryItem{}, err
	}

	s.log.Info("stock added",
		zap.Int("item_id", itemID),
		zap.Int("quantity", quantity),
		zap.Int("new_quantity", item.Quantity))
	return movement, item, nil
}

// RemoveStock decreases the item's quantity and appends a STOCK_OUT entry.
// When less stock is available than requested, nothing is mutated and the
// error reports both amounts.
func (s *StockService) RemoveStock(ctx context.Context, itemID, quantity int, notes, actor *string) (models.StockMovement, models.InventoryItem, error) {
	if quantity <= 0 {
		return models.StockMovement{}, models.InventoryItem{}, &ValidationError{Field: "quantity", Reason: "must be positive"}
	}

	movement, item, err := s.applyDelta(ctx, itemID, -quantity, models.MovementStockOut, notes, actor)
	if err != nil {
		return models.StockMovement{}, models.InventoryItem{}, err
	}

	s.log.Info("stock removed",
		zap.Int("item_id", itemID),
		zap.Int("quantity", quantity),
		zap.Int("new_quantity", item.Quantity))
	return movement, item, nil
}

func (s *StockService) applyDelta(ctx context.Context, itemID, delta int, mt models.MovementType, notes, actor *string) (models.StockMovement, models.InventoryItem, error) {
	createdBy, err := s.resolveActor(ctx, actor)
	if err != nil {
		return models.StockMovement{}, models.InventoryItem{}, err
	}

	magnitude := delta
	if magnitude < 0 {
		magnitude = -magnitude
	}
	movement := models.StockMovement{
		ID:         uuid.New(),
		ItemID:     itemID,
		Quantity:   magnitude,
		Type:       mt,
		OccurredAt: time.Now().UTC(),
		Notes:      notes,
		CreatedBy:  createdBy,
	}

	item, err := s.items.ApplyDelta(ctx, itemID, delta, movement)
	if err != nil {
		return models.StockMovement{}, models.InventoryItem{}, err
	}

	s.notifyLowStock(ctx, item)
	return movement, item, nil
}

// AdjustStock sets the quantity to newQuantity and appends an ADJUSTMENT
// entry of magnitude |delta|. A call that matches the current quantity writes
// nothing and returns a nil movement.
func (s *StockService) AdjustStock(ctx context.Context, itemID, newQuantity int, notes, actor *string) (*models.StockMovement, models.InventoryItem, error) {
	if newQuantity < 0 {
		return nil, models.InventoryItem{}, &ValidationError{Field: "new_quantity", Reason: "must not be negative"}
	}

	createdBy, err := s.resolveActor(ctx, actor)
	if err != nil {
		return nil, models.InventoryItem{}, err
	}

	movement := models.StockMovement{
		ID:         uuid.New(),
		ItemID:     itemID,
		Type:       models.MovementAdjustment,
		OccurredAt: time.Now().UTC(),
		Notes:      notes,
		CreatedBy:  createdBy,
	}

	item, applied, err := s.items.SetQuantity(ctx, itemID, newQuantity, movement)
	if err != nil {
		return nil, models.InventoryItem{}, err
	}

	if applied == nil {
		s.log.Debug("adjustment matched current quantity, nothing recorded", zap.Int("item_id", itemID))
		return nil, item, nil
	}

	s.notifyLowStock(ctx, item)
	s.log.Info("stock adjusted",
		zap.Int("item_id", itemID),
		zap.Int("new_quantity", newQuantity),
		zap.Int("magnitude", applied.Quantity))
	return applied, item, nil
}

// DeleteItem removes the item and its entire ledger, returning the number of
// movements deleted.
func (s *StockService) DeleteItem(ctx context.Context, itemID int) (int, error) {
	removed, err := s.items.DeleteCascade(ctx, itemID)
	if err != nil {
		return 0, err
	}
	s.log.Info("item deleted", zap.Int("item_id", itemID), zap.Int("movements_deleted", removed))
	return removed, nil
}

// Item returns the current-state projection for one item.
func (s *StockService) Item(ctx context.Context, itemID int) (models.InventoryItem, error) {
	return s.items.GetByID(ctx, itemID)
}

// Items returns all current-state projections.
func (s *StockService) Items(ctx context.Context) ([]models.InventoryItem, error) {
	return s.items.GetAll(ctx)
}

// Movements returns the item's ledger entries, newest first.
func (s *StockService) Movements(ctx context.Context, itemID int, mf repo.MovementFilter) ([]models.StockMovement, int, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, 0, err
	}
	return s.movements.ByItemID(ctx, itemID, mf)
}

func (s *StockService) resolveActor(ctx context.Context, actor *string) (*int, error) {
	if actor == nil {
		return nil, nil
	}
	id, err := s.identity.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (s *StockService) notifyLowStock(ctx context.Context, item models.InventoryItem) {
	if !item.LowStock() {
		return
	}
	s.log.Warn("item below minimum stock level",
		zap.Int("item_id", item.ID),
		zap.String("sku", item.SKU),
		zap.Int("quantity", item.Quantity),
		zap.Int("min_stock_level", item.MinStockLevel))
	if s.alerts != nil {
		s.alerts.LowStock(ctx, item)
	}
}
