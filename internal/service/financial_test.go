package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ledgerline/inventory-core/internal/models"
	"github.com/ledgerline/inventory-core/internal/repo"
	"github.com/ledgerline/inventory-core/internal/service"
)

type financialFixture struct {
	stock   *service.StockService
	fin     *service.FinancialService
	users   *repo.InMemoryUserRepository
	history *repo.InMemoryPriceHistoryRepository
}

func newFinancialFixture() financialFixture {
	items := repo.NewInMemoryItemRepository()
	movements := repo.NewInMemoryMovementRepository(items)
	history := repo.NewInMemoryPriceHistoryRepository(items)
	users := repo.NewInMemoryUserRepository()
	identity := service.NewIdentityResolver(users, zap.NewNop())
	return financialFixture{
		stock:   service.NewStockService(items, movements, identity, nil, zap.NewNop()),
		fin:     service.NewFinancialService(items, history, identity, zap.NewNop()),
		users:   users,
		history: history,
	}
}

// cost 50, price 100, computed margin 100
func (f financialFixture) createItem(t *testing.T) models.InventoryItem {
	t.Helper()
	item, _, err := f.stock.CreateItem(context.Background(), service.NewItem{
		SKU:   "WID-001",
		Name:  "Widget",
		Cost:  decimal.NewFromInt(50),
		Price: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("creating item: %v", err)
	}
	return item
}

func (f financialFixture) historyOf(t *testing.T, itemID int) []models.PriceHistory {
	t.Helper()
	entries, _, err := f.fin.PriceHistory(context.Background(), itemID, repo.PriceHistoryFilter{})
	if err != nil {
		t.Fatalf("reading price history: %v", err)
	}
	return entries
}

func TestUpdateFinancialsPriceChange(t *testing.T) {
	f := newFinancialFixture()
	item := f.createItem(t)

	newPrice := decimal.NewFromInt(120)
	updated, history, err := f.fin.UpdateFinancials(context.Background(), item.ID, service.FinancialChange{
		Price: &newPrice,
	})
	if err != nil {
		t.Fatalf("updating financials: %v", err)
	}

	if !updated.Price.Equal(decimal.NewFromInt(120)) {
		t.Errorf("price = %s, want 120", updated.Price)
	}
	if !updated.Cost.Equal(decimal.NewFromInt(50)) {
		t.Errorf("cost must be unchanged, got %s", updated.Cost)
	}
	// margin recomputed from the canonical formula: (120-50)/50*100
	if !updated.Margin.Equal(decimal.NewFromInt(140)) {
		t.Errorf("margin = %s, want 140", updated.Margin)
	}

	if history == nil {
		t.Fatal("expected a price history row")
	}
	if !history.OldPrice.Equal(decimal.NewFromInt(100)) || !history.NewPrice.Equal(decimal.NewFromInt(120)) {
		t.Errorf("history price = %s -> %s, want 100 -> 120", history.OldPrice, history.NewPrice)
	}
	if !history.OldMargin.Equal(decimal.NewFromInt(100)) || !history.NewMargin.Equal(decimal.NewFromInt(140)) {
		t.Errorf("history margin = %s -> %s, want 100 -> 140", history.OldMargin, history.NewMargin)
	}
	if history.ChangeReason == nil || *history.ChangeReason != service.DefaultChangeReason {
		t.Errorf("missing reason should default to %q", service.DefaultChangeReason)
	}

	entries := f.historyOf(t, item.ID)
	if len(entries) != 1 {
		t.Fatalf("expected exactly one history row, got %d", len(entries))
	}
}

func TestUpdateFinancialsIdenticalValuesWriteNoHistory(t *testing.T) {
	f := newFinancialFixture()
	item := f.createItem(t)

	samePrice := decimal.NewFromInt(100)
	sameCost := decimal.NewFromInt(50)
	updated, history, err := f.fin.UpdateFinancials(context.Background(), item.ID, service.FinancialChange{
		Price: &samePrice,
		Cost:  &sameCost,
	})
	if err != nil {
		t.Fatalf("updating financials: %v", err)
	}

	if history != nil {
		t.Error("identical values must not create a history row")
	}
	if len(f.historyOf(t, item.ID)) != 0 {
		t.Error("history must stay empty")
	}
	// The row is still touched: lastUpdated moves forward.
	if updated.LastUpdated.Before(item.LastUpdated) {
		t.Error("lastUpdated must not go backwards")
	}
}

func TestUpdateFinancialsNoFieldsIsNoOp(t *testing.T) {
	f := newFinancialFixture()
	item := f.createItem(t)

	updated, history, err := f.fin.UpdateFinancials(context.Background(), item.ID, service.FinancialChange{})
	if err != nil {
		t.Fatalf("no-op update must succeed, got %v", err)
	}
	if history != nil {
		t.Error("no-op update must not create a history row")
	}
	if !updated.LastUpdated.Equal(item.LastUpdated) {
		t.Error("no-op update must not touch the item row")
	}
}

func TestUpdateFinancialsMarginOverride(t *testing.T) {
	f := newFinancialFixture()
	item := f.createItem(t)

	override := decimal.NewFromInt(25)
	updated, history, err := f.fin.UpdateFinancials(context.Background(), item.ID, service.FinancialChange{
		Margin: &override,
	})
	if err != nil {
		t.Fatalf("updating financials: %v", err)
	}

	// The override is persisted as given, not recomputed.
	if !updated.Margin.Equal(override) {
		t.Errorf("margin = %s, want 25", updated.Margin)
	}
	if history == nil {
		t.Fatal("expected a history row for the margin change")
	}
	if !history.OldMargin.Equal(decimal.NewFromInt(100)) || !history.NewMargin.Equal(override) {
		t.Errorf("history margin = %s -> %s, want 100 -> 25", history.OldMargin, history.NewMargin)
	}
}

func TestUpdateFinancialsCostChangeRecomputesMargin(t *testing.T) {
	f := newFinancialFixture()
	item := f.createItem(t)

	newCost := decimal.NewFromInt(80)
	updated, _, err := f.fin.UpdateFinancials(context.Background(), item.ID, service.FinancialChange{
		Cost: &newCost,
	})
	if err != nil {
		t.Fatalf("updating financials: %v", err)
	}
	// (100-80)/80*100 = 25
	if !updated.Margin.Equal(decimal.NewFromInt(25)) {
		t.Errorf("margin = %s, want 25", updated.Margin)
	}
}

func TestUpdateFinancialsValidation(t *testing.T) {
	f := newFinancialFixture()
	item := f.createItem(t)

	negative := decimal.NewFromInt(-1)
	for _, change := range []service.FinancialChange{
		{Price: &negative},
		{Cost: &negative},
		{Margin: &negative},
	} {
		_, _, err := f.fin.UpdateFinancials(context.Background(), item.ID, change)
		var ve *service.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("expected ValidationError for %+v, got %v", change, err)
		}
	}

	if len(f.historyOf(t, item.ID)) != 0 {
		t.Error("rejected updates must not create history rows")
	}
}

func TestUpdateFinancialsMissingItem(t *testing.T) {
	f := newFinancialFixture()

	price := decimal.NewFromInt(10)
	_, _, err := f.fin.UpdateFinancials(context.Background(), 42, service.FinancialChange{Price: &price})
	if !errors.Is(err, repo.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestUpdateFinancialsActorAttribution(t *testing.T) {
	f := newFinancialFixture()
	item := f.createItem(t)

	actor := "jdoe"
	price := decimal.NewFromInt(110)
	_, history, err := f.fin.UpdateFinancials(context.Background(), item.ID, service.FinancialChange{
		Price: &price,
		Actor: &actor,
	})
	if err != nil {
		t.Fatalf("updating financials: %v", err)
	}

	u, err := f.users.GetByUsername(context.Background(), "jdoe")
	if err != nil {
		t.Fatalf("actor should have been created: %v", err)
	}
	if history.UserID == nil || *history.UserID != u.ID {
		t.Errorf("history attributed to %v, want user %d", history.UserID, u.ID)
	}
}

func TestUpdateFinancialsFallsBackToSystemActor(t *testing.T) {
	f := newFinancialFixture()
	item := f.createItem(t)

	price := decimal.NewFromInt(110)
	_, history, err := f.fin.UpdateFinancials(context.Background(), item.ID, service.FinancialChange{
		Price: &price,
	})
	if err != nil {
		t.Fatalf("updating financials: %v", err)
	}

	system, err := f.users.GetByUsername(context.Background(), models.SystemUsername)
	if err != nil {
		t.Fatalf("system user should have been created on first use: %v", err)
	}
	if history.UserID == nil || *history.UserID != system.ID {
		t.Errorf("history attributed to %v, want system user %d", history.UserID, system.ID)
	}

	// A second resolution reuses the same row.
	cost := decimal.NewFromInt(60)
	if _, _, err := f.fin.UpdateFinancials(context.Background(), item.ID, service.FinancialChange{Cost: &cost}); err != nil {
		t.Fatalf("second update: %v", err)
	}
	again, err := f.users.GetByUsername(context.Background(), models.SystemUsername)
	if err != nil || again.ID != system.ID {
		t.Errorf("system user must be a singleton, got %v (%v)", again.ID, err)
	}
}

func TestPricePreview(t *testing.T) {
	f := newFinancialFixture()

	got := f.fin.PricePreview(decimal.NewFromInt(50), decimal.NewFromInt(100))
	if !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("preview = %s, want 100", got)
	}
}

func TestPriceHistoryMissingItem(t *testing.T) {
	f := newFinancialFixture()

	_, _, err := f.fin.PriceHistory(context.Background(), 42, repo.PriceHistoryFilter{})
	if !errors.Is(err, repo.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestDeleteItemCascadesPriceHistory(t *testing.T) {
	f := newFinancialFixture()
	item := f.createItem(t)

	price := decimal.NewFromInt(120)
	if _, _, err := f.fin.UpdateFinancials(context.Background(), item.ID, service.FinancialChange{Price: &price}); err != nil {
		t.Fatalf("updating financials: %v", err)
	}

	if _, err := f.stock.DeleteItem(context.Background(), item.ID); err != nil {
		t.Fatalf("deleting item: %v", err)
	}

	_, _, err := f.fin.PriceHistory(context.Background(), item.ID, repo.PriceHistoryFilter{})
	if !errors.Is(err, repo.ErrItemNotFound) {
		t.Errorf("history of a deleted item must be gone with it, got %v", err)
	}
}
