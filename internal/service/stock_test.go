package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ledgerline/inventory-core/internal/models"
	"github.com/ledgerline/inventory-core/internal/repo"
	"github.com/ledgerline/inventory-core/internal/service"
)

func newStockFixture() (*service.StockService, *repo.InMemoryItemRepository) {
	items := repo.NewInMemoryItemRepository()
	movements := repo.NewInMemoryMovementRepository(items)
	users := repo.NewInMemoryUserRepository()
	identity := service.NewIdentityResolver(users, zap.NewNop())
	svc := service.NewStockService(items, movements, identity, nil, zap.NewNop())
	return svc, items
}

func createItem(t *testing.T, svc *service.StockService, quantity int) models.InventoryItem {
	t.Helper()
	item, _, err := svc.CreateItem(context.Background(), service.NewItem{
		SKU:           "WID-001",
		Name:          "Widget",
		Quantity:      quantity,
		MinStockLevel: 2,
		Cost:          decimal.NewFromInt(50),
		Price:         decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("creating item: %v", err)
	}
	return item
}

func movementsOf(t *testing.T, svc *service.StockService, itemID int) []models.StockMovement {
	t.Helper()
	movements, _, err := svc.Movements(context.Background(), itemID, repo.MovementFilter{})
	if err != nil {
		t.Fatalf("reading movements: %v", err)
	}
	return movements
}

func TestCreateItemWritesInitialMovement(t *testing.T) {
	svc, _ := newStockFixture()

	item, initial, err := svc.CreateItem(context.Background(), service.NewItem{
		SKU:      "WID-002",
		Name:     "Widget",
		Quantity: 8,
		Cost:     decimal.NewFromInt(50),
		Price:    decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("creating item: %v", err)
	}

	if initial == nil {
		t.Fatal("expected an INITIAL movement for a positive starting quantity")
	}
	if initial.Type != models.MovementInitial || initial.Quantity != 8 {
		t.Errorf("got movement %s/%d, want INITIAL/8", initial.Type, initial.Quantity)
	}
	if !item.Margin.Equal(decimal.NewFromInt(100)) {
		t.Errorf("margin = %s, want 100 (computed from cost 50, price 100)", item.Margin)
	}

	movements := movementsOf(t, svc, item.ID)
	if len(movements) != 1 {
		t.Fatalf("expected exactly one ledger entry, got %d", len(movements))
	}
}

func TestCreateItemWithZeroQuantityWritesNoMovement(t *testing.T) {
	svc, _ := newStockFixture()

	item, initial, err := svc.CreateItem(context.Background(), service.NewItem{
		SKU:   "WID-003",
		Name:  "Widget",
		Cost:  decimal.NewFromInt(50),
		Price: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("creating item: %v", err)
	}
	if initial != nil {
		t.Error("zero starting quantity must not produce a movement")
	}
	if got := movementsOf(t, svc, item.ID); len(got) != 0 {
		t.Errorf("expected empty ledger, got %d entries", len(got))
	}
}

func TestAddStock(t *testing.T) {
	svc, _ := newStockFixture()
	item := createItem(t, svc, 5)

	notes := "restock"
	movement, updated, err := svc.AddStock(context.Background(), item.ID, 10, &notes, nil)
	if err != nil {
		t.Fatalf("adding stock: %v", err)
	}

	if updated.Quantity != 15 {
		t.Errorf("quantity = %d, want 15", updated.Quantity)
	}
	if movement.Type != models.MovementStockIn || movement.Quantity != 10 {
		t.Errorf("got movement %s/%d, want STOCK_IN/10", movement.Type, movement.Quantity)
	}

	movements := movementsOf(t, svc, item.ID)
	if len(movements) != 2 { // INITIAL + STOCK_IN
		t.Fatalf("expected 2 ledger entries, got %d", len(movements))
	}
}

func TestAddStockRejectsNonPositiveQuantity(t *testing.T) {
	svc, _ := newStockFixture()
	item := createItem(t, svc, 5)

	for _, qty := range []int{0, -3} {
		_, _, err := svc.AddStock(context.Background(), item.ID, qty, nil, nil)
		var ve *service.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("AddStock(%d) should fail validation, got %v", qty, err)
		}
	}

	if got := movementsOf(t, svc, item.ID); len(got) != 1 {
		t.Errorf("rejected operations must not append to the ledger, got %d entries", len(got))
	}
}

func TestRemoveStockInsufficient(t *testing.T) {
	svc, _ := newStockFixture()
	item := createItem(t, svc, 5)

	_, _, err := svc.RemoveStock(context.Background(), item.ID, 7, nil, nil)

	var insufficientErr *repo.InsufficientStockError
	if !errors.As(err, &insufficientErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficientErr.Requested != 7 || insufficientErr.Available != 5 {
		t.Errorf("error reports %d/%d, want requested 7, available 5",
			insufficientErr.Requested, insufficientErr.Available)
	}

	current, err := svc.Item(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("reading item: %v", err)
	}
	if current.Quantity != 5 {
		t.Errorf("failed removal must not change quantity, got %d", current.Quantity)
	}
	if got := movementsOf(t, svc, item.ID); len(got) != 1 {
		t.Errorf("failed removal must not append to the ledger, got %d entries", len(got))
	}
}

func TestRemoveStockToZero(t *testing.T) {
	svc, _ := newStockFixture()
	item := createItem(t, svc, 5)

	movement, updated, err := svc.RemoveStock(context.Background(), item.ID, 5, nil, nil)
	if err != nil {
		t.Fatalf("removing stock: %v", err)
	}
	if updated.Quantity != 0 {
		t.Errorf("quantity = %d, want 0", updated.Quantity)
	}
	if movement.Type != models.MovementStockOut || movement.Quantity != 5 {
		t.Errorf("got movement %s/%d, want STOCK_OUT/5", movement.Type, movement.Quantity)
	}
}

func TestAdjustStockRecordsMagnitude(t *testing.T) {
	svc, _ := newStockFixture()
	item := createItem(t, svc, 10)

	movement, updated, err := svc.AdjustStock(context.Background(), item.ID, 3, nil, nil)
	if err != nil {
		t.Fatalf("adjusting stock: %v", err)
	}

	if updated.Quantity != 3 {
		t.Errorf("quantity = %d, want 3", updated.Quantity)
	}
	if movement == nil {
		t.Fatal("expected an ADJUSTMENT movement")
	}
	if movement.Type != models.MovementAdjustment || movement.Quantity != 7 {
		t.Errorf("got movement %s/%d, want ADJUSTMENT/7", movement.Type, movement.Quantity)
	}
}

func TestAdjustStockUpwards(t *testing.T) {
	svc, _ := newStockFixture()
	item := createItem(t, svc, 3)

	movement, updated, err := svc.AdjustStock(context.Background(), item.ID, 9, nil, nil)
	if err != nil {
		t.Fatalf("adjusting stock: %v", err)
	}
	if updated.Quantity != 9 {
		t.Errorf("quantity = %d, want 9", updated.Quantity)
	}
	if movement.Quantity != 6 {
		t.Errorf("magnitude = %d, want 6", movement.Quantity)
	}
}

func TestAdjustStockNoChange(t *testing.T) {
	svc, _ := newStockFixture()
	item := createItem(t, svc, 10)

	movement, updated, err := svc.AdjustStock(context.Background(), item.ID, 10, nil, nil)
	if err != nil {
		t.Fatalf("zero-delta adjustment must succeed, got %v", err)
	}
	if movement != nil {
		t.Error("zero-delta adjustment must not write a movement")
	}
	if updated.Quantity != 10 {
		t.Errorf("quantity = %d, want 10", updated.Quantity)
	}
	if got := movementsOf(t, svc, item.ID); len(got) != 1 {
		t.Errorf("ledger must be untouched, got %d entries", len(got))
	}
}

func TestAdjustStockRejectsNegativeQuantity(t *testing.T) {
	svc, _ := newStockFixture()
	item := createItem(t, svc, 10)

	_, _, err := svc.AdjustStock(context.Background(), item.ID, -1, nil, nil)
	var ve *service.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestStockOperationsOnMissingItem(t *testing.T) {
	svc, _ := newStockFixture()

	if _, _, err := svc.AddStock(context.Background(), 42, 1, nil, nil); !errors.Is(err, repo.ErrItemNotFound) {
		t.Errorf("AddStock: expected ErrItemNotFound, got %v", err)
	}
	if _, _, err := svc.AdjustStock(context.Background(), 42, 1, nil, nil); !errors.Is(err, repo.ErrItemNotFound) {
		t.Errorf("AdjustStock: expected ErrItemNotFound, got %v", err)
	}
	if _, err := svc.DeleteItem(context.Background(), 42); !errors.Is(err, repo.ErrItemNotFound) {
		t.Errorf("DeleteItem: expected ErrItemNotFound, got %v", err)
	}
}

func TestDeleteItemReportsMovementCount(t *testing.T) {
	svc, _ := newStockFixture()
	item := createItem(t, svc, 5)
	if _, _, err := svc.AddStock(context.Background(), item.ID, 3, nil, nil); err != nil {
		t.Fatalf("adding stock: %v", err)
	}
	if _, _, err := svc.RemoveStock(context.Background(), item.ID, 2, nil, nil); err != nil {
		t.Fatalf("removing stock: %v", err)
	}

	removed, err := svc.DeleteItem(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("deleting item: %v", err)
	}
	if removed != 3 { // INITIAL + STOCK_IN + STOCK_OUT
		t.Errorf("movementsDeleted = %d, want 3", removed)
	}

	if _, err := svc.Item(context.Background(), item.ID); !errors.Is(err, repo.ErrItemNotFound) {
		t.Errorf("item should be gone, got %v", err)
	}
}

// The projection must always equal the signed sum of the ledger: INITIAL and
// STOCK_IN positive, STOCK_OUT negative, ADJUSTMENT signed by the delta at
// the time it was applied.
func TestLedgerReconciliation(t *testing.T) {
	svc, _ := newStockFixture()
	item := createItem(t, svc, 5)
	expected := 5

	steps := []struct {
		op    string
		value int
	}{
		{"add", 10},
		{"remove", 3},
		{"adjust", 20},
		{"remove", 8},
		{"adjust", 2},
		{"add", 1},
	}

	for _, step := range steps {
		var err error
		var updated models.InventoryItem
		switch step.op {
		case "add":
			_, updated, err = svc.AddStock(context.Background(), item.ID, step.value, nil, nil)
			expected += step.value
		case "remove":
			_, updated, err = svc.RemoveStock(context.Background(), item.ID, step.value, nil, nil)
			expected -= step.value
		case "adjust":
			_, updated, err = svc.AdjustStock(context.Background(), item.ID, step.value, nil, nil)
			expected = step.value
		}
		if err != nil {
			t.Fatalf("%s(%d): %v", step.op, step.value, err)
		}
		if updated.Quantity != expected {
			t.Fatalf("after %s(%d): quantity = %d, want %d", step.op, step.value, updated.Quantity, expected)
		}
		if updated.Quantity < 0 {
			t.Fatalf("quantity went negative: %d", updated.Quantity)
		}
	}

	movements := movementsOf(t, svc, item.ID)
	if len(movements) != len(steps)+1 {
		t.Errorf("expected %d ledger entries, got %d", len(steps)+1, len(movements))
	}
	for _, m := range movements {
		if m.Quantity <= 0 {
			t.Errorf("movement %s has non-positive magnitude %d", m.ID, m.Quantity)
		}
	}
}

// N concurrent removals whose total exceeds the available stock must succeed
// exactly often enough to exhaust it; the rest fail with InsufficientStock
// and the quantity is never observed negative.
func TestConcurrentRemovalsNeverOversell(t *testing.T) {
	svc, _ := newStockFixture()
	item, _, err := svc.CreateItem(context.Background(), service.NewItem{
		SKU:      "WID-100",
		Name:     "Widget",
		Quantity: 50,
		Cost:     decimal.NewFromInt(50),
		Price:    decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("creating item: %v", err)
	}

	const workers = 20
	const perWorker = 5 // 20*5 = 100 requested, only 50 available

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.RemoveStock(context.Background(), item.ID, perWorker, nil, nil)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes, failures := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		default:
			var insufficientErr *repo.InsufficientStockError
			if !errors.As(err, &insufficientErr) {
				t.Fatalf("unexpected error: %v", err)
			}
			failures++
		}
	}

	if successes != 10 || failures != 10 {
		t.Errorf("got %d successes and %d failures, want exactly 10 of each", successes, failures)
	}

	final, err := svc.Item(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("reading item: %v", err)
	}
	if final.Quantity != 0 {
		t.Errorf("final quantity = %d, want 0", final.Quantity)
	}

	movements := movementsOf(t, svc, item.ID)
	outs := 0
	for _, m := range movements {
		if m.Type == models.MovementStockOut {
			outs++
		}
	}
	if outs != 10 {
		t.Errorf("ledger holds %d STOCK_OUT entries, want 10", outs)
	}
}

func TestCancelledContextLeavesStateUntouched(t *testing.T) {
	svc, _ := newStockFixture()
	item := createItem(t, svc, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := svc.AddStock(ctx, item.ID, 10, nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	current, err := svc.Item(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("reading item: %v", err)
	}
	if current.Quantity != 5 {
		t.Errorf("quantity = %d, want 5", current.Quantity)
	}
	if got := movementsOf(t, svc, item.ID); len(got) != 1 {
		t.Errorf("cancelled operation must not append to the ledger, got %d entries", len(got))
	}
}

func TestCreateItemDuplicateSKU(t *testing.T) {
	svc, _ := newStockFixture()
	createItem(t, svc, 5)

	_, _, err := svc.CreateItem(context.Background(), service.NewItem{
		SKU:   "WID-001",
		Name:  "Other widget",
		Cost:  decimal.NewFromInt(1),
		Price: decimal.NewFromInt(2),
	})
	if !errors.Is(err, repo.ErrDuplicateSKU) {
		t.Errorf("expected ErrDuplicateSKU, got %v", err)
	}
}
