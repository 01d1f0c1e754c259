package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"go.uber.org/zap"

	api "github.com/ledgerline/inventory-core/internal/http"
	handler "github.com/ledgerline/inventory-core/internal/http/handlers"
	"github.com/ledgerline/inventory-core/internal/repo"
	"github.com/ledgerline/inventory-core/internal/service"
)

var (
	itemRepo *repo.InMemoryItemRepository
	userRepo *repo.InMemoryUserRepository
)

func init() {
	setupTestRepos()
}

func setupTestRepos() {
	itemRepo = repo.NewInMemoryItemRepository()
	movementRepo := repo.NewInMemoryMovementRepository(itemRepo)
	historyRepo := repo.NewInMemoryPriceHistoryRepository(itemRepo)
	userRepo = repo.NewInMemoryUserRepository()

	identity := service.NewIdentityResolver(userRepo, zap.NewNop())
	handler.SetStockService(service.NewStockService(itemRepo, movementRepo, identity, nil, zap.NewNop()))
	handler.SetFinancialService(service.NewFinancialService(itemRepo, historyRepo, identity, zap.NewNop()))
}

func clearAllItems() {
	itemRepo.Clear()
}

func doJSON(r http.Handler, method, url string, payload any) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		body, _ := json.Marshal(payload)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createItem(r http.Handler, p handler.ItemRequest) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, "/items", p)
}

func addStock(r http.Handler, itemID int, req handler.StockRequest) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, fmt.Sprintf("/items/%d/stock/add", itemID), req)
}

func removeStock(r http.Handler, itemID int, req handler.StockRequest) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, fmt.Sprintf("/items/%d/stock/remove", itemID), req)
}

func adjustStock(r http.Handler, itemID int, req handler.AdjustmentRequest) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, fmt.Sprintf("/items/%d/stock/adjust", itemID), req)
}

func updateFinancials(r http.Handler, itemID int, req handler.FinancialsRequest) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPut, fmt.Sprintf("/items/%d/financials", itemID), req)
}

// mustCreateItem creates an item and returns its decoded response.
func mustCreateItem(r http.Handler, p handler.ItemRequest) (handler.StockOperationResult, error) {
	w := createItem(r, p)
	if w.Code != http.StatusCreated {
		return handler.StockOperationResult{}, fmt.Errorf("create returned %d: %s", w.Code, w.Body.String())
	}
	var resp handler.StockOperationResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return handler.StockOperationResult{}, err
	}
	return resp, nil
}

func newRouter() http.Handler {
	return api.NewRouter()
}
