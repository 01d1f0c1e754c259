package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerline/inventory-core/internal/service"
)

// CreateItemHandler creates an inventory item; a positive starting quantity
// is accounted for by an INITIAL ledger entry written in the same unit of
// work.
func CreateItemHandler(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateItem(req)
	if len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	item, movement, err := stockService.CreateItem(r.Context(), service.NewItem{
		SKU:           req.SKU,
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		Location:      req.Location,
		Quantity:      req.Quantity,
		MinStockLevel: req.MinStockLevel,
		Cost:          req.Cost,
		Price:         req.Price,
		Margin:        req.Margin,
		Actor:         req.Actor,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	result := StockOperationResult{Item: toItemResponse(item)}
	if movement != nil {
		m := toMovementResponse(*movement)
		result.Movement = &m
	}
	writeJSON(w, http.StatusCreated, result)
}

// GetItemsHandler returns all items.
func GetItemsHandler(w http.ResponseWriter, r *http.Request) {
	items, err := stockService.Items(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		resp = append(resp, toItemResponse(it))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetItemByIDHandler returns one item.
func GetItemByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	item, err := stockService.Item(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

// DeleteItemHandler removes an item together with its movement ledger and
// price history, reporting how many movements were removed.
func DeleteItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	removed, err := stockService.DeleteItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteItemResult{MovementsDeleted: removed})
}
