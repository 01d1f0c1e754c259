package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerline/inventory-core/internal/repo"
)

// AddStockHandler increases an item's stock level.
func AddStockHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	var req StockRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	movement, item, err := stockService.AddStock(r.Context(), id, req.Quantity, req.Notes, req.Actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	m := toMovementResponse(movement)
	writeJSON(w, http.StatusOK, StockOperationResult{Item: toItemResponse(item), Movement: &m})
}

// RemoveStockHandler decreases an item's stock level. Requests for more than
// the available quantity are rejected without any mutation.
func RemoveStockHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	var req StockRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	movement, item, err := stockService.RemoveStock(r.Context(), id, req.Quantity, req.Notes, req.Actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	m := toMovementResponse(movement)
	writeJSON(w, http.StatusOK, StockOperationResult{Item: toItemResponse(item), Movement: &m})
}

// AdjustStockHandler sets an item's stock level to an absolute value,
// recording the difference as an ADJUSTMENT movement.
func AdjustStockHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	var req AdjustmentRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	movement, item, err := stockService.AdjustStock(r.Context(), id, req.NewQuantity, req.Notes, req.Actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	result := StockOperationResult{Item: toItemResponse(item)}
	if movement != nil {
		m := toMovementResponse(*movement)
		result.Movement = &m
	}
	writeJSON(w, http.StatusOK, result)
}

// GetMovementsHandler returns an item's ledger entries, newest first,
// optionally filtered by date range and paginated.
func GetMovementsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	sinceStr := r.URL.Query().Get("since")
	untilStr := r.URL.Query().Get("until")

	// Reverse the substitution from + for space in the date parameters, otherwise
	// time.Parse will fail with an error.
	// This is necessary because URL query parameters replace + with a space.
	// Example: 2025-07-03T17:44:03+02:00 becomes 2025-07-03T17:44:03 02:00 on r.URL.Query().Get()
	if len(sinceStr) == len(time.RFC3339) && sinceStr[len(sinceStr)-6] == ' ' {
		sinceStr = sinceStr[:len(sinceStr)-6] + "+" + sinceStr[len(sinceStr)-5:]
	}
	if len(untilStr) == len(time.RFC3339) && untilStr[len(untilStr)-6] == ' ' {
		untilStr = untilStr[:len(untilStr)-6] + "+" + untilStr[len(untilStr)-5:]
	}

	var mf repo.MovementFilter
	if sinceStr != "" {
		t, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			http.Error(w, "invalid since timestamp", http.StatusBadRequest)
			return
		}
		mf.Since = &t
	}
	if untilStr != "" {
		t, err := time.Parse(time.RFC3339, untilStr)
		if err != nil {
			http.Error(w, "invalid until timestamp", http.StatusBadRequest)
			return
		}
		mf.Until = &t
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			http.Error(w, "invalid offset", http.StatusBadRequest)
			return
		}
		mf.Offset = &offset
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		mf.Limit = &limit
	}

	movements, total, err := stockService.Movements(r.Context(), id, mf)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	data := make([]MovementResponse, 0, len(movements))
	for _, m := range movements {
		data = append(data, toMovementResponse(m))
	}
	writeJSON(w, http.StatusOK, MovementsSearchResult{Data: data, Meta: Meta{TotalCount: total}})
}
