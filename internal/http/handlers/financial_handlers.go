package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/inventory-core/internal/repo"
	"github.com/ledgerline/inventory-core/internal/service"
)

// UpdateFinancialsHandler updates any of price, cost and margin on an item.
// A history row is written only when something actually changed; a request
// with no fields at all succeeds without touching the item.
func UpdateFinancialsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	var req FinancialsRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	item, _, err := financialService.UpdateFinancials(r.Context(), id, service.FinancialChange{
		Price:        req.Price,
		Cost:         req.Cost,
		Margin:       req.Margin,
		ChangeReason: req.ChangeReason,
		Actor:        req.Actor,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

// GetPriceHistoryHandler returns an item's financial audit trail, newest
// first.
func GetPriceHistoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	var f repo.PriceHistoryFilter
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			http.Error(w, "invalid offset", http.StatusBadRequest)
			return
		}
		f.Offset = &offset
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		f.Limit = &limit
	}

	entries, total, err := financialService.PriceHistory(r.Context(), id, f)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	data := make([]PriceHistoryResponse, 0, len(entries))
	for _, h := range entries {
		data = append(data, toPriceHistoryResponse(h))
	}
	writeJSON(w, http.StatusOK, PriceHistorySearchResult{Data: data, Meta: Meta{TotalCount: total}})
}

// PricePreviewHandler computes the selling price for a cost and margin
// without touching any item.
func PricePreviewHandler(w http.ResponseWriter, r *http.Request) {
	cost, err := decimal.NewFromString(r.URL.Query().Get("cost"))
	if err != nil || cost.Sign() < 0 {
		http.Error(w, "invalid cost", http.StatusBadRequest)
		return
	}
	margin, err := decimal.NewFromString(r.URL.Query().Get("margin"))
	if err != nil || margin.Sign() < 0 {
		http.Error(w, "invalid margin", http.StatusBadRequest)
		return
	}

	price := financialService.PricePreview(cost, margin)
	writeJSON(w, http.StatusOK, PricePreviewResult{Cost: cost, Margin: margin, Price: price})
}
