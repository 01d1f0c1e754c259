package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerline/inventory-core/internal/http/handlers"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Post("/items", handlers.CreateItemHandler)
	r.Get("/items", handlers.GetItemsHandler)
	r.Get("/items/{id}", handlers.GetItemByIDHandler)
	r.Delete("/items/{id}", handlers.DeleteItemHandler)

	r.Post("/items/{id}/stock/add", handlers.AddStockHandler)
	r.Post("/items/{id}/stock/remove", handlers.RemoveStockHandler)
	r.Post("/items/{id}/stock/adjust", handlers.AdjustStockHandler)
	r.Get("/items/{id}/movements", handlers.GetMovementsHandler)

	r.Put("/items/{id}/financials", handlers.UpdateFinancialsHandler)
	r.Get("/items/{id}/price-history", handlers.GetPriceHistoryHandler)
	r.Get("/pricing/preview", handlers.PricePreviewHandler)

	return r
}
