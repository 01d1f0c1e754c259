package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/ledgerline/inventory-core/internal/repo"
	"github.com/ledgerline/inventory-core/internal/service"
)

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

// writeServiceError maps the domain error taxonomy onto HTTP statuses. Every
// mapped error means the prior state is unchanged.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	var stockErr *repo.InsufficientStockError

	switch {
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
	case errors.Is(err, repo.ErrItemNotFound):
		http.Error(w, "item not found", http.StatusNotFound)
	case errors.As(err, &stockErr):
		http.Error(w, stockErr.Error(), http.StatusConflict)
	case errors.Is(err, repo.ErrConflict):
		// Retryable: a concurrent operation on the same item won the lock.
		http.Error(w, "conflicting concurrent update, please retry", http.StatusConflict)
	case errors.Is(err, repo.ErrDuplicateSKU):
		http.Error(w, "sku already in use", http.StatusConflict)
	default:
		logger.Error("unhandled service error", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
