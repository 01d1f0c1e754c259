package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ledgerline/inventory-core/internal/models"
)

type PostgresPriceHistoryRepository struct {
	db *sql.DB
}

func NewPostgresPriceHistoryRepository(db *sql.DB) *PostgresPriceHistoryRepository {
	return &PostgresPriceHistoryRepository{db: db}
}

// ByItemID returns the item's financial audit trail, newest first.
func (r *PostgresPriceHistoryRepository) ByItemID(ctx context.Context, itemID int, f PriceHistoryFilter) ([]models.PriceHistory, int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM price_history WHERE item_id = $1`, itemID).Scan(&total)
	if err != nil {
		return nil, 0, mapPgError("count price history", err)
	}

	query := `SELECT id, item_id, old_price, new_price, old_cost, new_cost, old_margin, new_margin, change_reason, user_id, created_at
		FROM price_history WHERE item_id = $1 ORDER BY created_at DESC`
	args := []any{itemID}
	argIndex := 2

	limit := defaultLimit
	if f.Limit != nil && *f.Limit > 0 {
		limit = min(*f.Limit, defaultLimit)
	}
	query += fmt.Sprintf(" LIMIT $%d", argIndex)
	args = append(args, limit)
	argIndex++

	if f.Offset != nil && *f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, *f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, mapPgError("list price history", err)
	}
	defer rows.Close()

	var entries []models.PriceHistory
	for rows.Next() {
		var h models.PriceHistory
		if err := rows.Scan(&h.ID, &h.ItemID, &h.OldPrice, &h.NewPrice, &h.OldCost, &h.NewCost,
			&h.OldMargin, &h.NewMargin, &h.ChangeReason, &h.UserID, &h.CreatedAt); err != nil {
			return nil, 0, mapPgError("list price history", err)
		}
		entries = append(entries, h)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapPgError("list price history", err)
	}

	return entries, total, nil
}
