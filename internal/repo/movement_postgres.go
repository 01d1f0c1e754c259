package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ledgerline/inventory-core/internal/models"
)

const defaultLimit = 100

type PostgresMovementRepository struct {
	db *sql.DB
}

func NewPostgresMovementRepository(db *sql.DB) *PostgresMovementRepository {
	return &PostgresMovementRepository{db: db}
}

// ByItemID returns the item's ledger entries, newest first, optionally
// filtered by date range and paginated.
func (r *PostgresMovementRepository) ByItemID(ctx context.Context, itemID int, mf MovementFilter) ([]models.StockMovement, int, error) {
	whereClause, args := buildMovementWhere(itemID, mf)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	total, err := r.getTotal(ctx, whereClause, args)
	if err != nil {
		return nil, 0, err
	}

	// limit = 0 means count only
	if mf.Limit != nil && *mf.Limit == 0 {
		return []models.StockMovement{}, total, nil
	}
	if mf.Offset != nil && *mf.Offset >= total {
		return []models.StockMovement{}, total, nil
	}

	query := fmt.Sprintf(`SELECT id, item_id, quantity, type, occurred_at, notes, created_by
		FROM stock_movements %s ORDER BY occurred_at DESC`, whereClause)
	argIndex := len(args) + 1

	limit := defaultLimit
	if mf.Limit != nil && *mf.Limit > 0 {
		limit = min(*mf.Limit, defaultLimit)
	}
	query += fmt.Sprintf(" LIMIT $%d", argIndex)
	args = append(args, limit)
	argIndex++

	if mf.Offset != nil && *mf.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, *mf.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, mapPgError("list movements", err)
	}
	defer rows.Close()

	var movements []models.StockMovement
	for rows.Next() {
		var m models.StockMovement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Quantity, &m.Type, &m.OccurredAt, &m.Notes, &m.CreatedBy); err != nil {
			return nil, 0, mapPgError("list movements", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapPgError("list movements", err)
	}

	return movements, total, nil
}

func buildMovementWhere(itemID int, mf MovementFilter) (string, []any) {
	args := []any{itemID}
	whereClause := "WHERE item_id = $1"
	argIndex := 2

	if mf.Since != nil {
		whereClause += fmt.Sprintf(" AND occurred_at >= $%d", argIndex)
		args = append(args, *mf.Since)
		argIndex++
	}
	if mf.Until != nil {
		whereClause += fmt.Sprintf(" AND occurred_at <= $%d", argIndex)
		args = append(args, *mf.Until)
	}

	return whereClause, args
}

func (r *PostgresMovementRepository) getTotal(ctx context.Context, whereClause string, args []any) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM stock_movements %s", whereClause), args...).Scan(&total)
	if err != nil {
		return 0, mapPgError("count movements", err)
	}
	return total, nil
}
