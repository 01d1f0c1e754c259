package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ledgerline/inventory-core/internal/models"
)

const queryTimeout = 3 * time.Second

const itemColumns = `id, sku, name, category_id, location, active, quantity, min_stock_level, cost, price, margin, created_at, last_updated`

type PostgresItemRepository struct {
	db *sql.DB
}

func NewPostgresItemRepository(db *sql.DB) *PostgresItemRepository {
	return &PostgresItemRepository{db: db}
}

func scanItem(row interface{ Scan(...any) error }) (models.InventoryItem, error) {
	var it models.InventoryItem
	err := row.Scan(&it.ID, &it.SKU, &it.Name, &it.CategoryID, &it.Location, &it.Active,
		&it.Quantity, &it.MinStockLevel, &it.Cost, &it.Price, &it.Margin, &it.CreatedAt, &it.LastUpdated)
	return it, err
}

// withTx runs fn inside a read-committed transaction tied to ctx, so a
// cancelled context rolls the whole unit of work back.
func (r *PostgresItemRepository) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return mapPgError(op, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return mapPgError(op, err)
	}
	return nil
}

func insertMovement(ctx context.Context, tx *sql.Tx, m models.StockMovement) error {
	const q = `INSERT INTO stock_movements (id, item_id, quantity, type, occurred_at, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := tx.ExecContext(ctx, q, m.ID, m.ItemID, m.Quantity, m.Type, m.OccurredAt, m.Notes, m.CreatedBy)
	return err
}

func (r *PostgresItemRepository) Create(ctx context.Context, item models.InventoryItem, initial *models.StockMovement) (models.InventoryItem, error) {
	const op = "create item"
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.withTx(ctx, op, func(tx *sql.Tx) error {
		const q = `INSERT INTO inventory_items (sku, name, category_id, location, active, quantity, min_stock_level, cost, price, margin, created_at, last_updated)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
		err := tx.QueryRowContext(ctx, q, item.SKU, item.Name, item.CategoryID, item.Location, item.Active,
			item.Quantity, item.MinStockLevel, item.Cost, item.Price, item.Margin, item.CreatedAt, item.LastUpdated).
			Scan(&item.ID)
		if err != nil {
			return mapPgError(op, err)
		}
		if initial != nil {
			initial.ItemID = item.ID
			if err := insertMovement(ctx, tx, *initial); err != nil {
				return mapPgError(op, err)
			}
		}
		return nil
	})
	if err != nil {
		return models.InventoryItem{}, err
	}
	return item, nil
}

func (r *PostgresItemRepository) GetByID(ctx context.Context, id int) (models.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	it, err := scanItem(r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.InventoryItem{}, ErrItemNotFound
	}
	if err != nil {
		return models.InventoryItem{}, mapPgError("get item", err)
	}
	return it, nil
}

func (r *PostgresItemRepository) GetAll(ctx context.Context) ([]models.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM inventory_items ORDER BY id`)
	if err != nil {
		return nil, mapPgError("list items", err)
	}
	defer rows.Close()

	var items []models.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, mapPgError("list items", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError("list items", err)
	}
	return items, nil
}

// ApplyDelta uses an atomic conditional update so two concurrent removals can
// never both drive the quantity below zero: the guard is evaluated by the
// database, not by application code.
func (r *PostgresItemRepository) ApplyDelta(ctx context.Context, id, delta int, movement models.StockMovement) (models.InventoryItem, error) {
	const op = "apply stock delta"
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var updated models.InventoryItem
	err := r.withTx(ctx, op, func(tx *sql.Tx) error {
		const q = `UPDATE inventory_items
			SET quantity = quantity + $1, last_updated = $2
			WHERE id = $3 AND quantity + $1 >= 0
			RETURNING ` + itemColumns
		it, err := scanItem(tx.QueryRowContext(ctx, q, delta, movement.OccurredAt, id))
		if errors.Is(err, sql.ErrNoRows) {
			// Either the item is missing or the guard rejected the removal;
			// the follow-up read distinguishes the two.
			var available int
			err := tx.QueryRowContext(ctx, `SELECT quantity FROM inventory_items WHERE id = $1`, id).Scan(&available)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrItemNotFound
			}
			if err != nil {
				return mapPgError(op, err)
			}
			return &InsufficientStockError{Requested: -delta, Available: available}
		}
		if err != nil {
			return mapPgError(op, err)
		}
		if err := insertMovement(ctx, tx, movement); err != nil {
			return mapPgError(op, err)
		}
		updated = it
		return nil
	})
	if err != nil {
		return models.InventoryItem{}, err
	}
	return updated, nil
}

// SetQuantity computes the adjustment delta under a row lock, so the recorded
// magnitude is exact even when other operations race on the same item.
func (r *PostgresItemRepository) SetQuantity(ctx context.Context, id, newQuantity int, movement models.StockMovement) (models.InventoryItem, *models.StockMovement, error) {
	const op = "set quantity"
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var updated models.InventoryItem
	var applied *models.StockMovement
	err := r.withTx(ctx, op, func(tx *sql.Tx) error {
		current, err := scanItem(tx.QueryRowContext(ctx,
			`SELECT `+itemColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrItemNotFound
		}
		if err != nil {
			return mapPgError(op, err)
		}

		delta := newQuantity - current.Quantity
		if delta == 0 {
			updated = current
			return nil
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE inventory_items SET quantity = $1, last_updated = $2 WHERE id = $3`,
			newQuantity, movement.OccurredAt, id)
		if err != nil {
			return mapPgError(op, err)
		}

		if delta < 0 {
			delta = -delta
		}
		movement.Quantity = delta
		if err := insertMovement(ctx, tx, movement); err != nil {
			return mapPgError(op, err)
		}

		current.Quantity = newQuantity
		current.LastUpdated = movement.OccurredAt
		updated = current
		applied = &movement
		return nil
	})
	if err != nil {
		return models.InventoryItem{}, nil, err
	}
	return updated, applied, nil
}

func (r *PostgresItemRepository) UpdateFinancials(ctx context.Context, id int, mutate FinancialMutation) (models.InventoryItem, *models.PriceHistory, error) {
	const op = "update financials"
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var updated models.InventoryItem
	var history *models.PriceHistory
	err := r.withTx(ctx, op, func(tx *sql.Tx) error {
		current, err := scanItem(tx.QueryRowContext(ctx,
			`SELECT `+itemColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrItemNotFound
		}
		if err != nil {
			return mapPgError(op, err)
		}

		next, h, err := mutate(current)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE inventory_items SET cost = $1, price = $2, margin = $3, last_updated = $4 WHERE id = $5`,
			next.Cost, next.Price, next.Margin, next.LastUpdated, id)
		if err != nil {
			return mapPgError(op, err)
		}

		if h != nil {
			const q = `INSERT INTO price_history (id, item_id, old_price, new_price, old_cost, new_cost, old_margin, new_margin, change_reason, user_id, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
			_, err = tx.ExecContext(ctx, q, h.ID, h.ItemID, h.OldPrice, h.NewPrice, h.OldCost, h.NewCost,
				h.OldMargin, h.NewMargin, h.ChangeReason, h.UserID, h.CreatedAt)
			if err != nil {
				return mapPgError(op, err)
			}
		}

		updated = next
		history = h
		return nil
	})
	if err != nil {
		return models.InventoryItem{}, nil, err
	}
	return updated, history, nil
}

func (r *PostgresItemRepository) DeleteCascade(ctx context.Context, id int) (int, error) {
	const op = "delete item"
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var removed int
	err := r.withTx(ctx, op, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM stock_movements WHERE item_id = $1`, id)
		if err != nil {
			return mapPgError(op, err)
		}
		count, _ := res.RowsAffected()

		if _, err := tx.ExecContext(ctx, `DELETE FROM price_history WHERE item_id = $1`, id); err != nil {
			return mapPgError(op, err)
		}

		res, err = tx.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
		if err != nil {
			return mapPgError(op, err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return ErrItemNotFound
		}
		removed = int(count)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
