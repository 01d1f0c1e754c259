package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ledgerline/inventory-core/internal/models"
)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u models.User
	err := r.db.QueryRowContext(ctx, `SELECT id, username, display_name, created_at FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.DisplayName, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, mapPgError("get user", err)
	}
	return u, nil
}

// GetOrCreate upserts by username. The insert races benignly: on conflict the
// existing row is returned.
func (r *PostgresUserRepository) GetOrCreate(ctx context.Context, username, displayName string) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	const q = `INSERT INTO users (username, display_name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username
		RETURNING id, username, display_name, created_at`

	var u models.User
	err := r.db.QueryRowContext(ctx, q, username, displayName, time.Now().UTC()).
		Scan(&u.ID, &u.Username, &u.DisplayName, &u.CreatedAt)
	if err != nil {
		return models.User{}, mapPgError("get or create user", err)
	}
	return u, nil
}
