package repo

import (
	"context"

	"github.com/ledgerline/inventory-core/internal/models"
)

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (models.User, error)
	// GetOrCreate returns the user with the given username, creating it when
	// it does not exist yet. Used by identity resolution for the fallback
	// system actor.
	GetOrCreate(ctx context.Context, username, displayName string) (models.User, error)
}
