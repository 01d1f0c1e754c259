package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ledgerline/inventory-core/internal/models"
	"github.com/ledgerline/inventory-core/internal/repo"
)

// IdentityResolver maps an optional caller identity to the user id that audit
// rows are attributed to. With no identity it falls back to the well-known
// system user, creating it on first use. Resolution runs before the
// financial transaction opens, never inside it.
type IdentityResolver struct {
	users repo.UserRepository
	log   *zap.Logger
}

func NewIdentityResolver(users repo.UserRepository, log *zap.Logger) *IdentityResolver {
	return &IdentityResolver{users: users, log: log}
}

func (r *IdentityResolver) Resolve(ctx context.Context, username *string) (int, error) {
	name := models.SystemUsername
	display := "System"
	if username != nil {
		if trimmed := strings.TrimSpace(*username); trimmed != "" {
			name = trimmed
			display = trimmed
		}
	}

	u, err := r.users.GetOrCreate(ctx, name, display)
	if err != nil {
		return 0, err
	}
	if name == models.SystemUsername {
		r.log.Debug("attributing change to system user", zap.Int("user_id", u.ID))
	}
	return u.ID, nil
}
