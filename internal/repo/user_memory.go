package repo

import (
	"context"
	"sync"
	"time"

	"github.com/ledgerline/inventory-core/internal/models"
)

type InMemoryUserRepository struct {
	mu    sync.Mutex
	users []models.User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: []models.User{},
	}
}

func (r *InMemoryUserRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (r *InMemoryUserRepository) GetOrCreate(ctx context.Context, username, displayName string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}

	u := models.User{
		ID:          len(r.users) + 1,
		Username:    username,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}
	r.users = append(r.users, u)
	return u, nil
}
