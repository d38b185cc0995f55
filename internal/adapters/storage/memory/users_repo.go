package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"animal-registry/internal/domain/users"
)

type userRepo struct {
	mu   sync.RWMutex
	byID map[string]users.User
}

func NewUserRepo() users.Repository {
	return &userRepo{
		byID: make(map[string]users.User),
	}
}

func (r *userRepo) Upsert(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id required")
	}
	r.byID[u.ID] = u
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func (r *userRepo) GetByCIN(ctx context.Context, cin string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.CIN != "" && u.CIN == cin {
			return u, nil
		}
	}
	return users.User{}, users.ErrNotFound
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return users.User{}, users.ErrNotFound
}
