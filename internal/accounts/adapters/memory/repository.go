package memory

import (
	"context"
	"sync"

	"github.com/montluxe/storefront/internal/accounts/domain"
	"github.com/montluxe/storefront/internal/accounts/ports"
)

// Repository provides an in-memory account store useful for tests.
type Repository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewRepository constructs a new in-memory repository.
func NewRepository() *Repository {
	return &Repository{users: make(map[string]domain.User)}
}

// Create stores a new account.
func (r *Repository) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return ports.ErrDuplicate
		}
	}
	r.users[user.Username] = user
	return nil
}

// GetByUsername fetches an account by username.
func (r *Repository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[username]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copy := user
	return &copy, nil
}

// UpdatePasswordHash replaces the stored hash for an account.
func (r *Repository) UpdatePasswordHash(_ context.Context, username string, hash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return ports.ErrNotFound
	}
	user.PasswordHash = hash
	r.users[username] = user
	return nil
}

// Delete removes an account.
func (r *Repository) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[username]; !ok {
		return ports.ErrNotFound
	}
	delete(r.users, username)
	return nil
}
