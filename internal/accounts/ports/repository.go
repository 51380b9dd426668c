package ports

import (
	"context"
	"errors"

	"github.com/montluxe/storefront/internal/accounts/domain"
)

// UserRepository exposes persistence operations required by the accounts service.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, username string, hash []byte) error
	Delete(ctx context.Context, username string) error
}

var (
	// ErrNotFound is returned when the requested user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when a username or email is already taken.
	ErrDuplicate = errors.New("username or email already exists")
)
