package ports

import (
	"context"
	"errors"

	"github.com/montluxe/storefront/internal/catalog/domain"
)

// ProductRepository exposes persistence operations required by the catalog.
type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, id string) error
}

var (
	// ErrNotFound is returned when the requested product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrDuplicateName is returned when a product name is already taken.
	ErrDuplicateName = errors.New("product name already exists")
)
