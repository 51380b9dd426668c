package ports

import (
	"context"
	"errors"
)

// CatalogProduct is the slice of catalog data order intake needs to validate
// a submitted line.
type CatalogProduct struct {
	ID             string
	UnitPriceCents int64
	ItemQuantity   int
}

// CatalogReader looks up the authoritative product data a submission is
// validated against.
type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (*CatalogProduct, error)
}

// ErrProductNotFound is returned by CatalogReader when the product does not
// exist in the catalog.
var ErrProductNotFound = errors.New("product not found in catalog")
