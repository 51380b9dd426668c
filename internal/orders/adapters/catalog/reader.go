// Package catalog bridges order intake to the catalog service so submitted
// lines can be priced and stock-checked in-process.
package catalog

import (
	"context"
	"errors"

	catalogapp "github.com/montluxe/storefront/internal/catalog/app"
	catalogports "github.com/montluxe/storefront/internal/catalog/ports"
	"github.com/montluxe/storefront/internal/orders/ports"
)

type Reader struct {
	catalog *catalogapp.Service
}

func NewReader(catalog *catalogapp.Service) *Reader {
	return &Reader{catalog: catalog}
}

func (r *Reader) GetProduct(ctx context.Context, productID string) (*ports.CatalogProduct, error) {
	product, err := r.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}

	return &ports.CatalogProduct{
		ID:             product.ID,
		UnitPriceCents: product.PriceCents,
		ItemQuantity:   product.ItemQuantity,
	}, nil
}
