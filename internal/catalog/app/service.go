package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/montluxe/storefront/internal/catalog/domain"
	"github.com/montluxe/storefront/internal/catalog/ports"
)

// Service bundles catalog use cases exposed through the API.
type Service struct {
	repo ports.ProductRepository
}

// NewService wires required dependencies.
func NewService(repo ports.ProductRepository) *Service {
	return &Service{repo: repo}
}

// CreateProductInput captures the payload for adding a product.
type CreateProductInput struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	PriceCents   int64  `json:"price_cents"`
	ItemQuantity int    `json:"item_quantity"`
	ImageURL     string `json:"image_url"`
	ImageAlt     string `json:"image_alt"`
}

// CreateProduct validates and stores a new catalog entry.
func (s *Service) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	now := time.Now().UTC()
	product := domain.Product{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Description:  input.Description,
		PriceCents:   input.PriceCents,
		ItemQuantity: input.ItemQuantity,
		ImageURL:     input.ImageURL,
		ImageAlt:     input.ImageAlt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	return &product, nil
}

// GetProduct retrieves a product by ID.
func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// ListProducts returns the full catalog in creation order.
func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// UpdateProductInput carries the mutable product fields. Nil fields are left
// unchanged.
type UpdateProductInput struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	PriceCents   *int64  `json:"price_cents"`
	ItemQuantity *int    `json:"item_quantity"`
	ImageURL     *string `json:"image_url"`
	ImageAlt     *string `json:"image_alt"`
}

// UpdateProduct patches an existing product.
func (s *Service) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.PriceCents != nil {
		product.PriceCents = *input.PriceCents
	}
	if input.ItemQuantity != nil {
		product.ItemQuantity = *input.ItemQuantity
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	if input.ImageAlt != nil {
		product.ImageAlt = *input.ImageAlt
	}
	product.UpdatedAt = time.Now().UTC()

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, *product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct removes a product from the catalog.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
