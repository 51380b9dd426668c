package domain

import (
	"errors"
	"strings"
	"time"
)

// Product is one catalog entry. Prices are stored in cents.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	PriceCents   int64     `json:"price_cents"`
	ItemQuantity int       `json:"item_quantity"`
	ImageURL     string    `json:"image_url"`
	ImageAlt     string    `json:"image_alt"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate ensures the product adheres to catalog constraints.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	if p.PriceCents <= 0 {
		return errors.New("price_cents must be positive")
	}
	if p.ItemQuantity < 0 {
		return errors.New("item_quantity must not be negative")
	}
	return nil
}

// InStock reports whether the requested quantity can be fulfilled.
func (p Product) InStock(quantity int) bool {
	return quantity <= p.ItemQuantity
}
