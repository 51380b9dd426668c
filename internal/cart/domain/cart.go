package domain

import "errors"

// DefaultQuantityCap bounds a single line item's quantity unless the store is
// configured otherwise.
const DefaultQuantityCap = 99

var (
	// ErrInvalidQuantity is returned when an item is added with a quantity below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrLineNotFound is returned when an operation names a product that has no line item.
	ErrLineNotFound = errors.New("line item not found")
)

// Product is the catalog view the cart needs when a line item is created.
// The price here becomes the line item's snapshot; it is not refreshed while
// the item sits in the cart.
type Product struct {
	ID         string
	Name       string
	PriceCents int64
	ImageURL   string
}

// LineItem is one product entry in the cart. At most one line item exists per
// product; display order is insertion order.
type LineItem struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	ImageURL       string `json:"image_url"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
}

// SubtotalCents returns quantity times the captured unit price.
func (li LineItem) SubtotalCents() int64 {
	return li.UnitPriceCents * int64(li.Quantity)
}

// Cart holds the ordered set of selected line items. Every mutation keeps the
// invariants: quantities stay within [1, cap] and product ids stay unique.
type Cart struct {
	lines       []LineItem
	quantityCap int
}

// NewCart returns an empty cart. A non-positive cap falls back to
// DefaultQuantityCap.
func NewCart(quantityCap int) Cart {
	if quantityCap <= 0 {
		quantityCap = DefaultQuantityCap
	}
	return Cart{quantityCap: quantityCap}
}

// RestoreCart rebuilds a cart from previously persisted line items. Lines that
// violate the cart invariants (non-positive quantity, duplicate product id,
// negative price) are dropped rather than rejected, so a partially damaged
// record degrades instead of failing the restore.
func RestoreCart(quantityCap int, lines []LineItem) Cart {
	cart := NewCart(quantityCap)
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if line.ProductID == "" || line.Quantity < 1 || line.UnitPriceCents < 0 {
			continue
		}
		if _, dup := seen[line.ProductID]; dup {
			continue
		}
		seen[line.ProductID] = struct{}{}
		if line.Quantity > cart.quantityCap {
			line.Quantity = cart.quantityCap
		}
		cart.lines = append(cart.lines, line)
	}
	return cart
}

// AddItem inserts a line item for the product, or increments the existing
// line's quantity. The unit price snapshot is captured on first insert and
// left untouched on increments. Quantities clamp at the cap.
func (c *Cart) AddItem(p Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity = c.clamp(c.lines[i].Quantity + quantity)
			return nil
		}
	}
	c.lines = append(c.lines, LineItem{
		ProductID:      p.ID,
		Name:           p.Name,
		ImageURL:       p.ImageURL,
		UnitPriceCents: p.PriceCents,
		Quantity:       c.clamp(quantity),
	})
	return nil
}

// SetQuantity sets a line item's quantity directly. A quantity of zero or less
// removes the line item entirely.
func (c *Cart) SetQuantity(productID string, quantity int) error {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			if quantity <= 0 {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
				return nil
			}
			c.lines[i].Quantity = c.clamp(quantity)
			return nil
		}
	}
	return ErrLineNotFound
}

// RemoveItem deletes the line item for the product. Removing an absent product
// is a no-op.
func (c *Cart) RemoveItem(productID string) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// RemoveItems deletes the line items for all named products.
func (c *Cart) RemoveItems(productIDs []string) {
	for _, id := range productIDs {
		c.RemoveItem(id)
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Len reports the number of line items.
func (c Cart) Len() int {
	return len(c.lines)
}

// SubtotalCents sums quantity times unit price across all line items. It is
// always derived from the lines, never stored.
func (c Cart) SubtotalCents() int64 {
	var total int64
	for _, line := range c.lines {
		total += line.SubtotalCents()
	}
	return total
}

// Lines returns a copy of the line items in display order.
func (c Cart) Lines() []LineItem {
	lines := make([]LineItem, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// Snapshot returns an immutable point-in-time copy of the cart.
func (c Cart) Snapshot() Snapshot {
	return Snapshot{
		Lines:         c.Lines(),
		SubtotalCents: c.SubtotalCents(),
	}
}

func (c Cart) clamp(quantity int) int {
	if quantity > c.quantityCap {
		return c.quantityCap
	}
	return quantity
}

// Snapshot is what pages and subscribers observe: ordered lines plus the
// derived subtotal. Mutating a snapshot never affects the cart it came from.
type Snapshot struct {
	Lines         []LineItem
	SubtotalCents int64
}

// Empty reports whether the snapshot holds no line items.
func (s Snapshot) Empty() bool {
	return len(s.Lines) == 0
}
