package domain_test

import (
	"errors"
	"testing"

	"github.com/montluxe/storefront/internal/cart/domain"
)

var (
	watchA = domain.Product{ID: "prod-a", Name: "Chronograph Classic", PriceCents: 1000, ImageURL: "chrono.jpg"}
	watchB = domain.Product{ID: "prod-b", Name: "Diver Automatic", PriceCents: 500, ImageURL: "diver.jpg"}
)

func TestCartAddItem(t *testing.T) {
	t.Run("inserts a new line item with a price snapshot", func(t *testing.T) {
		cart := domain.NewCart(0)

		if err := cart.AddItem(watchA, 2); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		lines := cart.Lines()
		if len(lines) != 1 {
			t.Fatalf("expected 1 line, got %d", len(lines))
		}
		if lines[0].UnitPriceCents != watchA.PriceCents {
			t.Errorf("expected price snapshot %d, got %d", watchA.PriceCents, lines[0].UnitPriceCents)
		}
		if lines[0].Quantity != 2 {
			t.Errorf("expected quantity 2, got %d", lines[0].Quantity)
		}
	})

	t.Run("merges repeated adds into one line and keeps the first snapshot", func(t *testing.T) {
		cart := domain.NewCart(0)

		if err := cart.AddItem(watchA, 2); err != nil {
			t.Fatalf("first add failed: %v", err)
		}

		repriced := watchA
		repriced.PriceCents = 9999
		if err := cart.AddItem(repriced, 3); err != nil {
			t.Fatalf("second add failed: %v", err)
		}

		lines := cart.Lines()
		if len(lines) != 1 {
			t.Fatalf("expected a single merged line, got %d", len(lines))
		}
		if lines[0].Quantity != 5 {
			t.Errorf("expected quantity 5, got %d", lines[0].Quantity)
		}
		if lines[0].UnitPriceCents != 1000 {
			t.Errorf("expected the original snapshot 1000, got %d", lines[0].UnitPriceCents)
		}
	})

	t.Run("clamps quantity at the cap", func(t *testing.T) {
		cart := domain.NewCart(10)

		if err := cart.AddItem(watchA, 7); err != nil {
			t.Fatalf("first add failed: %v", err)
		}
		if err := cart.AddItem(watchA, 7); err != nil {
			t.Fatalf("second add failed: %v", err)
		}

		if got := cart.Lines()[0].Quantity; got != 10 {
			t.Errorf("expected clamped quantity 10, got %d", got)
		}
	})

	t.Run("rejects non-positive quantities", func(t *testing.T) {
		cart := domain.NewCart(0)

		for _, qty := range []int{0, -1} {
			if err := cart.AddItem(watchA, qty); !errors.Is(err, domain.ErrInvalidQuantity) {
				t.Errorf("quantity %d: expected ErrInvalidQuantity, got %v", qty, err)
			}
		}
		if cart.Len() != 0 {
			t.Errorf("expected cart untouched, got %d lines", cart.Len())
		}
	})

	t.Run("preserves insertion order", func(t *testing.T) {
		cart := domain.NewCart(0)

		_ = cart.AddItem(watchB, 1)
		_ = cart.AddItem(watchA, 1)

		lines := cart.Lines()
		if lines[0].ProductID != "prod-b" || lines[1].ProductID != "prod-a" {
			t.Errorf("expected [prod-b prod-a], got [%s %s]", lines[0].ProductID, lines[1].ProductID)
		}
	})
}

func TestCartSetQuantity(t *testing.T) {
	t.Run("sets the quantity directly", func(t *testing.T) {
		cart := domain.NewCart(0)
		_ = cart.AddItem(watchA, 1)

		if err := cart.SetQuantity("prod-a", 4); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if got := cart.Lines()[0].Quantity; got != 4 {
			t.Errorf("expected quantity 4, got %d", got)
		}
	})

	t.Run("removes the line when quantity drops to zero", func(t *testing.T) {
		cart := domain.NewCart(0)
		_ = cart.AddItem(watchA, 2)

		if err := cart.SetQuantity("prod-a", 0); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if cart.Len() != 0 {
			t.Fatalf("expected empty cart, got %d lines", cart.Len())
		}
	})

	t.Run("returns ErrLineNotFound for an absent product", func(t *testing.T) {
		cart := domain.NewCart(0)

		if err := cart.SetQuantity("prod-x", 1); !errors.Is(err, domain.ErrLineNotFound) {
			t.Errorf("expected ErrLineNotFound, got %v", err)
		}
	})

	t.Run("clamps at the cap", func(t *testing.T) {
		cart := domain.NewCart(10)
		_ = cart.AddItem(watchA, 1)

		if err := cart.SetQuantity("prod-a", 500); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if got := cart.Lines()[0].Quantity; got != 10 {
			t.Errorf("expected clamped quantity 10, got %d", got)
		}
	})
}

func TestCartRemoveItem(t *testing.T) {
	cart := domain.NewCart(0)
	_ = cart.AddItem(watchA, 2)
	_ = cart.AddItem(watchB, 1)

	cart.RemoveItem("prod-b")
	if cart.Len() != 1 {
		t.Fatalf("expected 1 line, got %d", cart.Len())
	}

	// Removing an absent product is not an error.
	cart.RemoveItem("prod-b")
	if cart.Len() != 1 {
		t.Fatalf("expected removal of absent product to be a no-op")
	}
}

func TestCartSubtotal(t *testing.T) {
	cart := domain.NewCart(0)
	_ = cart.AddItem(watchA, 2) // 2 x 1000
	_ = cart.AddItem(watchB, 1) // 1 x 500

	if got := cart.SubtotalCents(); got != 2500 {
		t.Errorf("expected subtotal 2500, got %d", got)
	}

	cart.RemoveItem("prod-b")
	if got := cart.SubtotalCents(); got != 2000 {
		t.Errorf("expected subtotal 2000 after removal, got %d", got)
	}
}

func TestCartInvariants(t *testing.T) {
	// Arbitrary sequences of operations must keep quantities in [1, cap] and
	// product ids unique.
	cart := domain.NewCart(5)
	_ = cart.AddItem(watchA, 3)
	_ = cart.AddItem(watchA, 3)
	_ = cart.AddItem(watchB, 1)
	_ = cart.SetQuantity("prod-b", -2)
	_ = cart.AddItem(watchB, 2)
	cart.RemoveItem("missing")
	_ = cart.SetQuantity("prod-a", 2)

	seen := make(map[string]bool)
	for _, line := range cart.Lines() {
		if line.Quantity < 1 || line.Quantity > 5 {
			t.Errorf("line %s has out-of-range quantity %d", line.ProductID, line.Quantity)
		}
		if seen[line.ProductID] {
			t.Errorf("duplicate line for product %s", line.ProductID)
		}
		seen[line.ProductID] = true
	}
}

func TestRestoreCart(t *testing.T) {
	tests := []struct {
		name      string
		lines     []domain.LineItem
		wantIDs   []string
		wantFirst int
	}{
		{
			name: "valid lines restore as-is",
			lines: []domain.LineItem{
				{ProductID: "prod-a", Quantity: 2, UnitPriceCents: 1000},
				{ProductID: "prod-b", Quantity: 1, UnitPriceCents: 500},
			},
			wantIDs:   []string{"prod-a", "prod-b"},
			wantFirst: 2,
		},
		{
			name: "invalid quantities are dropped",
			lines: []domain.LineItem{
				{ProductID: "prod-a", Quantity: 0, UnitPriceCents: 1000},
				{ProductID: "prod-b", Quantity: 1, UnitPriceCents: 500},
			},
			wantIDs:   []string{"prod-b"},
			wantFirst: 1,
		},
		{
			name: "duplicate products keep the first line",
			lines: []domain.LineItem{
				{ProductID: "prod-a", Quantity: 2, UnitPriceCents: 1000},
				{ProductID: "prod-a", Quantity: 9, UnitPriceCents: 1},
			},
			wantIDs:   []string{"prod-a"},
			wantFirst: 2,
		},
		{
			name: "oversized quantities clamp to the cap",
			lines: []domain.LineItem{
				{ProductID: "prod-a", Quantity: 500, UnitPriceCents: 1000},
			},
			wantIDs:   []string{"prod-a"},
			wantFirst: domain.DefaultQuantityCap,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := domain.RestoreCart(0, tt.lines)

			lines := cart.Lines()
			if len(lines) != len(tt.wantIDs) {
				t.Fatalf("expected %d lines, got %d", len(tt.wantIDs), len(lines))
			}
			for i, id := range tt.wantIDs {
				if lines[i].ProductID != id {
					t.Errorf("line %d: expected %s, got %s", i, id, lines[i].ProductID)
				}
			}
			if lines[0].Quantity != tt.wantFirst {
				t.Errorf("expected first quantity %d, got %d", tt.wantFirst, lines[0].Quantity)
			}
		})
	}
}

func TestSnapshotIsolation(t *testing.T) {
	cart := domain.NewCart(0)
	_ = cart.AddItem(watchA, 2)

	snapshot := cart.Snapshot()
	snapshot.Lines[0].Quantity = 42

	if got := cart.Lines()[0].Quantity; got != 2 {
		t.Errorf("mutating a snapshot leaked into the cart: got quantity %d", got)
	}
}

func TestNewCheckoutRequest(t *testing.T) {
	cart := domain.NewCart(0)
	_ = cart.AddItem(watchA, 2)
	_ = cart.AddItem(watchB, 1)

	req := domain.NewCheckoutRequest(cart.Snapshot())

	if len(req.Lines) != 2 {
		t.Fatalf("expected 2 request lines, got %d", len(req.Lines))
	}
	if req.Lines[0].ProductID != "prod-a" || req.Lines[0].Quantity != 2 {
		t.Errorf("unexpected first line: %+v", req.Lines[0])
	}
	if req.Lines[1].ProductID != "prod-b" || req.Lines[1].Quantity != 1 {
		t.Errorf("unexpected second line: %+v", req.Lines[1])
	}
}
