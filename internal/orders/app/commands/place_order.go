package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/montluxe/storefront/internal/orders/domain"
	"github.com/montluxe/storefront/internal/orders/ports"
)

// maxCatalogLookups bounds concurrent catalog reads per submission.
const maxCatalogLookups = 8

type OrderLineInput struct {
	ProductID string
	Quantity  int
}

type PlaceOrderCommand struct {
	Lines []OrderLineInput
}

func (c PlaceOrderCommand) Validate() error {
	if len(c.Lines) == 0 {
		return errors.New("order must contain at least one line")
	}
	seen := make(map[string]struct{}, len(c.Lines))
	for _, line := range c.Lines {
		if line.ProductID == "" {
			return errors.New("product_id is required")
		}
		if line.Quantity < 1 {
			return fmt.Errorf("quantity for %s must be at least 1", line.ProductID)
		}
		if _, dup := seen[line.ProductID]; dup {
			return fmt.Errorf("duplicate line for product %s", line.ProductID)
		}
		seen[line.ProductID] = struct{}{}
	}
	return nil
}

type CommandHandler interface {
	Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Placement, error)
}

type PlaceOrderCommandHandler struct {
	repo    ports.OrderRepository
	catalog ports.CatalogReader
	events  ports.EventBus
}

func NewPlaceOrderCommandHandler(
	repo ports.OrderRepository,
	catalog ports.CatalogReader,
	events ports.EventBus,
) *PlaceOrderCommandHandler {
	return &PlaceOrderCommandHandler{
		repo:    repo,
		catalog: catalog,
		events:  events,
	}
}

// Handle validates every submitted line against the catalog. If any line is
// refused, no order is created and the full set of rejections is returned so
// the client can repair the cart in one pass.
func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Placement, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	lines, rejected, err := h.validateLines(ctx, cmd.Lines)
	if err != nil {
		return nil, err
	}

	if len(rejected) > 0 {
		ids := make([]string, len(rejected))
		for i, r := range rejected {
			ids[i] = r.ProductID
		}
		if err := h.events.PublishCheckoutRejected(ctx, ids); err != nil {
			return nil, fmt.Errorf("publish rejection event: %w", err)
		}
		return &domain.Placement{Rejected: rejected}, nil
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:        uuid.NewString(),
		Status:    domain.StatusPlaced,
		Lines:     lines,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	if err := h.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := h.events.PublishOrderPlaced(ctx, order.ID); err != nil {
		return &domain.Placement{Order: &order}, fmt.Errorf("order saved but failed to publish event: %w", err)
	}

	return &domain.Placement{Order: &order}, nil
}

func (h *PlaceOrderCommandHandler) validateLines(ctx context.Context, inputs []OrderLineInput) ([]domain.OrderLine, []domain.RejectedLine, error) {
	lines := make([]domain.OrderLine, len(inputs))

	var mu sync.Mutex
	var rejected []domain.RejectedLine

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxCatalogLookups)

	for i, input := range inputs {
		g.Go(func() error {
			product, err := h.catalog.GetProduct(ctx, input.ProductID)
			if errors.Is(err, ports.ErrProductNotFound) {
				mu.Lock()
				rejected = append(rejected, domain.RejectedLine{
					ProductID: input.ProductID,
					Reason:    domain.ReasonNotFound,
				})
				mu.Unlock()
				return nil
			}
			if err != nil {
				return fmt.Errorf("look up product %s: %w", input.ProductID, err)
			}

			if product.ItemQuantity < input.Quantity {
				mu.Lock()
				rejected = append(rejected, domain.RejectedLine{
					ProductID: input.ProductID,
					Reason:    domain.ReasonOutOfStock,
				})
				mu.Unlock()
				return nil
			}

			lines[i] = domain.OrderLine{
				ProductID:      input.ProductID,
				Quantity:       input.Quantity,
				UnitPriceCents: product.UnitPriceCents,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Lookups complete in arbitrary order; keep rejections in submission order.
	sort.Slice(rejected, func(a, b int) bool {
		return lineIndex(inputs, rejected[a].ProductID) < lineIndex(inputs, rejected[b].ProductID)
	})

	return lines, rejected, nil
}

func lineIndex(inputs []OrderLineInput, productID string) int {
	for i, input := range inputs {
		if input.ProductID == productID {
			return i
		}
	}
	return len(inputs)
}
