// Package cart implements the client-held shopping cart: a single owned store
// for the selected products, durable across restarts, plus the coordinator
// that turns the cart into a submitted order.
package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/montluxe/storefront/internal/cart/domain"
	"github.com/montluxe/storefront/internal/cart/metrics"
	"github.com/montluxe/storefront/internal/cart/ports"
)

// Listener observes committed cart mutations. It is invoked synchronously
// with the snapshot the mutation produced, after the mutation has been
// applied and persisted.
type Listener func(domain.Snapshot)

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithQuantityCap overrides the per-line quantity cap.
func WithQuantityCap(cap int) StoreOption {
	return func(s *Store) { s.quantityCap = cap }
}

// WithLogger sets the logger used for absorbed persistence failures.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

// WithMetrics enables mutation and persistence metrics.
func WithMetrics(m *metrics.Metrics) StoreOption {
	return func(s *Store) { s.metrics = m }
}

// Store is the single source of truth for cart contents. Every page holds a
// reference to the same instance; mutations are serialized, persisted through
// the storage port, and announced to subscribers before the mutating call
// returns.
type Store struct {
	storage     ports.Storage
	logger      *slog.Logger
	metrics     *metrics.Metrics
	quantityCap int

	mu        sync.Mutex
	cart      domain.Cart
	listeners map[int]Listener
	nextID    int
}

// NewStore builds a Store and restores any persisted cart. A missing, corrupt
// or schema-mismatched record yields an empty cart, never an error: losing a
// saved cart must not block the storefront from starting.
func NewStore(ctx context.Context, storage ports.Storage, opts ...StoreOption) *Store {
	s := &Store{
		storage:     storage,
		logger:      slog.Default(),
		quantityCap: domain.DefaultQuantityCap,
		listeners:   make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}

	lines, err := storage.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "stored cart unreadable, starting empty", "error", err)
		lines = nil
	}
	s.cart = domain.RestoreCart(s.quantityCap, lines)

	return s
}

// AddItem inserts the product into the cart or increments its existing line.
// The unit price snapshot is captured on first insert only.
func (s *Store) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	return s.mutate(ctx, "add_item", func(cart *domain.Cart) error {
		return cart.AddItem(product, quantity)
	})
}

// UpdateQuantity sets the quantity of an existing line item. A non-positive
// quantity removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	return s.mutate(ctx, "update_quantity", func(cart *domain.Cart) error {
		return cart.SetQuantity(productID, quantity)
	})
}

// RemoveItem drops the line item for the product. Absent products are a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	_ = s.mutate(ctx, "remove_item", func(cart *domain.Cart) error {
		cart.RemoveItem(productID)
		return nil
	})
}

// RemoveItems drops the line items for all named products in one committed
// mutation. Used when the backend rejects specific lines at checkout.
func (s *Store) RemoveItems(ctx context.Context, productIDs []string) {
	_ = s.mutate(ctx, "remove_items", func(cart *domain.Cart) error {
		cart.RemoveItems(productIDs)
		return nil
	})
}

// Clear empties the cart and persists the empty state.
func (s *Store) Clear(ctx context.Context) {
	_ = s.mutate(ctx, "clear", func(cart *domain.Cart) error {
		cart.Clear()
		return nil
	})
}

// Snapshot returns an immutable copy of the current cart state.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot()
}

// Subscribe registers a listener for committed mutations and returns its
// unsubscribe function.
func (s *Store) Subscribe(listener Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = listener

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// mutate applies op to the cart, persists the result and notifies listeners.
// A failed persist is logged and absorbed: the in-memory cart stays
// authoritative for the session. Listeners run outside the lock so they may
// call back into the store.
func (s *Store) mutate(ctx context.Context, operation string, op func(*domain.Cart) error) error {
	s.mu.Lock()
	if err := op(&s.cart); err != nil {
		s.mu.Unlock()
		return err
	}

	if err := s.storage.Save(ctx, s.cart.Lines()); err != nil {
		s.logger.WarnContext(ctx, "persisting cart failed, in-memory state kept",
			"operation", operation,
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.RecordPersistenceFailure(ctx)
		}
	}

	snapshot := s.cart.Snapshot()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordMutation(ctx, operation)
	}

	for _, l := range listeners {
		l(snapshot)
	}

	return nil
}
