package memory

import (
	"context"
	"sync"

	"github.com/montluxe/storefront/internal/cart/domain"
)

// Storage keeps the cart record in memory, useful for tests and ephemeral
// sessions.
type Storage struct {
	mu    sync.RWMutex
	lines []domain.LineItem
}

// NewStorage constructs an empty in-memory Storage.
func NewStorage() *Storage {
	return &Storage{}
}

// Load returns a copy of the stored lines.
func (s *Storage) Load(_ context.Context) ([]domain.LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lines == nil {
		return nil, nil
	}
	lines := make([]domain.LineItem, len(s.lines))
	copy(lines, s.lines)
	return lines, nil
}

// Save overwrites the stored record with a copy of the given lines.
func (s *Storage) Save(_ context.Context, lines []domain.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]domain.LineItem, len(lines))
	copy(stored, lines)
	s.lines = stored
	return nil
}
