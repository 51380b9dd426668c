// Package file persists the cart as a single JSON record on disk, the durable
// client-side storage of the storefront.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/montluxe/storefront/internal/cart/domain"
)

// schemaVersion guards against reading records written by an incompatible
// release. A mismatch surfaces as an error, which the store treats as an
// empty cart.
const schemaVersion = 1

type record struct {
	Version int               `json:"version"`
	Lines   []domain.LineItem `json:"lines"`
}

// Storage reads and writes the cart record at a fixed path.
type Storage struct {
	path string
}

// NewStorage creates a file-backed Storage at the given path.
func NewStorage(path string) *Storage {
	return &Storage{path: path}
}

// Load reads the stored cart. A missing file is an empty cart; a file that
// cannot be parsed or carries an unknown schema version is an error.
func (s *Storage) Load(_ context.Context) ([]domain.LineItem, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cart file: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode cart file: %w", err)
	}
	if rec.Version != schemaVersion {
		return nil, fmt.Errorf("unsupported cart file version %d", rec.Version)
	}

	return rec.Lines, nil
}

// Save writes the full cart record. The write goes to a temporary file that
// is renamed over the previous record, so an interrupted write leaves the old
// record valid.
func (s *Storage) Save(_ context.Context, lines []domain.LineItem) error {
	data, err := json.Marshal(record{Version: schemaVersion, Lines: lines})
	if err != nil {
		return fmt.Errorf("encode cart record: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cart directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cart-*")
	if err != nil {
		return fmt.Errorf("create temp cart file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cart record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp cart file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace cart file: %w", err)
	}

	return nil
}
