// Package memory provides an in-memory asset store for testing and
// development.
package memory

import (
	"context"
	"sync"

	"github.com/webpress/sitepub/pkg/sitepub"
)

// Store is an in-memory implementation of the sitepub.AssetStore interface.
type Store struct {
	mu     sync.Mutex
	assets map[string]struct{}

	// Deleted records every key passed to Delete, in order, for tests.
	Deleted []string
}

// New creates a new in-memory asset store.
func New() *Store {
	return &Store{assets: make(map[string]struct{})}
}

// Put registers an asset so a later Delete finds it.
func (s *Store) Put(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[key] = struct{}{}
}

// Has reports whether the asset is still present.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.assets[key]
	return ok
}

func (s *Store) Delete(ctx context.Context, filenameOrURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Deleted = append(s.Deleted, filenameOrURL)
	if _, exists := s.assets[filenameOrURL]; !exists {
		return sitepub.ErrAssetNotFound
	}
	delete(s.assets, filenameOrURL)
	return nil
}
