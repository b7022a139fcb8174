// Package fs provides a filesystem-backed asset store. Asset URLs are
// resolved to paths under the base directory by their final path segments.
package fs

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/webpress/sitepub/pkg/sitepub"
)

// Config options for the filesystem asset store.
type Config struct {
	BaseDir string // Base directory the upload layer writes assets into
}

// Store is a filesystem implementation of the sitepub.AssetStore interface.
type Store struct {
	baseDir string
}

// New creates a new filesystem asset store.
func New(config Config) (*Store, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &Store{baseDir: config.BaseDir}, nil
}

func (s *Store) Delete(ctx context.Context, filenameOrURL string) error {
	rel, err := s.resolve(filenameOrURL)
	if err != nil {
		return err
	}

	filePath := filepath.Join(s.baseDir, rel)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return sitepub.ErrAssetNotFound
	}
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return nil
}

// resolve strips an URL down to its path and rejects anything escaping the
// base directory.
func (s *Store) resolve(filenameOrURL string) (string, error) {
	name := filenameOrURL
	if u, err := url.Parse(filenameOrURL); err == nil && u.Path != "" {
		name = u.Path
	}
	name = strings.TrimPrefix(name, "/")

	clean := filepath.Clean(name)
	if clean == "." || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid asset path %q", filenameOrURL)
	}
	return clean, nil
}
