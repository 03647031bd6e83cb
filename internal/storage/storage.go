package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/ctx-theatre/internal/logger"
	"github.com/pfrederiksen/ctx-theatre/internal/production"
)

// Storage persists a production catalog to a single JSON file
type Storage struct {
	path string
}

// New creates a Storage for path, expanding a leading "~/" to the home directory.
func New(path string) (*Storage, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	if path == "" {
		return nil, fmt.Errorf("store path is empty")
	}

	return &Storage{path: path}, nil
}

// Path returns the resolved file path
func (s *Storage) Path() string {
	return s.path
}

// Load reads the catalog from disk. A missing file yields an empty catalog,
// and so does a file that is not valid JSON (after logging a warning).
func (s *Storage) Load() (production.Catalog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return production.NewCatalog(), nil
		}
		return nil, fmt.Errorf("reading store: %w", err)
	}

	catalog := production.NewCatalog()
	if len(bytes.TrimSpace(data)) == 0 {
		return catalog, nil
	}

	if err := json.Unmarshal(data, &catalog); err != nil {
		logger.Warn("store is not valid JSON, starting empty", logger.Fields{
			"path":  s.path,
			"error": err.Error(),
		})
		return production.NewCatalog(), nil
	}

	for slug, p := range catalog {
		if p == nil {
			delete(catalog, slug)
			continue
		}
		if p.Slug == "" {
			p.Slug = slug
		}
	}

	return catalog, nil
}

// Save writes the catalog as an indented JSON object keyed by slug. Markup
// and non-ASCII text are written literally. The file is replaced atomically.
func (s *Storage) Save(catalog production.Catalog) error {
	if catalog == nil {
		catalog = production.NewCatalog()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(catalog); err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".store-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("setting store permissions: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing store: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing store: %w", err)
	}
	return nil
}
