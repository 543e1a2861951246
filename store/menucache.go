package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/ukotvy/website/model"
)

// ErrCacheMissing is returned when no scrape has ever written the menu
// cache file.
var ErrCacheMissing = errors.New("menu cache has not been written yet")

// MenuCacheStore persists the scraped daily menu document. A failed
// scrape never touches the file, so stale data keeps serving until the
// next successful run.
type MenuCacheStore struct {
	mu   sync.RWMutex
	path string
}

// NewMenuCacheStore creates a store for the menu cache file at path.
func NewMenuCacheStore(path string) *MenuCacheStore {
	return &MenuCacheStore{path: path}
}

// Load returns the last scraped menu document.
func (s *MenuCacheStore) Load() (model.MenuCache, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.MenuCache{}, ErrCacheMissing
		}
		return model.MenuCache{}, fmt.Errorf("read menu cache: %w", err)
	}
	var cache model.MenuCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return model.MenuCache{}, fmt.Errorf("decode menu cache: %w", err)
	}
	return cache, nil
}

// Replace atomically overwrites the whole cache document.
func (s *MenuCacheStore) Replace(cache model.MenuCache) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSONAtomic(s.path, cache)
}
