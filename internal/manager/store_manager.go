// Package manager manages multiple atom stores, one per project
// directory, keeping a bounded number open at a time.
package manager

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/duynguyendang/atomspace/pkg/common/errors"
	"github.com/duynguyendang/atomspace/pkg/space"
	"github.com/duynguyendang/atomspace/pkg/space/store"
)

// MaxOpenStores bounds the number of simultaneously open stores.
const MaxOpenStores = 10

// StoreManager manages AtomStore instances keyed by project ID. Eviction
// from the LRU closes (and snapshots) the evicted store.
type StoreManager struct {
	baseDir  string
	readOnly bool
	mu       sync.Mutex
	stores   *lru.Cache[string, *store.AtomStore]
}

// NewStoreManager creates a manager rooted at baseDir; each project is a
// subdirectory holding one store.
func NewStoreManager(baseDir string, readOnly bool) *StoreManager {
	cache, _ := lru.NewWithEvict[string, *store.AtomStore](MaxOpenStores, func(key string, value *store.AtomStore) {
		_ = value.Close()
	})
	return &StoreManager{
		baseDir:  baseDir,
		readOnly: readOnly,
		stores:   cache,
	}
}

// GetStore retrieves a store by project ID, opening it if necessary.
func (sm *StoreManager) GetStore(projectID string) (*store.AtomStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: missing project ID", errors.ErrInvalidInput)
	}
	if filepath.Base(projectID) != projectID {
		return nil, fmt.Errorf("%w: bad project ID %q", errors.ErrInvalidInput, projectID)
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if st, ok := sm.stores.Get(projectID); ok {
		return st, nil
	}

	dir := filepath.Join(sm.baseDir, projectID)
	if _, err := os.Stat(dir); err != nil {
		if sm.readOnly {
			return nil, fmt.Errorf("%w: project %q", errors.ErrNotFound, projectID)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create project dir: %w", err)
		}
	}

	cfg := store.DefaultConfig(dir)
	cfg.ReadOnly = sm.readOnly
	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open store for %q: %w", projectID, err)
	}
	sm.stores.Add(projectID, st)
	return st, nil
}

// GetSpace returns the live space of a project's store.
func (sm *StoreManager) GetSpace(projectID string) (*space.Space, error) {
	st, err := sm.GetStore(projectID)
	if err != nil {
		return nil, err
	}
	return st.Space(), nil
}

// ListProjects returns the project IDs present under the base directory.
func (sm *StoreManager) ListProjects() ([]string, error) {
	entries, err := os.ReadDir(sm.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read base dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

// CloseAll closes every open store, snapshotting each.
func (sm *StoreManager) CloseAll() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.stores.Purge() // eviction callback closes each store
}
