// internal/state/pack.go
package state

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/user/debatearena/internal/types"
)

// PackStore is a JSON-file-backed knowledge pack store.
type PackStore struct {
	path string
	mu   sync.RWMutex
}

// NewPackStore creates a file-backed PackStore rooted at the given data dir.
func NewPackStore(dataDir string) *PackStore {
	return &PackStore{path: filepath.Join(dataDir, "packs.json")}
}

func (s *PackStore) load() ([]*types.KnowledgePack, error) {
	var packs []*types.KnowledgePack
	if err := loadFile(s.path, &packs); err != nil {
		return nil, err
	}
	return packs, nil
}

// Create persists a new pack, assigning identity and creation timestamp
// when unset.
func (s *PackStore) Create(_ context.Context, pack *types.KnowledgePack) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	packs, err := s.load()
	if err != nil {
		return err
	}
	if pack.ID == "" {
		pack.ID = types.NewPackID()
	}
	if pack.CreatedAt.IsZero() {
		pack.CreatedAt = time.Now()
	}
	packs = append(packs, pack)
	return saveFile(s.path, packs)
}

// Get returns the pack with the given ID.
func (s *PackStore) Get(_ context.Context, id types.PackID) (*types.KnowledgePack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	packs, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, p := range packs {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("knowledge pack %s: %w", id, types.ErrNotFound)
}

// List returns all packs, newest first.
func (s *PackStore) List(_ context.Context) ([]*types.KnowledgePack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	packs, err := s.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(packs, func(i, j int) bool {
		return packs[i].CreatedAt.After(packs[j].CreatedAt)
	})
	return packs, nil
}
