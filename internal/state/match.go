// internal/state/match.go
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

// MatchStore is a JSON-file-backed match store. Matches are immutable after
// creation except for the Update transform used by the arena flow.
type MatchStore struct {
	path string
	mu   sync.RWMutex
}

// NewMatchStore creates a file-backed MatchStore rooted at the given data dir.
func NewMatchStore(dataDir string) *MatchStore {
	return &MatchStore{path: filepath.Join(dataDir, "matches.json")}
}

func (s *MatchStore) load() ([]*types.Match, error) {
	var matches []*types.Match
	if err := loadFile(s.path, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// Create persists a new match, assigning identity and creation timestamp
// when unset.
func (s *MatchStore) Create(_ context.Context, match *types.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := s.load()
	if err != nil {
		return err
	}
	if match.ID == "" {
		match.ID = types.NewMatchID()
	}
	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now()
	}
	matches = append(matches, match)
	return saveFile(s.path, matches)
}

// Get returns the match with the given ID.
func (s *MatchStore) Get(_ context.Context, id types.MatchID) (*types.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, fmt.Errorf("match %s: %w", id, types.ErrNotFound)
}

// List returns all matches, newest first.
func (s *MatchStore) List(_ context.Context) ([]*types.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := s.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

// Update applies fn to the stored match under the store lock and persists
// the result. An error from fn aborts the update. An absent ID returns
// ErrNotFound without applying anything.
func (s *MatchStore) Update(_ context.Context, id types.MatchID, fn func(*types.Match) error) (*types.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		if m.ID == id {
			if err := fn(m); err != nil {
				return nil, err
			}
			if err := saveFile(s.path, matches); err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	return nil, fmt.Errorf("match %s: %w", id, types.ErrNotFound)
}
