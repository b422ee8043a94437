// internal/state/arena.go
package state

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/user/debatearena/internal/types"
)

// ArenaStore is a JSON-file-backed room store. Codes are case-normalized to
// upper case and must be unique among active (waiting/ready) rooms.
type ArenaStore struct {
	path string
	mu   sync.RWMutex
}

// NewArenaStore creates a file-backed ArenaStore rooted at the given data dir.
func NewArenaStore(dataDir string) *ArenaStore {
	return &ArenaStore{path: filepath.Join(dataDir, "arenas.json")}
}

func (s *ArenaStore) load() ([]*types.Arena, error) {
	var arenas []*types.Arena
	if err := loadFile(s.path, &arenas); err != nil {
		return nil, err
	}
	return arenas, nil
}

// Create persists a new room. The code is normalized to upper case; a code
// already held by an active room is rejected with ErrConflict.
func (s *ArenaStore) Create(_ context.Context, arena *types.Arena) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	arenas, err := s.load()
	if err != nil {
		return err
	}
	arena.Code = strings.ToUpper(arena.Code)
	for _, a := range arenas {
		if a.Code == arena.Code && a.Status.Active() {
			return fmt.Errorf("room code %s already in use: %w", arena.Code, types.ErrConflict)
		}
	}
	if arena.ID == "" {
		arena.ID = types.NewArenaID()
	}
	if arena.Status == "" {
		arena.Status = types.ArenaWaiting
	}
	if arena.CreatedAt.IsZero() {
		arena.CreatedAt = time.Now()
	}
	arenas = append(arenas, arena)
	return saveFile(s.path, arenas)
}

// GetByCode returns the room with the given code, preferring an active room
// when a retired room once held the same code.
func (s *ArenaStore) GetByCode(_ context.Context, code string) (*types.Arena, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	arenas, err := s.load()
	if err != nil {
		return nil, err
	}
	return findByCode(arenas, code)
}

// List returns all rooms in insertion order.
func (s *ArenaStore) List(_ context.Context) ([]*types.Arena, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

// Update applies fn to the stored room under the store lock and persists the
// result. An error from fn aborts the update and is returned unchanged, so
// guard checks inside fn are atomic with the write.
func (s *ArenaStore) Update(_ context.Context, code string, fn func(*types.Arena) error) (*types.Arena, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	arenas, err := s.load()
	if err != nil {
		return nil, err
	}
	arena, err := findByCode(arenas, code)
	if err != nil {
		return nil, err
	}
	if err := fn(arena); err != nil {
		return nil, err
	}
	if err := saveFile(s.path, arenas); err != nil {
		return nil, err
	}
	return arena, nil
}

func findByCode(arenas []*types.Arena, code string) (*types.Arena, error) {
	code = strings.ToUpper(code)
	var retired *types.Arena
	for _, a := range arenas {
		if a.Code != code {
			continue
		}
		if a.Status.Active() {
			return a, nil
		}
		retired = a
	}
	if retired != nil {
		return retired, nil
	}
	return nil, fmt.Errorf("arena %s: %w", code, types.ErrNotFound)
}
