// internal/state/memory.go
package state

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/user/debatearena/internal/types"
)

// The memory stores mirror the file-backed stores entity for entity. They
// serve as the fallback backend when the data dir is unusable and as the
// backend for tests.

// MemoryAgentStore is an in-memory AgentStore.
type MemoryAgentStore struct {
	mu     sync.RWMutex
	agents []*types.Agent
}

func NewMemoryAgentStore() *MemoryAgentStore {
	return &MemoryAgentStore{}
}

func (s *MemoryAgentStore) Create(_ context.Context, agent *types.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if agent.ID == "" {
		agent.ID = types.NewAgentID()
	}
	if agent.Rating == 0 {
		agent.Rating = types.InitialRating
	}
	if agent.CreatedAt.IsZero() {
		agent.CreatedAt = time.Now()
	}
	clone := *agent
	s.agents = append(s.agents, &clone)
	return nil
}

func (s *MemoryAgentStore) Get(_ context.Context, id types.AgentID) (*types.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.agents {
		if a.ID == id {
			clone := *a
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("agent %s: %w", id, types.ErrNotFound)
}

func (s *MemoryAgentStore) List(_ context.Context) ([]*types.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.Agent, 0, len(s.agents))
	for _, a := range s.agents {
		clone := *a
		out = append(out, &clone)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rating > out[j].Rating
	})
	return out, nil
}

func (s *MemoryAgentStore) SetRating(_ context.Context, id types.AgentID, rating int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.agents {
		if a.ID == id {
			a.Rating = rating
			return nil
		}
	}
	return fmt.Errorf("agent %s: %w", id, types.ErrNotFound)
}

// MemoryPackStore is an in-memory PackStore.
type MemoryPackStore struct {
	mu    sync.RWMutex
	packs []*types.KnowledgePack
}

func NewMemoryPackStore() *MemoryPackStore {
	return &MemoryPackStore{}
}

func (s *MemoryPackStore) Create(_ context.Context, pack *types.KnowledgePack) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pack.ID == "" {
		pack.ID = types.NewPackID()
	}
	if pack.CreatedAt.IsZero() {
		pack.CreatedAt = time.Now()
	}
	clone := *pack
	s.packs = append(s.packs, &clone)
	return nil
}

func (s *MemoryPackStore) Get(_ context.Context, id types.PackID) (*types.KnowledgePack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.packs {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("knowledge pack %s: %w", id, types.ErrNotFound)
}

func (s *MemoryPackStore) List(_ context.Context) ([]*types.KnowledgePack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.KnowledgePack, 0, len(s.packs))
	for _, p := range s.packs {
		clone := *p
		out = append(out, &clone)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// MemoryMatchStore is an in-memory MatchStore.
type MemoryMatchStore struct {
	mu      sync.RWMutex
	matches []*types.Match
}

func NewMemoryMatchStore() *MemoryMatchStore {
	return &MemoryMatchStore{}
}

func (s *MemoryMatchStore) Create(_ context.Context, match *types.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if match.ID == "" {
		match.ID = types.NewMatchID()
	}
	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now()
	}
	clone := *match
	s.matches = append(s.matches, &clone)
	return nil
}

func (s *MemoryMatchStore) Get(_ context.Context, id types.MatchID) (*types.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.matches {
		if m.ID == id {
			clone := *m
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("match %s: %w", id, types.ErrNotFound)
}

func (s *MemoryMatchStore) List(_ context.Context) ([]*types.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.Match, 0, len(s.matches))
	for _, m := range s.matches {
		clone := *m
		out = append(out, &clone)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryMatchStore) Update(_ context.Context, id types.MatchID, fn func(*types.Match) error) (*types.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		if m.ID == id {
			if err := fn(m); err != nil {
				return nil, err
			}
			clone := *m
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("match %s: %w", id, types.ErrNotFound)
}

// MemoryArenaStore is an in-memory ArenaStore.
type MemoryArenaStore struct {
	mu     sync.RWMutex
	arenas []*types.Arena
}

func NewMemoryArenaStore() *MemoryArenaStore {
	return &MemoryArenaStore{}
}

func (s *MemoryArenaStore) Create(_ context.Context, arena *types.Arena) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	arena.Code = strings.ToUpper(arena.Code)
	for _, a := range s.arenas {
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
	clone := *arena
	s.arenas = append(s.arenas, &clone)
	return nil
}

func (s *MemoryArenaStore) GetByCode(_ context.Context, code string) (*types.Arena, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arena, err := findByCode(s.arenas, code)
	if err != nil {
		return nil, err
	}
	clone := *arena
	return &clone, nil
}

func (s *MemoryArenaStore) List(_ context.Context) ([]*types.Arena, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.Arena, 0, len(s.arenas))
	for _, a := range s.arenas {
		clone := *a
		out = append(out, &clone)
	}
	return out, nil
}

func (s *MemoryArenaStore) Update(_ context.Context, code string, fn func(*types.Arena) error) (*types.Arena, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	arena, err := findByCode(s.arenas, code)
	if err != nil {
		return nil, err
	}
	if err := fn(arena); err != nil {
		return nil, err
	}
	clone := *arena
	return &clone, nil
}
