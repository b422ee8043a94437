// internal/state/agent.go
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

// AgentStore is a JSON-file-backed agent store. Agents live in agents.json
// under the data dir.
type AgentStore struct {
	path string
	mu   sync.RWMutex
}

// NewAgentStore creates a file-backed AgentStore rooted at the given data dir.
func NewAgentStore(dataDir string) *AgentStore {
	return &AgentStore{path: filepath.Join(dataDir, "agents.json")}
}

func (s *AgentStore) load() ([]*types.Agent, error) {
	var agents []*types.Agent
	if err := loadFile(s.path, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// Create persists a new agent, assigning identity, creation timestamp, and
// the initial rating when unset.
func (s *AgentStore) Create(_ context.Context, agent *types.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	agents, err := s.load()
	if err != nil {
		return err
	}
	if agent.ID == "" {
		agent.ID = types.NewAgentID()
	}
	if agent.Rating == 0 {
		agent.Rating = types.InitialRating
	}
	if agent.CreatedAt.IsZero() {
		agent.CreatedAt = time.Now()
	}
	agents = append(agents, agent)
	return saveFile(s.path, agents)
}

// Get returns the agent with the given ID.
func (s *AgentStore) Get(_ context.Context, id types.AgentID) (*types.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agents, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, a := range agents {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, fmt.Errorf("agent %s: %w", id, types.ErrNotFound)
}

// List returns all agents ordered by rating, descending (leaderboard order).
func (s *AgentStore) List(_ context.Context) ([]*types.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agents, err := s.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(agents, func(i, j int) bool {
		return agents[i].Rating > agents[j].Rating
	})
	return agents, nil
}

// SetRating overwrites the agent's rating.
func (s *AgentStore) SetRating(_ context.Context, id types.AgentID, rating int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	agents, err := s.load()
	if err != nil {
		return err
	}
	for _, a := range agents {
		if a.ID == id {
			a.Rating = rating
			return saveFile(s.path, agents)
		}
	}
	return fmt.Errorf("agent %s: %w", id, types.ErrNotFound)
}
