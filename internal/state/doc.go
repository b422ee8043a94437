// Package state provides the persistence backends: JSON-file-backed stores
// under a data dir, and in-memory equivalents used as the fallback backend
// and by tests. The rest of the system only sees the interfaces in
// internal/types and never branches on backend identity.
package state

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/user/debatearena/internal/types"
)

// Compile-time interface compliance checks.
var _ types.AgentStore = (*AgentStore)(nil)
var _ types.PackStore = (*PackStore)(nil)
var _ types.MatchStore = (*MatchStore)(nil)
var _ types.ArenaStore = (*ArenaStore)(nil)

var _ types.AgentStore = (*MemoryAgentStore)(nil)
var _ types.PackStore = (*MemoryPackStore)(nil)
var _ types.MatchStore = (*MemoryMatchStore)(nil)
var _ types.ArenaStore = (*MemoryArenaStore)(nil)

// Stores bundles one store per entity, all from the same backend.
type Stores struct {
	Agents  types.AgentStore
	Packs   types.PackStore
	Matches types.MatchStore
	Arenas  types.ArenaStore
}

// Open returns file-backed stores rooted at dataDir. When the data dir
// cannot be created or written, it falls back to the in-memory backend with
// a logged warning instead of failing startup.
func Open(dataDir string) *Stores {
	if err := probe(dataDir); err != nil {
		slog.Warn("data dir unusable, falling back to in-memory stores", "data_dir", dataDir, "error", err)
		return NewMemoryStores()
	}
	return &Stores{
		Agents:  NewAgentStore(dataDir),
		Packs:   NewPackStore(dataDir),
		Matches: NewMatchStore(dataDir),
		Arenas:  NewArenaStore(dataDir),
	}
}

// NewMemoryStores returns a bundle of in-memory stores.
func NewMemoryStores() *Stores {
	return &Stores{
		Agents:  NewMemoryAgentStore(),
		Packs:   NewMemoryPackStore(),
		Matches: NewMemoryMatchStore(),
		Arenas:  NewMemoryArenaStore(),
	}
}

func probe(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	p := filepath.Join(dataDir, ".probe")
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		return err
	}
	return os.Remove(p)
}
