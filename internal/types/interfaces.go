// internal/types/interfaces.go
package types

import "context"

// AgentStore owns agent entities. Create assigns the ID and creation
// timestamp when unset. List returns agents ordered by rating, descending.
type AgentStore interface {
	Create(ctx context.Context, agent *Agent) error
	Get(ctx context.Context, id AgentID) (*Agent, error)
	List(ctx context.Context) ([]*Agent, error)
	SetRating(ctx context.Context, id AgentID, rating int) error
}

// PackStore owns knowledge packs. List returns newest first.
type PackStore interface {
	Create(ctx context.Context, pack *KnowledgePack) error
	Get(ctx context.Context, id PackID) (*KnowledgePack, error)
	List(ctx context.Context) ([]*KnowledgePack, error)
}

// MatchStore owns match entities. List returns newest first. Update applies
// fn to the stored match under the store's lock and persists the result; it
// returns ErrNotFound (and applies nothing) when the ID is absent.
type MatchStore interface {
	Create(ctx context.Context, match *Match) error
	Get(ctx context.Context, id MatchID) (*Match, error)
	List(ctx context.Context) ([]*Match, error)
	Update(ctx context.Context, id MatchID, fn func(*Match) error) (*Match, error)
}

// ArenaStore owns rooms. Create rejects a code already held by an active
// room with ErrConflict. GetByCode normalizes case. Update applies fn to the
// stored arena atomically under the store's lock; an error from fn aborts
// the update and is returned unchanged.
type ArenaStore interface {
	Create(ctx context.Context, arena *Arena) error
	GetByCode(ctx context.Context, code string) (*Arena, error)
	List(ctx context.Context) ([]*Arena, error)
	Update(ctx context.Context, code string, fn func(*Arena) error) (*Arena, error)
}
