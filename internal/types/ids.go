// internal/types/ids.go
package types

import "github.com/google/uuid"

type AgentID string
type PackID string
type MatchID string
type ArenaID string

func NewAgentID() AgentID {
	return AgentID(uuid.New().String())
}

func NewPackID() PackID {
	return PackID(uuid.New().String())
}

func NewMatchID() MatchID {
	return MatchID(uuid.New().String())
}

func NewArenaID() ArenaID {
	return ArenaID(uuid.New().String())
}
