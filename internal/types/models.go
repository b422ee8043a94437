// internal/types/models.go
package types

import (
	"fmt"
	"time"
)

// InitialRating is the rating assigned to every newly created agent.
const InitialRating = 1000

// Agent is a rated debating entity bound to one or more knowledge packs.
type Agent struct {
	ID             AgentID   `json:"id"`
	Name           string    `json:"name"`
	PackIDs        []PackID  `json:"pack_ids"`
	Rating         int       `json:"rating"`
	OwnerID        string    `json:"owner_id,omitempty"`
	Specialization string    `json:"specialization,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// KnowledgePack is a free-text corpus an agent argues from. Content is read
// once per agent per match; later edits are not observed by an in-flight match.
type KnowledgePack struct {
	ID        PackID    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	OwnerID   string    `json:"owner_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RoundName identifies one named phase of a debate.
type RoundName string

const (
	RoundOpening   RoundName = "opening"
	RoundRebuttal  RoundName = "rebuttal"
	RoundCrossfire RoundName = "crossfire"
	RoundClosing   RoundName = "closing"
)

// DefaultRounds is the standard debate sequence. Both agents produce exactly
// one entry per round, in sequence order.
var DefaultRounds = []RoundName{RoundOpening, RoundRebuttal, RoundCrossfire, RoundClosing}

// RoundEntry is a single utterance by one agent in one round.
// Slice order is generation order and is semantically significant.
type RoundEntry struct {
	Round   RoundName `json:"round"`
	AgentID AgentID   `json:"agent_id"`
	Text    string    `json:"text"`
}

// JudgeScore is one judge's scoring of both sides. Scores are in [0,1] and
// need not sum to 1.
type JudgeScore struct {
	JudgeID string  `json:"judge_id"`
	ScoreA  float64 `json:"score_a"`
	ScoreB  float64 `json:"score_b"`
}

// Match is a completed debate. An empty WinnerAgentID means the match was a
// tie. ArenaID is filled in once by the arena flow after the room commits;
// otherwise a match is never mutated after creation.
type Match struct {
	ID            MatchID      `json:"id"`
	Topic         string       `json:"topic"`
	AgentAID      AgentID      `json:"agent_a_id"`
	AgentBID      AgentID      `json:"agent_b_id"`
	Rounds        []RoundEntry `json:"rounds"`
	JudgeScores   []JudgeScore `json:"judge_scores"`
	WinnerAgentID AgentID      `json:"winner_agent_id,omitempty"`
	ArenaID       ArenaID      `json:"arena_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// ArenaStatus is the lifecycle state of a room.
type ArenaStatus string

const (
	ArenaWaiting   ArenaStatus = "waiting"
	ArenaReady     ArenaStatus = "ready"
	ArenaCompleted ArenaStatus = "completed"
	ArenaCancelled ArenaStatus = "cancelled"
)

// Active reports whether the status still holds its room code exclusively.
func (s ArenaStatus) Active() bool {
	return s == ArenaWaiting || s == ArenaReady
}

// Arena is a matchmaking room. The code is short, unique among active rooms,
// and case-normalized to upper case. MatchID is set at most once, by the
// start transition.
type Arena struct {
	ID           ArenaID     `json:"id"`
	Code         string      `json:"code"`
	Topic        string      `json:"topic"`
	CreatorID    string      `json:"creator_id"`
	JoinerID     string      `json:"joiner_id,omitempty"`
	AgentAID     AgentID     `json:"agent_a_id,omitempty"`
	AgentBID     AgentID     `json:"agent_b_id,omitempty"`
	CreatorReady bool        `json:"creator_ready"`
	JoinerReady  bool        `json:"joiner_ready"`
	Status       ArenaStatus `json:"status"`
	MatchID      MatchID     `json:"match_id,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// CanStart checks the start guard: both agents selected, both sides ready,
// and no match committed yet. The MatchID check is what makes a second start
// on a completed room fail closed.
func (a *Arena) CanStart() error {
	if a.MatchID != "" || a.Status == ArenaCompleted {
		return fmt.Errorf("arena %s already has a match: %w", a.Code, ErrConflict)
	}
	if a.Status == ArenaCancelled {
		return fmt.Errorf("arena %s is cancelled: %w", a.Code, ErrConflict)
	}
	if a.AgentAID == "" || a.AgentBID == "" {
		return fmt.Errorf("both sides must select an agent: %w", ErrValidation)
	}
	if !a.CreatorReady || !a.JoinerReady {
		return fmt.Errorf("both participants must be ready: %w", ErrValidation)
	}
	return nil
}
