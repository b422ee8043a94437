// Package match runs the full debate pipeline for a pair of agents:
// round generation, judging, aggregation, persistence, and rating updates.
package match

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/user/debatearena/internal/debate"
	"github.com/user/debatearena/internal/elo"
	"github.com/user/debatearena/internal/judge"
	"github.com/user/debatearena/internal/types"
)

// Announcer publishes a completed match to an external channel. Failures
// are logged, never propagated.
type Announcer interface {
	MatchCompleted(ctx context.Context, m *types.Match, agentA, agentB *types.Agent) error
}

// Service is the match pipeline. It is shared by the standalone match
// operation and the arena start transition.
type Service struct {
	agents    types.AgentStore
	packs     types.PackStore
	matches   types.MatchStore
	engine    *debate.Engine
	panel     *judge.Panel
	rounds    []types.RoundName
	k         float64
	announcer Announcer
}

// NewService wires the pipeline. rounds defaults to types.DefaultRounds and
// k to elo.DefaultK when zero-valued.
func NewService(agents types.AgentStore, packs types.PackStore, matches types.MatchStore, engine *debate.Engine, panel *judge.Panel, rounds []types.RoundName, k float64) *Service {
	if len(rounds) == 0 {
		rounds = types.DefaultRounds
	}
	if k == 0 {
		k = elo.DefaultK
	}
	return &Service{
		agents:  agents,
		packs:   packs,
		matches: matches,
		engine:  engine,
		panel:   panel,
		rounds:  rounds,
		k:       k,
	}
}

// SetAnnouncer attaches an optional completed-match announcer.
func (s *Service) SetAnnouncer(a Announcer) {
	s.announcer = a
}

// Run executes one full match. Order matters: nothing is persisted until the
// transcript and all judge scores exist; the match is persisted before the
// rating updates, so a rating-update failure leaves a committed match and a
// recoverable rating inconsistency rather than a lost match.
func (s *Service) Run(ctx context.Context, topic string, agentAID, agentBID types.AgentID) (*types.Match, error) {
	if topic == "" {
		return nil, fmt.Errorf("topic is required: %w", types.ErrValidation)
	}

	agentA, err := s.agents.Get(ctx, agentAID)
	if err != nil {
		return nil, err
	}
	agentB, err := s.agents.Get(ctx, agentBID)
	if err != nil {
		return nil, err
	}

	// Knowledge is read once per agent per match; later pack edits are not
	// observed by this match.
	knowledgeA, err := s.knowledge(ctx, agentA)
	if err != nil {
		return nil, err
	}
	knowledgeB, err := s.knowledge(ctx, agentB)
	if err != nil {
		return nil, err
	}

	entries, err := s.engine.Run(ctx, agentA, agentB, topic, knowledgeA, knowledgeB, s.rounds)
	if err != nil {
		return nil, err
	}

	transcriptA := transcript(entries, agentA.ID)
	transcriptB := transcript(entries, agentB.ID)

	scores, err := s.panel.Score(ctx, topic, transcriptA, transcriptB)
	if err != nil {
		return nil, err
	}
	meanA, meanB, err := judge.Aggregate(scores)
	if err != nil {
		return nil, err
	}

	m := &types.Match{
		Topic:         topic,
		AgentAID:      agentA.ID,
		AgentBID:      agentB.ID,
		Rounds:        entries,
		JudgeScores:   scores,
		WinnerAgentID: judge.Winner(agentA.ID, agentB.ID, meanA, meanB),
	}
	if err := s.matches.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("%w: persist match: %v", types.ErrCollaborator, err)
	}

	newA, newB := elo.Update(agentA.Rating, agentB.Rating, meanA, meanB, s.k)
	if err := s.agents.SetRating(ctx, agentA.ID, newA); err != nil {
		return nil, fmt.Errorf("%w: persist rating for %s after match %s: %v", types.ErrCollaborator, agentA.ID, m.ID, err)
	}
	if err := s.agents.SetRating(ctx, agentB.ID, newB); err != nil {
		return nil, fmt.Errorf("%w: persist rating for %s after match %s: %v", types.ErrCollaborator, agentB.ID, m.ID, err)
	}

	if s.announcer != nil {
		if err := s.announcer.MatchCompleted(ctx, m, agentA, agentB); err != nil {
			slog.Warn("match announcement failed", "match_id", m.ID, "error", err)
		}
	}

	slog.Info("match completed",
		"match_id", m.ID,
		"topic", topic,
		"agent_a", agentA.Name,
		"agent_b", agentB.Name,
		"score_a", meanA,
		"score_b", meanB,
		"winner", m.WinnerAgentID,
	)
	return m, nil
}

// knowledge concatenates the contents of all of the agent's packs in listed
// order.
func (s *Service) knowledge(ctx context.Context, agent *types.Agent) (string, error) {
	var parts []string
	for _, id := range agent.PackIDs {
		pack, err := s.packs.Get(ctx, id)
		if err != nil {
			return "", err
		}
		parts = append(parts, pack.Content)
	}
	return strings.Join(parts, "\n\n"), nil
}

// transcript joins one agent's entries in round order.
func transcript(entries []types.RoundEntry, agentID types.AgentID) string {
	var texts []string
	for _, e := range entries {
		if e.AgentID == agentID {
			texts = append(texts, e.Text)
		}
	}
	return strings.Join(texts, "\n")
}
