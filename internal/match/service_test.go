package match

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/user/debatearena/internal/debate"
	"github.com/user/debatearena/internal/judge"
	"github.com/user/debatearena/internal/state"
	"github.com/user/debatearena/internal/types"
	"github.com/user/debatearena/pkg/llm"
)

// pipelineProvider answers debater prompts with canned text and judge prompts
// with a fixed score payload, keyed off the system prompt.
type pipelineProvider struct {
	judgeJSON      string
	debaterPrompts []string
}

func (p *pipelineProvider) Complete(ctx context.Context, messages []llm.Message) (*llm.Response, error) {
	system := messages[0].Content
	if strings.Contains(system, "debate judge") {
		return &llm.Response{Content: p.judgeJSON}, nil
	}
	p.debaterPrompts = append(p.debaterPrompts, messages[1].Content)
	name := strings.TrimPrefix(system, "You are ")
	name = name[:strings.Index(name, " debating")]
	return &llm.Response{Content: name + " argues"}, nil
}

type fixture struct {
	stores   *state.Stores
	svc      *Service
	provider *pipelineProvider
	agentA   *types.Agent
	agentB   *types.Agent
}

func newFixture(t *testing.T, judgeJSON string) *fixture {
	t.Helper()
	ctx := context.Background()
	stores := state.NewMemoryStores()
	provider := &pipelineProvider{judgeJSON: judgeJSON}

	engine, err := debate.New(provider, "gpt-4o-mini", 0)
	if err != nil {
		t.Fatal(err)
	}
	panel := judge.NewPanel(judge.New(provider), 3)
	svc := NewService(stores.Agents, stores.Packs, stores.Matches, engine, panel,
		[]types.RoundName{types.RoundOpening}, 32)

	packA := &types.KnowledgePack{Title: "pack a", Content: "lunar facts"}
	packB := &types.KnowledgePack{Title: "pack b", Content: "asteroid facts"}
	if err := stores.Packs.Create(ctx, packA); err != nil {
		t.Fatal(err)
	}
	if err := stores.Packs.Create(ctx, packB); err != nil {
		t.Fatal(err)
	}

	agentA := &types.Agent{Name: "Alpha", PackIDs: []types.PackID{packA.ID}}
	agentB := &types.Agent{Name: "Beta", PackIDs: []types.PackID{packB.ID}}
	if err := stores.Agents.Create(ctx, agentA); err != nil {
		t.Fatal(err)
	}
	if err := stores.Agents.Create(ctx, agentB); err != nil {
		t.Fatal(err)
	}

	return &fixture{stores: stores, svc: svc, provider: provider, agentA: agentA, agentB: agentB}
}

func TestRunCompletesMatchAndUpdatesRatings(t *testing.T) {
	f := newFixture(t, `{"a": 1, "b": 0}`)
	ctx := context.Background()

	m, err := f.svc.Run(ctx, "space mining", f.agentA.ID, f.agentB.ID)
	if err != nil {
		t.Fatal(err)
	}

	if m.ID == "" {
		t.Error("expected persisted match ID")
	}
	if m.WinnerAgentID != f.agentA.ID {
		t.Errorf("expected A to win, got %q", m.WinnerAgentID)
	}
	if len(m.Rounds) != 2 {
		t.Errorf("expected 2 round entries, got %d", len(m.Rounds))
	}
	if len(m.JudgeScores) != 3 {
		t.Errorf("expected 3 judge scores, got %d", len(m.JudgeScores))
	}

	// Decisive 1/0 at equal ratings moves each side by k/2.
	gotA, err := f.stores.Agents.Get(ctx, f.agentA.ID)
	if err != nil {
		t.Fatal(err)
	}
	gotB, err := f.stores.Agents.Get(ctx, f.agentB.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gotA.Rating != 1016 {
		t.Errorf("expected A rating 1016, got %d", gotA.Rating)
	}
	if gotB.Rating != 984 {
		t.Errorf("expected B rating 984, got %d", gotB.Rating)
	}

	// The match is retrievable from the store.
	stored, err := f.stores.Matches.Get(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Topic != "space mining" {
		t.Errorf("unexpected stored topic %q", stored.Topic)
	}
}

func TestRunTieLeavesWinnerEmpty(t *testing.T) {
	f := newFixture(t, `{"a": 0.5, "b": 0.5}`)
	ctx := context.Background()

	m, err := f.svc.Run(ctx, "topic", f.agentA.ID, f.agentB.ID)
	if err != nil {
		t.Fatal(err)
	}
	if m.WinnerAgentID != "" {
		t.Errorf("expected tie, got winner %q", m.WinnerAgentID)
	}

	gotA, _ := f.stores.Agents.Get(ctx, f.agentA.ID)
	gotB, _ := f.stores.Agents.Get(ctx, f.agentB.ID)
	if gotA.Rating != 1000 || gotB.Rating != 1000 {
		t.Errorf("tie at equal ratings must not move ratings, got %d/%d", gotA.Rating, gotB.Rating)
	}
}

func TestRunRequiresTopic(t *testing.T) {
	f := newFixture(t, `{"a": 0.5, "b": 0.5}`)

	_, err := f.svc.Run(context.Background(), "", f.agentA.ID, f.agentB.ID)
	if !errors.Is(err, types.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestRunUnknownAgent(t *testing.T) {
	f := newFixture(t, `{"a": 0.5, "b": 0.5}`)

	_, err := f.svc.Run(context.Background(), "topic", types.NewAgentID(), f.agentB.ID)
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRunConcatenatesMultiplePacks(t *testing.T) {
	f := newFixture(t, `{"a": 0.5, "b": 0.5}`)
	ctx := context.Background()

	extra := &types.KnowledgePack{Title: "extra", Content: "orbital mechanics"}
	if err := f.stores.Packs.Create(ctx, extra); err != nil {
		t.Fatal(err)
	}
	agent := &types.Agent{Name: "Gamma", PackIDs: append(f.agentA.PackIDs, extra.ID)}
	if err := f.stores.Agents.Create(ctx, agent); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.Run(ctx, "topic", agent.ID, f.agentB.ID)
	if err != nil {
		t.Fatal(err)
	}

	// Gamma speaks first; its prompt carries both pack contents in order.
	prompt := f.provider.debaterPrompts[0]
	if !strings.Contains(prompt, "lunar facts\n\norbital mechanics") {
		t.Errorf("expected concatenated pack contents, got %q", prompt)
	}
}

// recordingAnnouncer captures the announced match.
type recordingAnnouncer struct {
	match *types.Match
	err   error
}

func (r *recordingAnnouncer) MatchCompleted(_ context.Context, m *types.Match, _, _ *types.Agent) error {
	r.match = m
	return r.err
}

func TestRunAnnouncesCompletedMatch(t *testing.T) {
	f := newFixture(t, `{"a": 1, "b": 0}`)
	announcer := &recordingAnnouncer{}
	f.svc.SetAnnouncer(announcer)

	m, err := f.svc.Run(context.Background(), "topic", f.agentA.ID, f.agentB.ID)
	if err != nil {
		t.Fatal(err)
	}
	if announcer.match == nil || announcer.match.ID != m.ID {
		t.Error("expected announcer to receive the completed match")
	}
}

func TestRunAnnouncerFailureIsNotFatal(t *testing.T) {
	f := newFixture(t, `{"a": 1, "b": 0}`)
	f.svc.SetAnnouncer(&recordingAnnouncer{err: errors.New("chat unreachable")})

	_, err := f.svc.Run(context.Background(), "topic", f.agentA.ID, f.agentB.ID)
	if err != nil {
		t.Fatalf("announcer failure must not fail the match: %v", err)
	}
}
