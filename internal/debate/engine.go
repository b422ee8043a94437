// Package debate drives the generation collaborator through the ordered
// round sequence of a match.
package debate

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/user/debatearena/internal/types"
	"github.com/user/debatearena/pkg/llm"
)

// Engine generates the round-by-round transcript for two agents.
type Engine struct {
	provider        llm.Provider
	tokenizer       *tiktoken.Tiktoken
	knowledgeBudget int
}

// New creates an Engine. model selects the tokenizer used to budget
// knowledge content inside prompts (e.g. "gpt-4o-mini"); knowledgeBudget is
// the maximum number of knowledge tokens injected per prompt, 0 disables
// truncation.
func New(provider llm.Provider, model string, knowledgeBudget int) (*Engine, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		// Fallback to cl100k_base for unknown models
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("get tokenizer: %w", err)
		}
	}
	return &Engine{
		provider:        provider,
		tokenizer:       enc,
		knowledgeBudget: knowledgeBudget,
	}, nil
}

// Run produces the ordered transcript for the given round sequence. Within
// each round A speaks first; B's prompt is built after A's entry is
// appended, so B always sees A's current-round statement and A never sees
// B's. That asymmetry is a protocol property and must not be reordered.
// Any generation failure aborts the whole run; no partial transcript is
// returned.
func (e *Engine) Run(ctx context.Context, agentA, agentB *types.Agent, topic, knowledgeA, knowledgeB string, rounds []types.RoundName) ([]types.RoundEntry, error) {
	if len(rounds) == 0 {
		return nil, fmt.Errorf("round sequence must not be empty: %w", types.ErrValidation)
	}

	knowledgeA = e.truncate(knowledgeA)
	knowledgeB = e.truncate(knowledgeB)

	var entries []types.RoundEntry
	for _, round := range rounds {
		entryA, err := e.generate(ctx, agentA, topic, round, knowledgeA, priorContext(entries, agentB.ID))
		if err != nil {
			return nil, err
		}
		entries = append(entries, entryA)

		entryB, err := e.generate(ctx, agentB, topic, round, knowledgeB, priorContext(entries, agentA.ID))
		if err != nil {
			return nil, err
		}
		entries = append(entries, entryB)
	}
	return entries, nil
}

func (e *Engine) generate(ctx context.Context, agent *types.Agent, topic string, round types.RoundName, knowledge, opponentSaid string) (types.RoundEntry, error) {
	system := fmt.Sprintf("You are %s debating on %s", agent.Name, topic)
	prompt := fmt.Sprintf("%s based on knowledge: %s\nOpponent said: %s", round, knowledge, opponentSaid)

	text, err := llm.Generate(ctx, e.provider, system, prompt)
	if err != nil {
		return types.RoundEntry{}, fmt.Errorf("%w: generate %s for %s: %v", types.ErrCollaborator, round, agent.Name, err)
	}
	return types.RoundEntry{Round: round, AgentID: agent.ID, Text: text}, nil
}

// priorContext concatenates one agent's previous entries in round order,
// each tagged with its round name. It is injected into the opponent's
// prompt as "what the opponent said".
func priorContext(entries []types.RoundEntry, agentID types.AgentID) string {
	var lines []string
	for _, entry := range entries {
		if entry.AgentID == agentID {
			lines = append(lines, fmt.Sprintf("%s: %s", entry.Round, entry.Text))
		}
	}
	return strings.Join(lines, "\n")
}

// truncate caps knowledge content at the engine's token budget, decoding
// back to text at the cut.
func (e *Engine) truncate(knowledge string) string {
	if e.knowledgeBudget <= 0 {
		return knowledge
	}
	tokens := e.tokenizer.Encode(knowledge, nil, nil)
	if len(tokens) <= e.knowledgeBudget {
		return knowledge
	}
	return e.tokenizer.Decode(tokens[:e.knowledgeBudget])
}
