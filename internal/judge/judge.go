// Package judge scores completed debate transcripts and aggregates the
// opinions of an independent judge panel.
package judge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/user/debatearena/internal/types"
	"github.com/user/debatearena/pkg/llm"
)

const system = "You are a strict debate judge. Score A and B from 0 to 1."

// Judge produces one scoring opinion over a topic and two transcripts.
type Judge struct {
	provider llm.Provider
}

// New creates a Judge backed by the given generation provider.
func New(provider llm.Provider) *Judge {
	return &Judge{provider: provider}
}

// scorePayload is the structured payload the judge prompt asks for. Pointer
// fields distinguish missing or non-numeric values from a literal zero.
type scorePayload struct {
	A *float64 `json:"a"`
	B *float64 `json:"b"`
}

// Score asks the provider to score both transcripts and returns the pair of
// scores, each clamped to [0,1]. A provider failure is a hard failure of the
// call. Unparsable or non-numeric output falls back to the deterministic
// length-ratio heuristic, so judging never fails on malformed model output.
func (j *Judge) Score(ctx context.Context, topic, transcriptA, transcriptB string) (float64, float64, error) {
	prompt := fmt.Sprintf("Topic: %s\nA: %s\nB: %s\nReturn JSON {\"a\": number, \"b\": number}",
		topic, transcriptA, transcriptB)

	out, err := llm.Generate(ctx, j.provider, system, prompt)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: judge generation: %v", types.ErrCollaborator, err)
	}

	var payload scorePayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil || payload.A == nil || payload.B == nil {
		a, b := lengthFallback(transcriptA, transcriptB)
		return a, b, nil
	}
	return clamp01(*payload.A), clamp01(*payload.B), nil
}

// lengthFallback scores each side proportionally to the character length of
// its transcript. Both sides get 0.5 when the combined length is zero.
func lengthFallback(transcriptA, transcriptB string) (float64, float64) {
	lenA := len(transcriptA)
	lenB := len(transcriptB)
	total := lenA + lenB
	if total == 0 {
		return 0.5, 0.5
	}
	return float64(lenA) / float64(total), float64(lenB) / float64(total)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
