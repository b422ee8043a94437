package judge

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"testing"

	"github.com/user/debatearena/internal/types"
	"github.com/user/debatearena/pkg/llm"
)

func TestPanelScoreCollectsAllJudges(t *testing.T) {
	var calls atomic.Int64
	provider := &mockProvider{
		completeFunc: func(ctx context.Context, messages []llm.Message) (*llm.Response, error) {
			calls.Add(1)
			return &llm.Response{Content: `{"a": 0.6, "b": 0.4}`}, nil
		},
	}
	panel := NewPanel(New(provider), 3)

	scores, err := panel.Score(context.Background(), "topic", "ta", "tb")
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 provider calls, got %d", calls.Load())
	}
	for i, s := range scores {
		if s.JudgeID != fmt.Sprintf("judge-%d", i+1) {
			t.Errorf("expected stable judge order, got %q at index %d", s.JudgeID, i)
		}
		if s.ScoreA != 0.6 || s.ScoreB != 0.4 {
			t.Errorf("unexpected scores: %+v", s)
		}
	}
}

func TestPanelSizeFloorsAtOne(t *testing.T) {
	panel := NewPanel(New(staticProvider(`{"a": 1, "b": 0}`)), 0)

	scores, err := panel.Score(context.Background(), "topic", "ta", "tb")
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 1 {
		t.Errorf("expected 1 score, got %d", len(scores))
	}
}

func TestPanelScoreFailsOnAnyJudgeFailure(t *testing.T) {
	var calls atomic.Int64
	provider := &mockProvider{
		completeFunc: func(ctx context.Context, messages []llm.Message) (*llm.Response, error) {
			if calls.Add(1) == 2 {
				return nil, errors.New("connection reset")
			}
			return &llm.Response{Content: `{"a": 0.5, "b": 0.5}`}, nil
		},
	}
	panel := NewPanel(New(provider), 3)

	_, err := panel.Score(context.Background(), "topic", "ta", "tb")
	if !errors.Is(err, types.ErrCollaborator) {
		t.Errorf("expected ErrCollaborator, got %v", err)
	}
}

func TestAggregateMean(t *testing.T) {
	scores := []types.JudgeScore{
		{JudgeID: "judge-1", ScoreA: 0.8, ScoreB: 0.2},
		{JudgeID: "judge-2", ScoreA: 0.6, ScoreB: 0.4},
	}
	meanA, meanB, err := Aggregate(scores)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(meanA-0.7) > 1e-9 {
		t.Errorf("expected meanA=0.7, got %v", meanA)
	}
	if math.Abs(meanB-0.3) > 1e-9 {
		t.Errorf("expected meanB=0.3, got %v", meanB)
	}
}

func TestAggregateEmptyIsValidationError(t *testing.T) {
	_, _, err := Aggregate(nil)
	if !errors.Is(err, types.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestWinnerRule(t *testing.T) {
	a := types.AgentID("agent-a")
	b := types.AgentID("agent-b")

	if w := Winner(a, b, 0.7, 0.3); w != a {
		t.Errorf("expected A, got %q", w)
	}
	if w := Winner(a, b, 0.3, 0.7); w != b {
		t.Errorf("expected B, got %q", w)
	}
	if w := Winner(a, b, 0.5, 0.5); w != "" {
		t.Errorf("expected tie (empty), got %q", w)
	}
}
