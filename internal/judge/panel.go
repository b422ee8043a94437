// internal/judge/panel.go
package judge

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/user/debatearena/internal/types"
)

// Panel runs N independent judges over the same transcripts. The opinions
// are mutually independent, so they run concurrently; the result slice keeps
// a stable judge-1..judge-N order regardless of completion order.
type Panel struct {
	judge *Judge
	size  int
}

// NewPanel creates a panel of size independent judges sharing one provider.
func NewPanel(judge *Judge, size int) *Panel {
	if size < 1 {
		size = 1
	}
	return &Panel{judge: judge, size: size}
}

// Score collects one JudgeScore per panel member. Any judge's hard failure
// fails the whole panel.
func (p *Panel) Score(ctx context.Context, topic, transcriptA, transcriptB string) ([]types.JudgeScore, error) {
	scores := make([]types.JudgeScore, p.size)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.size; i++ {
		g.Go(func() error {
			a, b, err := p.judge.Score(ctx, topic, transcriptA, transcriptB)
			if err != nil {
				return err
			}
			scores[i] = types.JudgeScore{
				JudgeID: fmt.Sprintf("judge-%d", i+1),
				ScoreA:  a,
				ScoreB:  b,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// Aggregate reduces judge scores to the arithmetic mean per side. An empty
// slice is a precondition violation, never a silent zero.
func Aggregate(scores []types.JudgeScore) (float64, float64, error) {
	if len(scores) == 0 {
		return 0, 0, fmt.Errorf("aggregate requires at least one judge score: %w", types.ErrValidation)
	}
	var sumA, sumB float64
	for _, s := range scores {
		sumA += s.ScoreA
		sumB += s.ScoreB
	}
	n := float64(len(scores))
	return sumA / n, sumB / n, nil
}

// Winner applies the winner rule to aggregated means: exact equality is a
// tie (empty ID); otherwise the strictly greater side wins.
func Winner(agentA, agentB types.AgentID, meanA, meanB float64) types.AgentID {
	if meanA == meanB {
		return ""
	}
	if meanA > meanB {
		return agentA
	}
	return agentB
}
