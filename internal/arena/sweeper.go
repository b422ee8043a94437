// internal/arena/sweeper.go
package arena

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/user/debatearena/internal/types"
)

// cronParser accepts both standard 5-field cron expressions and 6-field
// expressions with an optional seconds field.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Sweeper cancels rooms stuck in waiting or ready past their TTL, freeing
// their codes for reuse. It is the producer of the cancelled state.
type Sweeper struct {
	arenas types.ArenaStore
	ttl    time.Duration
	cron   *cron.Cron
}

// NewSweeper creates a Sweeper cancelling active rooms older than ttl.
func NewSweeper(arenas types.ArenaStore, ttl time.Duration) *Sweeper {
	return &Sweeper{
		arenas: arenas,
		ttl:    ttl,
		cron:   cron.New(cron.WithParser(cronParser)),
	}
}

// Start registers the sweep on the given cron schedule and starts the
// ticker.
func (s *Sweeper) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		n, err := s.Sweep(context.Background())
		if err != nil {
			slog.Error("arena sweep failed", "error", err)
			return
		}
		if n > 0 {
			slog.Info("swept stale arenas", "cancelled", n)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop stops the cron ticker.
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

// Sweep cancels every active room whose age exceeds the TTL and returns how
// many were cancelled. The status is re-checked inside the update transform
// so a room that started meanwhile is left alone.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	arenas, err := s.arenas.List(ctx)
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-s.ttl)
	cancelled := 0
	for _, a := range arenas {
		if !a.Status.Active() || a.CreatedAt.After(cutoff) {
			continue
		}
		_, err := s.arenas.Update(ctx, a.Code, func(room *types.Arena) error {
			if !room.Status.Active() {
				return types.ErrConflict
			}
			room.Status = types.ArenaCancelled
			return nil
		})
		if errors.Is(err, types.ErrConflict) {
			continue
		}
		if err != nil {
			return cancelled, err
		}
		cancelled++
	}
	return cancelled, nil
}
