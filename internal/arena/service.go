// Package arena implements the matchmaking room state machine: creation
// with a unique room code, joining, per-side agent selection, readiness,
// and the guarded one-shot start transition.
package arena

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/user/debatearena/internal/types"
)

// Side selects which debate side an agent is assigned to.
type Side string

const (
	SideA Side = "a"
	SideB Side = "b"
)

// Seat selects which participant a readiness toggle belongs to.
type Seat string

const (
	SeatCreator Seat = "creator"
	SeatJoiner  Seat = "joiner"
)

// MatchRunner is the pipeline the start transition hands off to.
type MatchRunner interface {
	Run(ctx context.Context, topic string, agentAID, agentBID types.AgentID) (*types.Match, error)
}

// Service owns the room lifecycle. Start is serialized per room code, so at
// most one start can win even under concurrent callers; the commit transform
// re-checks MatchID as a second line of defense.
type Service struct {
	arenas       types.ArenaStore
	matches      types.MatchStore
	runner       MatchRunner
	codeLength   int
	codeAttempts int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates the room service. codeLength defaults to 6 and
// codeAttempts to 5 when zero-valued.
func NewService(arenas types.ArenaStore, matches types.MatchStore, runner MatchRunner, codeLength, codeAttempts int) *Service {
	if codeLength <= 0 {
		codeLength = 6
	}
	if codeAttempts <= 0 {
		codeAttempts = 5
	}
	return &Service{
		arenas:       arenas,
		matches:      matches,
		runner:       runner,
		codeLength:   codeLength,
		codeAttempts: codeAttempts,
		locks:        make(map[string]*sync.Mutex),
	}
}

const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

func newCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(b)
}

// Create opens a new room in waiting status. Code generation retries with a
// fresh random code on collision, up to the bounded attempt count.
func (s *Service) Create(ctx context.Context, topic, creatorID string) (*types.Arena, error) {
	if topic == "" || creatorID == "" {
		return nil, fmt.Errorf("topic and creator are required: %w", types.ErrValidation)
	}
	for attempt := 0; attempt < s.codeAttempts; attempt++ {
		arena := &types.Arena{
			Code:      newCode(s.codeLength),
			Topic:     topic,
			CreatorID: creatorID,
			Status:    types.ArenaWaiting,
		}
		err := s.arenas.Create(ctx, arena)
		if err == nil {
			return arena, nil
		}
		if !errors.Is(err, types.ErrConflict) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("no unique room code after %d attempts: %w", s.codeAttempts, types.ErrConflict)
}

// Get returns the room with the given code.
func (s *Service) Get(ctx context.Context, code string) (*types.Arena, error) {
	return s.arenas.GetByCode(ctx, code)
}

// Join seats a second participant. A room with a joiner already present
// rejects the call; on success the room advances to ready, which only means
// "two participants", not "may start".
func (s *Service) Join(ctx context.Context, code, joinerID string) (*types.Arena, error) {
	if joinerID == "" {
		return nil, fmt.Errorf("joiner is required: %w", types.ErrValidation)
	}
	return s.arenas.Update(ctx, code, func(a *types.Arena) error {
		if !a.Status.Active() {
			return fmt.Errorf("arena %s is %s: %w", a.Code, a.Status, types.ErrConflict)
		}
		if a.JoinerID != "" {
			return fmt.Errorf("arena %s already joined: %w", a.Code, types.ErrConflict)
		}
		a.JoinerID = joinerID
		a.Status = types.ArenaReady
		return nil
	})
}

// SelectAgent assigns an agent to one side, overwriting any previous
// selection. Either side may re-select at any time before start.
func (s *Service) SelectAgent(ctx context.Context, code string, side Side, agentID types.AgentID) (*types.Arena, error) {
	if side != SideA && side != SideB {
		return nil, fmt.Errorf("side must be %q or %q: %w", SideA, SideB, types.ErrValidation)
	}
	if agentID == "" {
		return nil, fmt.Errorf("agent is required: %w", types.ErrValidation)
	}
	return s.arenas.Update(ctx, code, func(a *types.Arena) error {
		if !a.Status.Active() {
			return fmt.Errorf("arena %s is %s: %w", a.Code, a.Status, types.ErrConflict)
		}
		if side == SideA {
			a.AgentAID = agentID
		} else {
			a.AgentBID = agentID
		}
		return nil
	})
}

// SetReady sets one seat's readiness flag. The set is idempotent and flags
// may be flipped back to false at any time before start.
func (s *Service) SetReady(ctx context.Context, code string, seat Seat, ready bool) (*types.Arena, error) {
	if seat != SeatCreator && seat != SeatJoiner {
		return nil, fmt.Errorf("seat must be %q or %q: %w", SeatCreator, SeatJoiner, types.ErrValidation)
	}
	return s.arenas.Update(ctx, code, func(a *types.Arena) error {
		if !a.Status.Active() {
			return fmt.Errorf("arena %s is %s: %w", a.Code, a.Status, types.ErrConflict)
		}
		if seat == SeatCreator {
			a.CreatorReady = ready
		} else {
			a.JoinerReady = ready
		}
		return nil
	})
}

// Start runs the match pipeline for a ready room and commits the result.
// The whole transition holds the room's lock, so a concurrent second start
// waits and then fails the guard instead of running the pipeline twice. The
// commit re-checks MatchID inside the store transform, keeping the room
// record the single source of truth for "already started".
func (s *Service) Start(ctx context.Context, code string) (*types.Arena, *types.Match, error) {
	lock := s.lock(code)
	lock.Lock()
	defer lock.Unlock()

	arena, err := s.arenas.GetByCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	if err := arena.CanStart(); err != nil {
		return nil, nil, err
	}

	m, err := s.runner.Run(ctx, arena.Topic, arena.AgentAID, arena.AgentBID)
	if err != nil {
		return nil, nil, err
	}

	committed, err := s.arenas.Update(ctx, code, func(a *types.Arena) error {
		if a.MatchID != "" {
			return fmt.Errorf("arena %s already has a match: %w", a.Code, types.ErrConflict)
		}
		a.MatchID = m.ID
		a.Status = types.ArenaCompleted
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// Cross-reference fix-up, the one permitted match mutation. Best-effort:
	// the match and room are already committed.
	updated, err := s.matches.Update(ctx, m.ID, func(mm *types.Match) error {
		mm.ArenaID = committed.ID
		return nil
	})
	if err != nil {
		slog.Warn("match cross-reference update failed", "match_id", m.ID, "arena", committed.Code, "error", err)
	} else {
		m = updated
	}

	return committed, m, nil
}

// lock returns the per-code mutex, creating it on first use.
func (s *Service) lock(code string) *sync.Mutex {
	code = strings.ToUpper(code)
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[code]
	if !ok {
		l = &sync.Mutex{}
		s.locks[code] = l
	}
	return l
}
