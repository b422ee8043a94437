package types

import (
	"errors"
	"testing"
)

func TestArenaStatusActive(t *testing.T) {
	active := []ArenaStatus{ArenaWaiting, ArenaReady}
	for _, s := range active {
		if !s.Active() {
			t.Errorf("expected %q to be active", s)
		}
	}
	retired := []ArenaStatus{ArenaCompleted, ArenaCancelled}
	for _, s := range retired {
		if s.Active() {
			t.Errorf("expected %q to be retired", s)
		}
	}
}

func startableArena() *Arena {
	return &Arena{
		Code:         "ROOM11",
		Status:       ArenaReady,
		AgentAID:     NewAgentID(),
		AgentBID:     NewAgentID(),
		CreatorReady: true,
		JoinerReady:  true,
	}
}

func TestCanStart(t *testing.T) {
	if err := startableArena().CanStart(); err != nil {
		t.Errorf("expected startable, got %v", err)
	}

	a := startableArena()
	a.MatchID = NewMatchID()
	if err := a.CanStart(); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict with match committed, got %v", err)
	}

	a = startableArena()
	a.Status = ArenaCompleted
	if err := a.CanStart(); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict for completed room, got %v", err)
	}

	a = startableArena()
	a.Status = ArenaCancelled
	if err := a.CanStart(); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict for cancelled room, got %v", err)
	}

	a = startableArena()
	a.AgentBID = ""
	if err := a.CanStart(); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation without both agents, got %v", err)
	}

	a = startableArena()
	a.JoinerReady = false
	if err := a.CanStart(); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation without both ready, got %v", err)
	}
}

func TestDefaultRoundsOrder(t *testing.T) {
	want := []RoundName{RoundOpening, RoundRebuttal, RoundCrossfire, RoundClosing}
	if len(DefaultRounds) != len(want) {
		t.Fatalf("expected %d rounds, got %d", len(want), len(DefaultRounds))
	}
	for i, r := range want {
		if DefaultRounds[i] != r {
			t.Errorf("round %d: expected %q, got %q", i, r, DefaultRounds[i])
		}
	}
}
