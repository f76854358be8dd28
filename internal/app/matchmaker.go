// Package app contains the use-cases that sit between the transport layer
// (httpapi, ws) and the domain rules engine and stores: matchmaking and the
// per-move session pipeline.
package app

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"checkers/internal/domain"
	"checkers/internal/ports"
)

var (
	ErrNotOwner        = errors.New("actor is not a participant")
	ErrNotPlaying      = errors.New("match not in ongoing phase")
	ErrUnknownPlayer   = errors.New("player not found")
	ErrAlreadyFinished = errors.New("match already finished")
)

// FoundMatch is what the matchmaker hands back to a player: the match
// record, which role they were seated at, and whether they are still
// waiting for an opponent.
type FoundMatch struct {
	Match   ports.Match
	Role    domain.Role
	Waiting bool
}

// Matchmaker implements find-or-create matchmaking and resignation over a
// MatchStore.
type Matchmaker struct {
	matches            ports.MatchStore
	staleWaiterHorizon time.Duration
	newMatchID         func() string
}

// NewMatchmaker builds a Matchmaker backed by matches, evicting waiting
// matches older than staleWaiterHorizon on every find-or-create call that
// does not return the caller's existing ongoing match.
func NewMatchmaker(matches ports.MatchStore, staleWaiterHorizon time.Duration) *Matchmaker {
	return &Matchmaker{
		matches:            matches,
		staleWaiterHorizon: staleWaiterHorizon,
		newMatchID:         func() string { return uuid.NewString() },
	}
}

// FindOrCreate seats user into a match: their existing ongoing match if
// any, otherwise the oldest compatible waiting match, otherwise a match of
// their own that still needs an opponent, otherwise a freshly created
// waiting match with a randomly assigned color.
func (m *Matchmaker) FindOrCreate(ctx context.Context, user string) (FoundMatch, error) {
	if ongoing, ok, err := m.matches.FindOngoingFor(ctx, user); err != nil {
		return FoundMatch{}, err
	} else if ok {
		return FoundMatch{Match: ongoing, Role: ongoing.RoleOf(user), Waiting: false}, nil
	}

	if _, err := m.matches.DeleteStaleWaiting(ctx, time.Now().Add(-m.staleWaiterHorizon)); err != nil {
		return FoundMatch{}, err
	}

	if candidate, ok, err := m.matches.FindOldestWaitingWithEmptySlot(ctx, user); err != nil {
		return FoundMatch{}, err
	} else if ok {
		claimed, err := m.matches.ClaimWaiting(ctx, candidate.MatchID, user)
		if err != nil {
			return FoundMatch{}, err
		}
		return FoundMatch{Match: claimed, Role: claimed.RoleOf(user), Waiting: false}, nil
	}

	if owned, ok, err := m.matches.FindOwnedWaiting(ctx, user); err != nil {
		return FoundMatch{}, err
	} else if ok {
		return FoundMatch{Match: owned, Role: owned.RoleOf(user), Waiting: true}, nil
	}

	role := domain.White
	if rand.Intn(2) == 1 {
		role = domain.Black
	}
	created, err := m.matches.CreateWaiting(ctx, m.newMatchID(), user, role)
	if err != nil {
		return FoundMatch{}, err
	}
	return FoundMatch{Match: created, Role: role, Waiting: true}, nil
}

// Resign ends matchID with user's opponent as winner by resignation. Fails
// if user is not a participant or the match is not ongoing.
func (m *Matchmaker) Resign(ctx context.Context, matchID, user string) (ports.Match, error) {
	match, err := m.matches.Get(ctx, matchID)
	if err != nil {
		return ports.Match{}, err
	}
	role := match.RoleOf(user)
	if role == "" {
		return ports.Match{}, ErrNotOwner
	}
	if match.Status != ports.StatusOngoing {
		return ports.Match{}, ErrNotPlaying
	}

	result := ports.ResultBlack
	if role == domain.Black {
		result = ports.ResultWhite
	}
	return m.matches.UpdateFinish(ctx, matchID, ports.StatusFinished, result, ports.ReasonResign, time.Now())
}
