// Package ports declares the interfaces the app layer depends on and the
// concrete adapters (Postgres stores, JWT auth) get built against:
// persistence, authentication, and the domain records they pass around.
package ports

import (
	"context"
	"time"

	"checkers/internal/domain"
)

// MatchStatus is a match's lifecycle phase.
type MatchStatus string

const (
	StatusWaiting  MatchStatus = "waiting"
	StatusOngoing  MatchStatus = "ongoing"
	StatusFinished MatchStatus = "finished"
	StatusAborted  MatchStatus = "aborted"
)

// MatchResult is the outcome recorded once a match finishes.
type MatchResult string

const (
	ResultWhite MatchResult = "white"
	ResultBlack MatchResult = "black"
	ResultDraw  MatchResult = "draw"
	ResultNone  MatchResult = "none"
)

// MatchReason explains why a match reached its result.
type MatchReason string

const (
	ReasonNormal    MatchReason = "normal"
	ReasonResign    MatchReason = "resign"
	ReasonTimeout   MatchReason = "timeout"
	ReasonAgreement MatchReason = "agreement"
	ReasonAbandon   MatchReason = "abandon"
	ReasonNone      MatchReason = "none"
)

// Match is one row of the matches table.
type Match struct {
	MatchID    string
	WhiteUser  string
	BlackUser  string
	Status     MatchStatus
	Result     MatchResult
	Reason     MatchReason
	StartedAt  time.Time
	FinishedAt *time.Time
}

// RoleOf returns which role userID plays in the match, or "" if they are
// not a participant.
func (m Match) RoleOf(userID string) domain.Role {
	switch userID {
	case m.WhiteUser:
		return domain.White
	case m.BlackUser:
		return domain.Black
	default:
		return ""
	}
}

// MatchMove is one row of the match_moves table.
type MatchMove struct {
	ID         int64
	MatchID    string
	MoveNumber int64
	Player     domain.Role
	Move       domain.Move
	CreatedAt  time.Time
}

// MatchStore is the match lifecycle store: creation, claiming, lookup, and
// finish/expiry of matches. See store.match_store for the Postgres adapter.
type MatchStore interface {
	// CreateWaiting creates a new match with a single occupant seated at
	// role, status waiting, and returns it.
	CreateWaiting(ctx context.Context, matchID, userID string, role domain.Role) (Match, error)
	// FindOldestWaitingWithEmptySlot returns the oldest waiting match that
	// has an empty seat and does not already seat userID, or ok=false if
	// none exists.
	FindOldestWaitingWithEmptySlot(ctx context.Context, userID string) (Match, bool, error)
	// FindOwnedWaiting returns the waiting match userID already owns, if any.
	FindOwnedWaiting(ctx context.Context, userID string) (Match, bool, error)
	// FindOngoingFor returns the ongoing match userID is a participant of,
	// if any.
	FindOngoingFor(ctx context.Context, userID string) (Match, bool, error)
	// ClaimWaiting seats userID into the empty slot of a waiting match and
	// flips it to ongoing, returning the updated match. Fails if the match
	// is no longer waiting or has no empty slot.
	ClaimWaiting(ctx context.Context, matchID, userID string) (Match, error)
	// Get loads a match by id.
	Get(ctx context.Context, matchID string) (Match, error)
	// UpdateFinish transitions a match to finished (or aborted) with the
	// given result, reason, and timestamp.
	UpdateFinish(ctx context.Context, matchID string, status MatchStatus, result MatchResult, reason MatchReason, at time.Time) (Match, error)
	// DeleteStaleWaiting removes waiting matches started before olderThan
	// and returns how many were removed.
	DeleteStaleWaiting(ctx context.Context, olderThan time.Time) (int64, error)
}

// MoveStore is the append-only move log store.
type MoveStore interface {
	// Append assigns the next contiguous move_number for matchID and
	// inserts the move, all under the match row's lock. Returns
	// apperr.ErrNumberingConflict if a concurrent appender raced it.
	Append(ctx context.Context, matchID string, player domain.Role, move domain.Move) (MatchMove, error)
	// Load returns every move logged for matchID, ordered by move_number.
	Load(ctx context.Context, matchID string) ([]MatchMove, error)
}
