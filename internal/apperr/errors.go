// Package apperr defines the engine's cross-layer error taxonomy: one
// sentinel per distinct failure kind, wrapped with %w as it crosses from
// store to app to transport so errors.Is keeps working end to end.
package apperr

import "errors"

var (
	// ErrAuthFailure means the peer could not be authenticated at connect time.
	ErrAuthFailure = errors.New("authentication failed")
	// ErrNotParticipant means the authenticated user is not white/black on this match.
	ErrNotParticipant = errors.New("not a participant in this match")
	// ErrMatchNotOngoing means a move was submitted against a match that is not in the ongoing phase.
	ErrMatchNotOngoing = errors.New("match not ongoing")
	// ErrMatchNotWaiting means a claim/join was attempted on a match that is not waiting for a player.
	ErrMatchNotWaiting = errors.New("match not waiting")
	// ErrNotYourTurn means the move's player does not match the authoritative next player.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrNumberingConflict means two appenders raced for the same move_number.
	ErrNumberingConflict = errors.New("move numbering conflict")
	// ErrStoreFailure wraps any other persistence-layer error surfaced to a client.
	ErrStoreFailure = errors.New("store failure")
	// ErrCorruptLog means history replay could not apply a logged move.
	ErrCorruptLog = errors.New("corrupt move log")
	// ErrMatchNotFound means no match exists for the given id.
	ErrMatchNotFound = errors.New("match not found")
	// ErrNotOwner means the actor does not own the resource they tried to act on.
	ErrNotOwner = errors.New("actor is not a participant")
)
