package domain

import "errors"

// ErrCorruptLog is returned by Replay when a logged move cannot be applied
// against the rules engine at the position it was logged at.
var ErrCorruptLog = errors.New("corrupt move log")

// ReplayResult is the authoritative state Replay derives from a log: the
// board, whose turn is next, and the multi-jump continuation state.
type ReplayResult struct {
	Board       Board
	NextPlayer  Role
	ForcedFrom  *Pos
	MustCapture bool
}

// Replay reconstructs board, next-player, forced-continuation position
// and the must-capture flag by applying every logged move in order,
// starting from the initial position. It is deterministic and O(len(log)).
//
// Per move it trusts the log's Player field over its own turn prediction
// (resetting any in-progress chain rather than rejecting the log) so that
// a log written by an older or different engine still replays instead of
// aborting — see the corpus's original Python implementation, which has
// the same tolerance.
func Replay(log []LoggedMove) (ReplayResult, error) {
	board := InitialBoard()
	nextPlayer := White
	var forcedFrom *Pos

	for _, entry := range log {
		player := entry.Player
		if player != nextPlayer {
			nextPlayer = player
			forcedFrom = nil
		}

		color := ColorOf(player)
		mustCapture := len(AllCapturesForColor(board, color)) > 0 || forcedFrom != nil

		res, err := ValidateAndApply(board, color, entry.Move, forcedFrom, mustCapture)
		if err != nil {
			return ReplayResult{}, ErrCorruptLog
		}
		board = res.Board

		if res.WasCapture && !res.KingedNow && len(PieceCaptures(board, res.NewPos.Row, res.NewPos.Col)) > 0 {
			pos := res.NewPos
			forcedFrom = &pos
			// same player continues; nextPlayer unchanged
			continue
		}
		forcedFrom = nil
		nextPlayer = player.Opposite()
	}

	nextColor := ColorOf(nextPlayer)
	mustCapture := len(AllCapturesForColor(board, nextColor)) > 0

	return ReplayResult{
		Board:       board,
		NextPlayer:  nextPlayer,
		ForcedFrom:  forcedFrom,
		MustCapture: mustCapture,
	}, nil
}
