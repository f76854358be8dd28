package app

import (
	"checkers/internal/apperr"
	"checkers/internal/domain"
	"checkers/internal/ports"
)

// MoveOutcome is the pure, derived result of applying one submitted move
// against the authoritative replayed state: everything the session needs
// to persist, broadcast, and decide whether the match just ended.
type MoveOutcome struct {
	Board        domain.Board
	WasCapture   bool
	KingedNow    bool
	NextPlayer   domain.Role
	ForcedFrom   *domain.Pos
	MustCapture  bool
	MustContinue bool
	Terminal     bool
	Result       ports.MatchResult
	Reason       ports.MatchReason
}

// SessionRules decides the outcome of one submitted move against an
// authoritative ReplayResult. It touches no store or transport; the game
// session wires its output to persistence and broadcast.
type SessionRules struct{}

// DecideMove validates move for role against the state replay derived and
// computes the turn/continuation/termination consequences. It returns
// apperr.ErrNotYourTurn if role is not the authoritative next player, or
// the domain's *IllegalMove error if the move itself is illegal.
func (SessionRules) DecideMove(replay domain.ReplayResult, role domain.Role, move domain.Move) (MoveOutcome, error) {
	if role != replay.NextPlayer {
		return MoveOutcome{}, apperr.ErrNotYourTurn
	}

	color := domain.ColorOf(role)
	res, err := domain.ValidateAndApply(replay.Board, color, move, replay.ForcedFrom, replay.MustCapture)
	if err != nil {
		return MoveOutcome{}, err
	}

	out := MoveOutcome{
		Board:      res.Board,
		WasCapture: res.WasCapture,
		KingedNow:  res.KingedNow,
	}

	if res.WasCapture && !res.KingedNow && len(domain.PieceCaptures(res.Board, res.NewPos.Row, res.NewPos.Col)) > 0 {
		pos := res.NewPos
		out.NextPlayer = role
		out.ForcedFrom = &pos
		out.MustCapture = true
		out.MustContinue = true
		return out, nil
	}

	next := role.Opposite()
	out.NextPlayer = next
	out.ForcedFrom = nil
	out.MustCapture = len(domain.AllCapturesForColor(res.Board, domain.ColorOf(next))) > 0

	if !domain.HasAnyLegalMove(res.Board, domain.ColorOf(next)) {
		out.Terminal = true
		out.Reason = ports.ReasonNormal
		if role == domain.White {
			out.Result = ports.ResultWhite
		} else {
			out.Result = ports.ResultBlack
		}
	}

	return out, nil
}
