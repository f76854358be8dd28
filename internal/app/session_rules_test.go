package app

import (
	"testing"

	"checkers/internal/apperr"
	"checkers/internal/domain"
	"checkers/internal/ports"
)

func TestDecideMoveRejectsWrongTurn(t *testing.T) {
	replay := domain.ReplayResult{Board: domain.InitialBoard(), NextPlayer: domain.White}
	var rules SessionRules

	_, err := rules.DecideMove(replay, domain.Black, domain.Move{From: domain.Pos{2, 1}, To: domain.Pos{3, 2}})
	if err != apperr.ErrNotYourTurn {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}
}

func TestDecideMoveRejectsIllegalMove(t *testing.T) {
	replay := domain.ReplayResult{Board: domain.InitialBoard(), NextPlayer: domain.White}
	var rules SessionRules

	_, err := rules.DecideMove(replay, domain.White, domain.Move{From: domain.Pos{5, 0}, To: domain.Pos{6, 1}})
	if _, ok := domain.AsIllegalMove(err); !ok {
		t.Fatalf("err = %v, want IllegalMove", err)
	}
}

func TestDecideMoveOpeningStepPassesTurn(t *testing.T) {
	replay := domain.ReplayResult{Board: domain.InitialBoard(), NextPlayer: domain.White}
	var rules SessionRules

	out, err := rules.DecideMove(replay, domain.White, domain.Move{From: domain.Pos{5, 0}, To: domain.Pos{4, 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.MustContinue {
		t.Fatalf("must_continue = true, want false for a non-capture step")
	}
	if out.NextPlayer != domain.Black {
		t.Fatalf("next player = %s, want black", out.NextPlayer)
	}
	if out.Terminal {
		t.Fatalf("terminal = true, want false")
	}
}

func TestDecideMoveChainCaptureKeepsSamePlayer(t *testing.T) {
	var b domain.Board
	b[5][2] = domain.Cell{Has: true, Piece: domain.Piece{Color: domain.Red}}
	b[4][3] = domain.Cell{Has: true, Piece: domain.Piece{Color: domain.Black}}
	b[2][5] = domain.Cell{Has: true, Piece: domain.Piece{Color: domain.Black}}
	replay := domain.ReplayResult{Board: b, NextPlayer: domain.White, MustCapture: true}
	var rules SessionRules

	out, err := rules.DecideMove(replay, domain.White, domain.Move{From: domain.Pos{5, 2}, To: domain.Pos{3, 4}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.MustContinue {
		t.Fatalf("must_continue = false, want true (another capture is available from the landing cell)")
	}
	if out.NextPlayer != domain.White {
		t.Fatalf("next player = %s, want white (chain continues)", out.NextPlayer)
	}
	if out.ForcedFrom == nil || *out.ForcedFrom != (domain.Pos{3, 4}) {
		t.Fatalf("forced_from = %+v, want (3,4)", out.ForcedFrom)
	}
}

func TestDecideMoveDetectsStalemateLoss(t *testing.T) {
	// Black's one man at (0,1) is boxed in: both forward steps are occupied
	// by red, and the only capture landing beyond them is blocked too. The
	// mover (white) plays an unrelated filler move on the far side of the
	// board, so after it black has no legal move at all and loses.
	var b domain.Board
	b[0][1] = domain.Cell{Has: true, Piece: domain.Piece{Color: domain.Black}}
	b[1][0] = domain.Cell{Has: true, Piece: domain.Piece{Color: domain.Red}}
	b[1][2] = domain.Cell{Has: true, Piece: domain.Piece{Color: domain.Red}}
	b[2][3] = domain.Cell{Has: true, Piece: domain.Piece{Color: domain.Red}}
	b[5][6] = domain.Cell{Has: true, Piece: domain.Piece{Color: domain.Red}}
	replay := domain.ReplayResult{Board: b, NextPlayer: domain.White}
	var rules SessionRules

	out, err := rules.DecideMove(replay, domain.White, domain.Move{From: domain.Pos{5, 6}, To: domain.Pos{4, 7}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Terminal {
		t.Fatalf("expected black to be boxed in with no legal move")
	}
	if out.Result != ports.ResultWhite {
		t.Fatalf("result = %s, want white (the mover wins)", out.Result)
	}
}
