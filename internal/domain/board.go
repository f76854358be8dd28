// Package domain implements the checkers rules engine: a pure, immutable
// board representation and the move-validation and history-replay logic
// that derive authoritative game state from a log of moves.
package domain

// Color identifies a piece's side. RED maps to the "white" role, BLACK to
// the "black" role (see Role in types.go).
type Color string

const (
	Red   Color = "RED"
	Black Color = "BLACK"
)

// Opposite returns the other color.
func (c Color) Opposite() Color {
	if c == Red {
		return Black
	}
	return Red
}

// Piece is a single occupant of a playable cell.
type Piece struct {
	Color Color
	King  bool
}

// Cell is one square of the board: either empty or holding a piece.
type Cell struct {
	Has   bool
	Piece Piece
}

// Board is an 8x8 grid of cells, row 0 at the top. Board is a plain value
// type (an array of arrays of a tagless struct) so that `b2 := b1` is
// already a full, independent copy — the rules engine never mutates a
// Board it did not just create itself.
type Board [8][8]Cell

// Pos identifies a board cell by (row, col).
type Pos struct {
	Row, Col int
}

// InBounds reports whether r,c lie on the 8x8 grid.
func InBounds(r, c int) bool {
	return r >= 0 && r < 8 && c >= 0 && c < 8
}

// Playable reports whether (r,c) is one of the dark, playable squares.
func Playable(r, c int) bool {
	return (r+c)%2 == 1
}

// InitialBoard returns the standard starting position: BLACK on rows 0-2,
// RED on rows 5-7, all men.
func InitialBoard() Board {
	var b Board
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if !Playable(r, c) {
				continue
			}
			switch {
			case r < 3:
				b[r][c] = Cell{Has: true, Piece: Piece{Color: Black}}
			case r > 4:
				b[r][c] = Cell{Has: true, Piece: Piece{Color: Red}}
			}
		}
	}
	return b
}

// At returns the cell at (r,c). Caller must ensure bounds.
func (b Board) At(r, c int) Cell {
	return b[r][c]
}

// forwardDir returns the man's forward row delta for color: RED moves
// toward row 0 (-1), BLACK moves toward row 7 (+1).
func forwardDir(color Color) int {
	if color == Red {
		return -1
	}
	return 1
}

// dirsForPiece returns the diagonal deltas a piece may move along: all
// four for a king, the two forward diagonals for a man.
func dirsForPiece(p Piece) [][2]int {
	if p.King {
		return [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	}
	dr := forwardDir(p.Color)
	return [][2]int{{dr, -1}, {dr, 1}}
}

// Capture describes one single-jump capture available from a cell.
type Capture struct {
	From, To, Captured Pos
}

// PieceCaptures enumerates every single-jump capture available to the
// piece at (r,c), or nil if the cell is empty.
func PieceCaptures(b Board, r, c int) []Capture {
	cell := b.At(r, c)
	if !cell.Has {
		return nil
	}
	var out []Capture
	for _, d := range dirsForPiece(cell.Piece) {
		mr, mc := r+d[0], c+d[1]
		tr, tc := r+2*d[0], c+2*d[1]
		if !InBounds(tr, tc) || !Playable(tr, tc) {
			continue
		}
		if b.At(tr, tc).Has {
			continue
		}
		mid := b.At(mr, mc)
		if mid.Has && mid.Piece.Color != cell.Piece.Color {
			out = append(out, Capture{From: Pos{r, c}, To: Pos{tr, tc}, Captured: Pos{mr, mc}})
		}
	}
	return out
}

// AllCapturesForColor unions PieceCaptures over every piece of color.
func AllCapturesForColor(b Board, color Color) []Capture {
	var out []Capture
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			cell := b.At(r, c)
			if cell.Has && cell.Piece.Color == color {
				out = append(out, PieceCaptures(b, r, c)...)
			}
		}
	}
	return out
}

// Step describes one single-square non-capture move available from a cell.
type Step struct {
	From, To Pos
}

// PieceSteps enumerates every legal non-capture step available to the
// piece at (r,c).
func PieceSteps(b Board, r, c int) []Step {
	cell := b.At(r, c)
	if !cell.Has {
		return nil
	}
	var out []Step
	for _, d := range dirsForPiece(cell.Piece) {
		tr, tc := r+d[0], c+d[1]
		if !InBounds(tr, tc) || !Playable(tr, tc) {
			continue
		}
		if !b.At(tr, tc).Has {
			out = append(out, Step{From: Pos{r, c}, To: Pos{tr, tc}})
		}
	}
	return out
}

// AllStepsForColor unions PieceSteps over every piece of color.
func AllStepsForColor(b Board, color Color) []Step {
	var out []Step
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			cell := b.At(r, c)
			if cell.Has && cell.Piece.Color == color {
				out = append(out, PieceSteps(b, r, c)...)
			}
		}
	}
	return out
}

// HasAnyLegalMove reports whether color has any capture or step available.
func HasAnyLegalMove(b Board, color Color) bool {
	if len(AllCapturesForColor(b, color)) > 0 {
		return true
	}
	return len(AllStepsForColor(b, color)) > 0
}
