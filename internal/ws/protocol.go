// Package ws implements the match websocket transport: the fixed frame
// catalogue, the per-process connection registry, and the per-match game
// session that runs the move pipeline over a validated connection.
package ws

import (
	"time"

	"checkers/internal/domain"
	"checkers/internal/ports"
)

// Frame is the envelope every message, in either direction, is wrapped in.
type Frame struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	TypeSync          = "sync"
	TypePing          = "ping"
	TypePong          = "pong"
	TypeMove          = "move"
	TypeError         = "error"
	TypeMatchFinished = "match_finished"
)

// wireMove is how a move's endpoints are framed on the wire: [row,col]
// pairs rather than an object, per the transport's coordinate convention.
type wireMove struct {
	From [2]int `json:"from"`
	To   [2]int `json:"to"`
}

func toWireMove(m domain.Move) wireMove {
	return wireMove{From: [2]int{m.From.Row, m.From.Col}, To: [2]int{m.To.Row, m.To.Col}}
}

func fromWireMove(w wireMove) domain.Move {
	return domain.Move{
		From: domain.Pos{Row: w.From[0], Col: w.From[1]},
		To:   domain.Pos{Row: w.To[0], Col: w.To[1]},
	}
}

func wireForcedFrom(p *domain.Pos) interface{} {
	if p == nil {
		return nil
	}
	return [2]int{p.Row, p.Col}
}

// SyncPayload is sent once, right after a connection is registered, as the
// authoritative snapshot the client renders from.
type SyncPayload struct {
	MatchID     string      `json:"matchid"`
	Status      string      `json:"status"`
	YourRole    domain.Role `json:"your_role"`
	NextTurn    domain.Role `json:"next_turn"`
	ForcedFrom  interface{} `json:"forced_from"`
	MustCapture bool        `json:"must_capture"`
	Moves       []MovePayload `json:"moves"`
}

// MoveIncoming is the client->server move submission.
type MoveIncoming struct {
	Move wireMove `json:"move"`
}

func (m MoveIncoming) ToDomain() domain.Move { return fromWireMove(m.Move) }

// MovePayload is the server->client broadcast of an accepted move, and
// also how each logged move is rendered inside a sync snapshot.
type MovePayload struct {
	ID          int64       `json:"id,omitempty"`
	MatchID     string      `json:"matchid,omitempty"`
	MoveNumber  int64       `json:"move_number"`
	Player      domain.Role `json:"player"`
	Move        wireMove    `json:"move"`
	CreatedAt   *time.Time  `json:"created_at,omitempty"`
	NextTurn    domain.Role `json:"next_turn,omitempty"`
	MustContinue bool       `json:"must_continue,omitempty"`
	ForcedFrom  interface{} `json:"forced_from,omitempty"`
}

// LoggedMovePayload renders a stored MatchMove for inclusion in a sync
// snapshot's move history.
func LoggedMovePayload(mv ports.MatchMove) MovePayload {
	createdAt := mv.CreatedAt
	return MovePayload{
		ID:         mv.ID,
		MatchID:    mv.MatchID,
		MoveNumber: mv.MoveNumber,
		Player:     mv.Player,
		Move:       toWireMove(mv.Move),
		CreatedAt:  &createdAt,
	}
}

// BroadcastMovePayload renders a just-appended move plus the session's
// derived next-turn state for the post-commit broadcast.
func BroadcastMovePayload(mv ports.MatchMove, next domain.Role, mustContinue bool, forcedFrom *domain.Pos) MovePayload {
	p := LoggedMovePayload(mv)
	p.NextTurn = next
	p.MustContinue = mustContinue
	p.ForcedFrom = wireForcedFrom(forcedFrom)
	return p
}

// ErrorPayload is sent on a rejected move frame. The session stays open;
// only protocol-fatal errors close the connection.
type ErrorPayload struct {
	Detail      string      `json:"detail"`
	NextTurn    domain.Role `json:"next_turn,omitempty"`
	ForcedFrom  interface{} `json:"forced_from,omitempty"`
	MustCapture bool        `json:"must_capture,omitempty"`
}

// MatchFinishedPayload announces a match's terminal outcome and ends the
// room.
type MatchFinishedPayload struct {
	MatchID    string             `json:"matchid"`
	Status     string             `json:"status"`
	Result     ports.MatchResult  `json:"result"`
	Reason     ports.MatchReason  `json:"reason"`
	FinishedAt time.Time          `json:"finished_at"`
}

// Close codes per the transport's framing rules.
const (
	CloseNormal   = 1000
	ClosePolicy   = 1008
	CloseFault    = 1011
)
