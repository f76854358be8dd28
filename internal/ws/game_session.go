package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"checkers/internal/app"
	"checkers/internal/apperr"
	"checkers/internal/domain"
	"checkers/internal/logging"
	"checkers/internal/ports"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

// GameSession drives one match room's websocket lifecycle: connect,
// authoritative sync, the move pipeline, and disconnection.
type GameSession struct {
	Auth     ports.AuthPort
	Matches  ports.MatchStore
	Moves    ports.MoveStore
	Sessions *SessionManager
	Rules    app.SessionRules
}

// client is a single open connection inside a GameSession's lifecycle. It
// is the one writer its websocket connection ever sees: writePump drains
// send, so every other goroutine — including SessionManager.Broadcast —
// only ever hands client a frame, never the socket itself.
type client struct {
	conn      *websocket.Conn
	send      chan []byte
	userID    string
	closeOnce sync.Once
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) enqueue(frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		logging.L().Error("marshal frame", zap.Error(err))
		return
	}
	c.enqueueRaw(data)
}

// enqueueRaw hands an already-encoded frame to writePump. A full buffer
// means a slow reader; the frame is dropped rather than blocking the
// caller, matching every other connection's treatment.
func (c *client) enqueueRaw(data []byte) {
	select {
	case c.send <- data:
	default:
		logging.L().Warn("client send buffer full, dropping frame", zap.String("userid", c.userID))
	}
}

// shutdown closes the send channel, which tells writePump to send a
// close frame and return. Safe to call more than once or concurrently.
func (c *client) shutdown() {
	c.closeOnce.Do(func() { close(c.send) })
}

func closeWith(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(msg, time.Now().Add(writeWait))
	_ = conn.Close()
}

// Handle runs a single connection's entire lifecycle: authenticate, sync,
// message loop, and cleanup on disconnect. It blocks until the connection
// closes, one way or another.
func (g *GameSession) Handle(ctx context.Context, conn *websocket.Conn, matchID, cookieValue string) {
	userID, err := g.Auth.Authenticate(ctx, cookieValue)
	if err != nil {
		closeWith(conn, ClosePolicy, "authentication failed")
		return
	}

	match, err := g.Matches.Get(ctx, matchID)
	if err != nil {
		closeWith(conn, ClosePolicy, "match not found")
		return
	}
	role := match.RoleOf(userID)
	if role == "" {
		closeWith(conn, ClosePolicy, "not a participant")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 32), userID: userID}
	g.Sessions.Connect(matchID, userID, c)
	defer g.Sessions.Disconnect(matchID, userID, c)

	go c.writePump()

	if err := g.sendSync(ctx, c, match, role); err != nil {
		logging.L().Warn("send sync failed", zap.String("matchid", matchID), zap.String("userid", userID), zap.Error(err))
		c.shutdown()
		return
	}

	if match.Status != ports.StatusOngoing {
		c.shutdown()
		closeWith(conn, CloseNormal, "match not ongoing")
		return
	}

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.shutdown()
			return
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.enqueue(Frame{Type: TypeError, Payload: ErrorPayload{Detail: "malformed frame"}})
			continue
		}

		switch frame.Type {
		case TypePing:
			c.enqueue(Frame{Type: TypePong, Payload: struct{}{}})
		case TypeMove:
			g.handleMove(ctx, c, matchID, role, data)
		}
	}
}

func (g *GameSession) sendSync(ctx context.Context, c *client, match ports.Match, role domain.Role) error {
	log, err := g.Moves.Load(ctx, match.MatchID)
	if err != nil {
		return err
	}
	replay, err := replayStored(log)
	if err != nil {
		return err
	}

	movePayloads := make([]MovePayload, 0, len(log))
	for _, mv := range log {
		movePayloads = append(movePayloads, LoggedMovePayload(mv))
	}

	c.enqueue(Frame{Type: TypeSync, Payload: SyncPayload{
		MatchID:     match.MatchID,
		Status:      string(match.Status),
		YourRole:    role,
		NextTurn:    replay.NextPlayer,
		ForcedFrom:  wireForcedFrom(replay.ForcedFrom),
		MustCapture: replay.MustCapture,
		Moves:       movePayloads,
	}})
	return nil
}

// replayStored converts a stored move log into the domain log shape and
// replays it. A stored log that fails to replay is a corrupt log: callers
// treat that as fatal.
func replayStored(log []ports.MatchMove) (domain.ReplayResult, error) {
	entries := make([]domain.LoggedMove, 0, len(log))
	for _, mv := range log {
		entries = append(entries, domain.LoggedMove{MoveNumber: mv.MoveNumber, Player: mv.Player, Move: mv.Move})
	}
	return domain.Replay(entries)
}

func (g *GameSession) handleMove(ctx context.Context, c *client, matchID string, role domain.Role, raw []byte) {
	var frame struct {
		Payload MoveIncoming `json:"payload"`
	}
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.enqueue(Frame{Type: TypeError, Payload: ErrorPayload{Detail: "malformed move"}})
		return
	}

	match, err := g.Matches.Get(ctx, matchID)
	if err != nil {
		c.enqueue(Frame{Type: TypeError, Payload: ErrorPayload{Detail: "match not found"}})
		return
	}
	if match.Status != ports.StatusOngoing {
		c.enqueue(Frame{Type: TypeError, Payload: ErrorPayload{Detail: apperr.ErrMatchNotOngoing.Error()}})
		return
	}

	log, err := g.Moves.Load(ctx, matchID)
	if err != nil {
		c.enqueue(Frame{Type: TypeError, Payload: ErrorPayload{Detail: apperr.ErrStoreFailure.Error()}})
		return
	}
	replay, err := replayStored(log)
	if err != nil {
		logging.L().Error("corrupt move log", zap.String("matchid", matchID), zap.Error(err))
		g.Sessions.Broadcast(matchID, Frame{Type: TypeError, Payload: ErrorPayload{Detail: apperr.ErrCorruptLog.Error()}})
		g.Sessions.CloseMatch(matchID)
		return
	}

	outcome, err := g.Rules.DecideMove(replay, role, frame.Payload.ToDomain())
	if err != nil {
		if err == apperr.ErrNotYourTurn {
			c.enqueue(Frame{Type: TypeError, Payload: ErrorPayload{
				Detail: err.Error(), NextTurn: replay.NextPlayer,
				ForcedFrom: wireForcedFrom(replay.ForcedFrom), MustCapture: replay.MustCapture,
			}})
			return
		}
		if kind, ok := domain.AsIllegalMove(err); ok {
			c.enqueue(Frame{Type: TypeError, Payload: ErrorPayload{
				Detail: string(kind), NextTurn: replay.NextPlayer,
				ForcedFrom: wireForcedFrom(replay.ForcedFrom), MustCapture: replay.MustCapture,
			}})
			return
		}
		c.enqueue(Frame{Type: TypeError, Payload: ErrorPayload{Detail: err.Error()}})
		return
	}

	domainMove := frame.Payload.ToDomain()
	domainMove.WasCapture = outcome.WasCapture
	stored, err := g.Moves.Append(ctx, matchID, role, domainMove)
	if err != nil {
		detail := "store failure, please retry"
		if errors.Is(err, apperr.ErrNumberingConflict) {
			detail = "Move numbering conflict. Please resend."
		}
		c.enqueue(Frame{Type: TypeError, Payload: ErrorPayload{Detail: detail}})
		return
	}

	if outcome.Terminal {
		if _, err := g.Matches.UpdateFinish(ctx, matchID, ports.StatusFinished, outcome.Result, outcome.Reason, time.Now()); err != nil {
			logging.L().Error("update finish failed", zap.String("matchid", matchID), zap.Error(err))
		}
	}

	g.Sessions.Broadcast(matchID, Frame{
		Type:    TypeMove,
		Payload: BroadcastMovePayload(stored, outcome.NextPlayer, outcome.MustContinue, outcome.ForcedFrom),
	})

	if outcome.Terminal {
		finished, err := g.Matches.Get(ctx, matchID)
		if err == nil {
			finishedAt := time.Now()
			if finished.FinishedAt != nil {
				finishedAt = *finished.FinishedAt
			}
			g.Sessions.Broadcast(matchID, Frame{Type: TypeMatchFinished, Payload: MatchFinishedPayload{
				MatchID: matchID, Status: string(finished.Status), Result: finished.Result,
				Reason: finished.Reason, FinishedAt: finishedAt,
			}})
		}
		g.Sessions.CloseMatch(matchID)
	}
}
