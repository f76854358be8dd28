package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"checkers/internal/domain"
	"checkers/internal/ports"
)

type fakeAuth struct{ userByToken map[string]string }

func (a *fakeAuth) Authenticate(ctx context.Context, cookieValue string) (string, error) {
	if uid, ok := a.userByToken[cookieValue]; ok {
		return uid, nil
	}
	return "", http.ErrNoCookie
}

type memMatchStore struct{ matches map[string]ports.Match }

func (s *memMatchStore) CreateWaiting(ctx context.Context, matchID, userID string, role domain.Role) (ports.Match, error) {
	panic("unused")
}
func (s *memMatchStore) FindOldestWaitingWithEmptySlot(ctx context.Context, userID string) (ports.Match, bool, error) {
	panic("unused")
}
func (s *memMatchStore) FindOwnedWaiting(ctx context.Context, userID string) (ports.Match, bool, error) {
	panic("unused")
}
func (s *memMatchStore) FindOngoingFor(ctx context.Context, userID string) (ports.Match, bool, error) {
	panic("unused")
}
func (s *memMatchStore) ClaimWaiting(ctx context.Context, matchID, userID string) (ports.Match, error) {
	panic("unused")
}
func (s *memMatchStore) Get(ctx context.Context, matchID string) (ports.Match, error) {
	m, ok := s.matches[matchID]
	if !ok {
		return ports.Match{}, http.ErrNoCookie
	}
	return m, nil
}
func (s *memMatchStore) UpdateFinish(ctx context.Context, matchID string, status ports.MatchStatus, result ports.MatchResult, reason ports.MatchReason, at time.Time) (ports.Match, error) {
	m := s.matches[matchID]
	m.Status = status
	m.Result = result
	m.Reason = reason
	m.FinishedAt = &at
	s.matches[matchID] = m
	return m, nil
}
func (s *memMatchStore) DeleteStaleWaiting(ctx context.Context, olderThan time.Time) (int64, error) {
	panic("unused")
}

type memMoveStore struct {
	log []ports.MatchMove
}

func (s *memMoveStore) Append(ctx context.Context, matchID string, player domain.Role, move domain.Move) (ports.MatchMove, error) {
	row := ports.MatchMove{
		ID: int64(len(s.log) + 1), MatchID: matchID, MoveNumber: int64(len(s.log) + 1),
		Player: player, Move: move, CreatedAt: time.Now(),
	}
	s.log = append(s.log, row)
	return row, nil
}

func (s *memMoveStore) Load(ctx context.Context, matchID string) ([]ports.MatchMove, error) {
	out := make([]ports.MatchMove, len(s.log))
	copy(out, s.log)
	return out, nil
}

func TestGameSessionSyncThenMoveBroadcast(t *testing.T) {
	auth := &fakeAuth{userByToken: map[string]string{"tok-white": "alice", "tok-black": "bob"}}
	matches := &memMatchStore{matches: map[string]ports.Match{
		"m1": {MatchID: "m1", WhiteUser: "alice", BlackUser: "bob", Status: ports.StatusOngoing, StartedAt: time.Now()},
	}}
	moves := &memMoveStore{}
	session := &GameSession{Auth: auth, Matches: matches, Moves: moves, Sessions: NewSessionManager()}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		cookie, _ := r.Cookie("access_token")
		var tok string
		if cookie != nil {
			tok = cookie.Value
		}
		session.Handle(context.Background(), conn, "m1", tok)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"

	dialer := websocket.Dialer{}
	header := http.Header{}
	header.Set("Cookie", "access_token=tok-white")
	whiteConn, _, err := dialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial white: %v", err)
	}
	defer whiteConn.Close()

	header.Set("Cookie", "access_token=tok-black")
	blackConn, _, err := dialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial black: %v", err)
	}
	defer blackConn.Close()

	var whiteSync Frame
	if err := whiteConn.ReadJSON(&whiteSync); err != nil {
		t.Fatalf("read white sync: %v", err)
	}
	if whiteSync.Type != TypeSync {
		t.Fatalf("type = %s, want sync", whiteSync.Type)
	}

	var blackSync Frame
	if err := blackConn.ReadJSON(&blackSync); err != nil {
		t.Fatalf("read black sync: %v", err)
	}

	moveFrame := map[string]interface{}{
		"type": TypeMove,
		"payload": map[string]interface{}{
			"move": map[string]interface{}{
				"from": [2]int{5, 0},
				"to":   [2]int{4, 1},
			},
		},
	}
	if err := whiteConn.WriteJSON(moveFrame); err != nil {
		t.Fatalf("write move: %v", err)
	}

	var broadcast Frame
	if err := blackConn.ReadJSON(&broadcast); err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if broadcast.Type != TypeMove {
		t.Fatalf("type = %s, want move", broadcast.Type)
	}

	payload, err := json.Marshal(broadcast.Payload)
	if err != nil {
		t.Fatalf("remarshal payload: %v", err)
	}
	var mp MovePayload
	if err := json.Unmarshal(payload, &mp); err != nil {
		t.Fatalf("unmarshal move payload: %v", err)
	}
	if mp.NextTurn != domain.Black {
		t.Fatalf("next_turn = %s, want black", mp.NextTurn)
	}
	if mp.MoveNumber != 1 {
		t.Fatalf("move_number = %d, want 1", mp.MoveNumber)
	}
}
