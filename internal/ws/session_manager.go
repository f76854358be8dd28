package ws

import (
	"encoding/json"
	"sync"

	"checkers/internal/domain"
	"checkers/internal/logging"
	"go.uber.org/zap"
)

// Sender is what SessionManager needs from a connected player's session:
// a place to drop an already-encoded frame, and a way to shut it down.
// *client satisfies this. Both methods are unexported on purpose — the
// websocket connection itself is never exposed here, so a broadcast can
// never write to a socket directly. I/O on a connection stays owned by
// its own writePump, the sole goroutine that ever calls conn.WriteMessage.
type Sender interface {
	enqueueRaw(data []byte)
	shutdown()
}

// SessionManager is the process-local registry of connected players,
// keyed by match then by user. It holds only the bookkeeping mutex; the
// move pipeline itself never runs under this lock.
type SessionManager struct {
	mu    sync.Mutex
	rooms map[string]map[string]Sender
}

// NewSessionManager builds an empty registry.
func NewSessionManager() *SessionManager {
	return &SessionManager{rooms: make(map[string]map[string]Sender)}
}

// Connect registers sender as matchID's connection for userID, replacing
// and shutting down any prior connection that same player already held
// (one session per player per match).
func (m *SessionManager) Connect(matchID string, userID string, sender Sender) {
	m.mu.Lock()
	room, ok := m.rooms[matchID]
	if !ok {
		room = make(map[string]Sender)
		m.rooms[matchID] = room
	}
	prior, hadPrior := room[userID]
	room[userID] = sender
	m.mu.Unlock()

	if hadPrior {
		prior.shutdown()
	}
}

// Disconnect removes userID's registration for matchID, if sender is
// still the one on file (a newer Connect call already superseding it is
// left alone).
func (m *SessionManager) Disconnect(matchID string, userID string, sender Sender) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[matchID]
	if !ok {
		return
	}
	if current, ok := room[userID]; ok && current == sender {
		delete(room, userID)
	}
	if len(room) == 0 {
		delete(m.rooms, matchID)
	}
}

// Broadcast hands frame, encoded once, to every connection currently
// registered for matchID. Delivery goes through each connection's own
// send channel, never the raw socket, so it never races that
// connection's writePump.
func (m *SessionManager) Broadcast(matchID string, frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		logging.L().Error("marshal broadcast frame", zap.String("matchid", matchID), zap.Error(err))
		return
	}

	m.mu.Lock()
	room := m.rooms[matchID]
	snapshot := make([]Sender, 0, len(room))
	for _, sender := range room {
		snapshot = append(snapshot, sender)
	}
	m.mu.Unlock()

	for _, sender := range snapshot {
		sender.enqueueRaw(data)
	}
}

// CloseMatch shuts down and removes every connection registered for
// matchID.
func (m *SessionManager) CloseMatch(matchID string) {
	m.mu.Lock()
	room := m.rooms[matchID]
	delete(m.rooms, matchID)
	m.mu.Unlock()

	for _, sender := range room {
		sender.shutdown()
	}
}

// Drain shuts down every connection in every room it knows about. Called
// during process shutdown so no match room is left open when the
// listener stops.
func (m *SessionManager) Drain() {
	m.mu.Lock()
	rooms := m.rooms
	m.rooms = make(map[string]map[string]Sender)
	m.mu.Unlock()

	for _, room := range rooms {
		for _, sender := range room {
			sender.shutdown()
		}
	}
}

// RoleLabel is a small helper used when logging a player's side.
func RoleLabel(r domain.Role) string { return string(r) }
