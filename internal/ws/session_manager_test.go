package ws

import (
	"testing"
)

// fakeConn is a bare Sender stand-in: enqueueRaw just records, mimicking
// a writePump that hasn't run yet, so SessionManager tests never touch a
// real socket.
type fakeConn struct {
	written  [][]byte
	closed   bool
	failNext bool
}

func (c *fakeConn) enqueueRaw(data []byte) {
	if c.failNext {
		return
	}
	c.written = append(c.written, data)
}

func (c *fakeConn) shutdown() {
	c.closed = true
}

func TestConnectReplacesPriorConnection(t *testing.T) {
	sm := NewSessionManager()
	first := &fakeConn{}
	second := &fakeConn{}

	sm.Connect("m1", "alice", first)
	sm.Connect("m1", "alice", second)

	if !first.closed {
		t.Fatalf("expected the superseded connection to be closed")
	}
	if second.closed {
		t.Fatalf("the new connection should remain open")
	}
}

func TestBroadcastReachesEveryRegisteredConnection(t *testing.T) {
	sm := NewSessionManager()
	alice := &fakeConn{}
	bob := &fakeConn{}
	sm.Connect("m1", "alice", alice)
	sm.Connect("m1", "bob", bob)

	sm.Broadcast("m1", Frame{Type: TypePing, Payload: struct{}{}})

	if len(alice.written) != 1 || len(bob.written) != 1 {
		t.Fatalf("expected both connections to receive the broadcast")
	}
}

// TestBroadcastLeavesSlowConnectionRegistered asserts that a connection
// whose own send buffer is full (modeled here by failNext) still gets a
// broadcast attempt but isn't torn down by Broadcast itself — detecting a
// dead socket is the read loop's job, not the broadcaster's, since the
// broadcaster never touches the socket directly.
func TestBroadcastLeavesSlowConnectionRegistered(t *testing.T) {
	sm := NewSessionManager()
	alice := &fakeConn{failNext: true}
	bob := &fakeConn{}
	sm.Connect("m1", "alice", alice)
	sm.Connect("m1", "bob", bob)

	sm.Broadcast("m1", Frame{Type: TypePing, Payload: struct{}{}})

	if alice.closed {
		t.Fatalf("broadcast must not shut down a connection on a dropped frame")
	}
	if len(alice.written) != 0 {
		t.Fatalf("expected alice's dropped frame to not be recorded")
	}
	if len(bob.written) != 1 {
		t.Fatalf("expected bob to receive the broadcast")
	}
}

func TestCloseMatchClosesEveryConnection(t *testing.T) {
	sm := NewSessionManager()
	alice := &fakeConn{}
	bob := &fakeConn{}
	sm.Connect("m1", "alice", alice)
	sm.Connect("m1", "bob", bob)

	sm.CloseMatch("m1")

	if !alice.closed || !bob.closed {
		t.Fatalf("expected both connections to be closed")
	}
}

func TestDrainClosesEveryRoom(t *testing.T) {
	sm := NewSessionManager()
	alice := &fakeConn{}
	bob := &fakeConn{}
	carol := &fakeConn{}
	sm.Connect("m1", "alice", alice)
	sm.Connect("m1", "bob", bob)
	sm.Connect("m2", "carol", carol)

	sm.Drain()

	if !alice.closed || !bob.closed || !carol.closed {
		t.Fatalf("expected every connection across every room to be closed")
	}

	sm.Broadcast("m1", Frame{Type: TypePing, Payload: struct{}{}})
	if len(alice.written) != 0 {
		t.Fatalf("expected no further delivery to a drained room")
	}
}
