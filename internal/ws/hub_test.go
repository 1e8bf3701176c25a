package ws

import (
	"errors"
	"sync"
	"testing"
	"time"

	"nutrifit/backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn records writes, optionally failing them.
type fakeConn struct {
	mu         sync.Mutex
	messages   []*Message
	failWrites bool
	closed     bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWrites {
		return errors.New("broken pipe")
	}
	c.messages = append(c.messages, v.(*Message))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() []*Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Message(nil), c.messages...)
}

func TestSendPersonalReachesAllUserConnections(t *testing.T) {
	hub := NewHub()
	a1, a2, b := &fakeConn{}, &fakeConn{}, &fakeConn{}
	hub.Connect(1, a1)
	hub.Connect(1, a2)
	hub.Connect(2, b)

	hub.SendPersonal(1, &Message{Type: "notification"})

	assert.Len(t, a1.received(), 1)
	assert.Len(t, a2.received(), 1)
	assert.Empty(t, b.received())
}

func TestDisconnectIsIdempotent(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	hub.Connect(1, conn)

	hub.Disconnect(1, conn)
	hub.Disconnect(1, conn)
	// Unknown users and connections are no-ops too.
	hub.Disconnect(42, conn)

	assert.Zero(t, hub.ConnectionCount(1))

	// Sending to a user with no connections does nothing.
	hub.SendPersonal(1, &Message{Type: "notification"})
	assert.Empty(t, conn.received())
}

func TestFailedWriteEvictsConnection(t *testing.T) {
	hub := NewHub()
	good, bad := &fakeConn{}, &fakeConn{failWrites: true}
	hub.Connect(1, good)
	hub.Connect(1, bad)

	hub.SendPersonal(1, &Message{Type: "notification"})

	assert.Len(t, good.received(), 1)
	assert.True(t, bad.closed)
	assert.Equal(t, 1, hub.ConnectionCount(1))

	// The healthy connection keeps receiving.
	hub.SendPersonal(1, &Message{Type: "notification"})
	assert.Len(t, good.received(), 2)
}

func TestPushDeliversThroughRunLoop(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Close()

	conn := &fakeConn{}
	hub.Connect(7, conn)

	hub.Push(7, &domain.Notification{UserID: 7, Title: "hi"})

	require.Eventually(t, func() bool {
		return len(conn.received()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "notification", conn.received()[0].Type)
}

func TestPushWithoutConnectionsIsSilent(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Close()

	// Nobody connected, nothing should block or panic.
	hub.Push(99, &domain.Notification{UserID: 99, Title: "hi"})
}

func TestBroadcast(t *testing.T) {
	hub := NewHub()
	a, b := &fakeConn{}, &fakeConn{}
	hub.Connect(1, a)
	hub.Connect(2, b)

	hub.Broadcast(&Message{Type: "announcement"})

	assert.Len(t, a.received(), 1)
	assert.Len(t, b.received(), 1)
}
