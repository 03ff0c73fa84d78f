package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const connEventBuffer = 16

// Connection is a live transport session. It exists only while the
// underlying socket is open; nothing about it is persisted.
type Connection struct {
	ID       string
	Name     Principal
	JoinedAt time.Time
	Events   chan Event

	mu     sync.Mutex
	closed bool
}

func NewConnection(name Principal) *Connection {
	return &Connection{
		ID:       uuid.New().String(),
		Name:     name,
		JoinedAt: time.Now().UTC(),
		Events:   make(chan Event, connEventBuffer),
	}
}

// Enqueue delivers an event to the connection's outbound queue without
// blocking. A full or closed queue drops the event: fan-out is best
// effort and one slow consumer must never stall the rest.
func (c *Connection) Enqueue(event Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.Events <- event:
		return true
	default:
		return false
	}
}

// Close marks the connection dead and closes its queue. Enqueue and
// Close serialize on the same mutex, so a fan-out racing a disconnect
// can never send on the closed channel. Closing twice is a no-op.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.Events)
}
