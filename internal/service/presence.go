package service

import (
	"log/slog"
	"sync"

	"github.com/studylab/chatboard/internal/domain"
)

// PresenceTracker is the process-local registry of live connections and
// their room subscriptions. It is constructed at server start and holds
// no persistent state: a restart begins with an empty registry.
//
// A connection may be subscribed to any number of rooms at once; each
// subscription is independent. All mutation goes through this type —
// nothing else touches the subscriber sets.
type PresenceTracker struct {
	mu    sync.RWMutex
	log   *slog.Logger
	conns map[string]*domain.Connection
	rooms map[int64]map[string]*domain.Connection
	// joined is the reverse index used by UnsubscribeAll.
	joined map[string]map[int64]struct{}
}

func NewPresenceTracker(log *slog.Logger) *PresenceTracker {
	if log == nil {
		log = slog.Default()
	}
	return &PresenceTracker{
		log:    log,
		conns:  make(map[string]*domain.Connection),
		rooms:  make(map[int64]map[string]*domain.Connection),
		joined: make(map[string]map[int64]struct{}),
	}
}

// Register adds a fresh connection to the registry.
func (t *PresenceTracker) Register(conn *domain.Connection) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.conns[conn.ID] = conn
	t.joined[conn.ID] = make(map[int64]struct{})
}

// Subscribe places the connection in the room's live subscriber set and
// returns the other subscribers currently present, which seeds call-peer
// discovery on the client. Subscribing twice is a no-op.
func (t *PresenceTracker) Subscribe(connID string, roomID int64) ([]*domain.Connection, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	conn, ok := t.conns[connID]
	if !ok {
		return nil, ErrConnectionNotFound
	}

	subs := t.rooms[roomID]
	if subs == nil {
		subs = make(map[string]*domain.Connection)
		t.rooms[roomID] = subs
	}

	others := make([]*domain.Connection, 0, len(subs))
	for id, other := range subs {
		if id != connID {
			others = append(others, other)
		}
	}

	subs[connID] = conn
	t.joined[connID][roomID] = struct{}{}
	return others, nil
}

// UnsubscribeAll removes the connection from every room it joined and
// drops it from the registry, closing its event queue. It returns the
// rooms the connection was subscribed to so the caller can announce the
// departure. This is the mandatory cleanup path on disconnect.
func (t *PresenceTracker) UnsubscribeAll(connID string) []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	conn, ok := t.conns[connID]
	if !ok {
		return nil
	}

	roomIDs := make([]int64, 0, len(t.joined[connID]))
	for roomID := range t.joined[connID] {
		if subs := t.rooms[roomID]; subs != nil {
			delete(subs, connID)
			if len(subs) == 0 {
				delete(t.rooms, roomID)
			}
		}
		roomIDs = append(roomIDs, roomID)
	}

	delete(t.joined, connID)
	delete(t.conns, connID)
	conn.Close()
	return roomIDs
}

// Subscribers returns a snapshot of the room's live subscriber set.
func (t *PresenceTracker) Subscribers(roomID int64) []*domain.Connection {
	t.mu.RLock()
	defer t.mu.RUnlock()

	subs := t.rooms[roomID]
	result := make([]*domain.Connection, 0, len(subs))
	for _, conn := range subs {
		result = append(result, conn)
	}
	return result
}

// Get looks up a live connection by identifier.
func (t *PresenceTracker) Get(connID string) (*domain.Connection, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	conn, ok := t.conns[connID]
	return conn, ok
}

// Broadcast fans an event out to every connection subscribed to the room
// at call time. Delivery is per-connection best effort: a full queue is
// logged and skipped, never blocking the remaining subscribers.
func (t *PresenceTracker) Broadcast(roomID int64, event domain.Event) {
	for _, conn := range t.Subscribers(roomID) {
		if !conn.Enqueue(event) {
			t.log.Debug("dropping broadcast event",
				slog.String("conn", conn.ID),
				slog.String("type", event.Type),
			)
		}
	}
}

// Send delivers an event to a single connection. It reports false when
// the target is no longer connected.
func (t *PresenceTracker) Send(connID string, event domain.Event) bool {
	conn, ok := t.Get(connID)
	if !ok {
		return false
	}
	return conn.Enqueue(event)
}
