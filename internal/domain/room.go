package domain

import (
	"math/rand"
	"time"
)

// Room represents a named chat channel with persisted membership and
// message history.
type Room struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Creator   Principal `json:"creator"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRoom constructs a room with a generated six-digit identifier.
// Identifier collisions are possible and resolved by the caller retrying.
func NewRoom(name string, creator Principal) *Room {
	return &Room{
		ID:        generateRoomID(),
		Name:      name,
		Creator:   creator,
		CreatedAt: time.Now().UTC(),
	}
}

func generateRoomID() int64 {
	return 100000 + rand.Int63n(900000)
}
