package domain

import "time"

// Message is a single chat entry in a room. It is immutable after
// creation; only a cascading room delete removes it. Text and Image are
// both optional but at least one must be present.
type Message struct {
	ID     int64     `json:"id"`
	RoomID int64     `json:"room_id"`
	Author Principal `json:"author"`
	Text   string    `json:"text,omitempty"`
	Image  string    `json:"image,omitempty"`
	Time   time.Time `json:"time"`
}

// NewMessage assigns the server-side identifier and timestamp. The
// identifier doubles as the chronological sort key, so ordering survives
// timestamp ties.
func NewMessage(roomID int64, author Principal, text, image string) *Message {
	return &Message{
		ID:     NextID(),
		RoomID: roomID,
		Author: author,
		Text:   text,
		Image:  image,
		Time:   time.Now().UTC(),
	}
}
