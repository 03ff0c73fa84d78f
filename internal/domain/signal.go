package domain

import "github.com/pion/webrtc/v3"

// Event types exchanged over a room websocket.
const (
	EventJoined       = "joined"
	EventPeerJoined   = "peer-joined"
	EventPeerLeft     = "peer-left"
	EventMessage      = "message"
	EventOffer        = "offer"
	EventAnswer       = "answer"
	EventICECandidate = "ice-candidate"
	EventLeave        = "leave"
)

// Event is the envelope carried over a live connection. For signaling
// events the SDP/candidate payload is opaque to the server: it is relayed
// to To untouched, with From overwritten by the true sender's connection
// identifier.
type Event struct {
	Type      string                     `json:"type"`
	RoomID    int64                      `json:"room_id,omitempty"`
	From      string                     `json:"from,omitempty"`
	To        string                     `json:"to,omitempty"`
	SDP       *webrtc.SessionDescription `json:"sdp,omitempty"`
	Candidate *webrtc.ICECandidateInit   `json:"candidate,omitempty"`
	Payload   map[string]any             `json:"payload,omitempty"`
}

// IsSignal reports whether the event is a call-setup envelope.
func (e *Event) IsSignal() bool {
	switch e.Type {
	case EventOffer, EventAnswer, EventICECandidate:
		return true
	}
	return false
}
