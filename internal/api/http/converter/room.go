package converter

import (
	"time"

	"github.com/studylab/chatboard/internal/domain"
)

type RoomResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Creator   string    `json:"creator"`
	CreatedAt time.Time `json:"created_at"`
}

type MessageResponse struct {
	ID     int64  `json:"id"`
	RoomID int64  `json:"room_id"`
	Author string `json:"author"`
	Text   string `json:"text,omitempty"`
	Image  string `json:"image,omitempty"`
	Time   string `json:"time"`
}

func RoomToApi(r *domain.Room) *RoomResponse {
	return &RoomResponse{
		ID:        r.ID,
		Name:      r.Name,
		Creator:   r.Creator.String(),
		CreatedAt: r.CreatedAt,
	}
}

func RoomsToApi(rooms []*domain.Room) []*RoomResponse {
	result := make([]*RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		result = append(result, RoomToApi(r))
	}
	return result
}

func MessageToApi(m *domain.Message) *MessageResponse {
	return &MessageResponse{
		ID:     m.ID,
		RoomID: m.RoomID,
		Author: m.Author.String(),
		Text:   m.Text,
		Image:  m.Image,
		Time:   m.Time.UTC().Format(time.RFC3339Nano),
	}
}

func MessagesToApi(msgs []*domain.Message) []*MessageResponse {
	result := make([]*MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		result = append(result, MessageToApi(m))
	}
	return result
}
