package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/studylab/chatboard/internal/domain"
	"github.com/studylab/chatboard/internal/repository"
	"github.com/studylab/chatboard/lib/logger/sl"
)

var (
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrValidation marks a rejected request payload. The API layer maps
	// anything wrapping it to a 400.
	ErrValidation   = errors.New("validation failed")
	ErrEmptyMessage = fmt.Errorf("%w: message requires text or an image", ErrValidation)
)

const (
	maxMessageLength = 4000
	maxNameLength    = 255
	maxImageLength   = 2048
)

// RoomService owns the room store, membership and the live publish
// pipeline. Persisted state lives in the repository; live subscriptions
// live in the injected PresenceTracker.
type RoomService struct {
	rooms    repository.RoomRepository
	presence *PresenceTracker
	log      *slog.Logger
}

func NewRoomService(rooms repository.RoomRepository, presence *PresenceTracker, log *slog.Logger) *RoomService {
	if log == nil {
		log = slog.Default()
	}
	return &RoomService{
		rooms:    rooms,
		presence: presence,
		log:      log,
	}
}

func (s *RoomService) CreateRoom(ctx context.Context, name string, creator domain.Principal) (*domain.Room, error) {
	const op = "service.room.create"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: room name is required", ErrValidation)
	}
	if creator == "" {
		return nil, fmt.Errorf("%w: creator is required", ErrValidation)
	}

	for {
		room := domain.NewRoom(name, creator)
		if err := s.rooms.CreateRoom(ctx, room); err != nil {
			if errors.Is(err, repository.ErrRoomExists) {
				continue
			}
			return nil, err
		}

		s.log.Info("room created",
			slog.String("op", op),
			slog.Int64("room_id", room.ID),
			slog.String("creator", creator.String()),
		)
		return room, nil
	}
}

func (s *RoomService) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	return s.rooms.GetRoom(ctx, id)
}

func (s *RoomService) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	return s.rooms.ListRooms(ctx)
}

func (s *RoomService) ListRoomsByMember(ctx context.Context, member domain.Principal) ([]*domain.Room, error) {
	if member == "" {
		return []*domain.Room{}, nil
	}
	return s.rooms.ListRoomsByMember(ctx, member)
}

func (s *RoomService) DeleteRoom(ctx context.Context, id int64) error {
	const op = "service.room.delete"

	if err := s.rooms.DeleteRoom(ctx, id); err != nil {
		return err
	}

	s.log.Info("room deleted", slog.String("op", op), slog.Int64("room_id", id))
	return nil
}

func (s *RoomService) Join(ctx context.Context, roomID int64, member domain.Principal) error {
	if member == "" {
		return fmt.Errorf("%w: member is required", ErrValidation)
	}
	if utf8.RuneCountInString(member.String()) > maxNameLength {
		return fmt.Errorf("%w: member name is too long", ErrValidation)
	}
	return s.rooms.AddMember(ctx, roomID, member)
}

func (s *RoomService) Leave(ctx context.Context, roomID int64, member domain.Principal) error {
	return s.rooms.RemoveMember(ctx, roomID, member)
}

func (s *RoomService) ListMembers(ctx context.Context, roomID int64) ([]domain.Principal, error) {
	return s.rooms.ListMembers(ctx, roomID)
}

// PublishMessage validates, persists and then fans the message out to
// every connection subscribed to the room at this moment. The persist
// happens strictly before the broadcast so a delivered message is always
// present on a history reload.
func (s *RoomService) PublishMessage(ctx context.Context, roomID int64, author domain.Principal, text, image string) (*domain.Message, error) {
	const op = "service.room.publish"
	log := s.log.With(slog.String("op", op), slog.Int64("room_id", roomID))

	text = strings.TrimSpace(text)
	image = strings.TrimSpace(image)

	if author == "" {
		return nil, fmt.Errorf("%w: author is required", ErrValidation)
	}
	if text == "" && image == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > maxMessageLength {
		return nil, fmt.Errorf("%w: message is too long", ErrValidation)
	}
	if utf8.RuneCountInString(author.String()) > maxNameLength {
		return nil, fmt.Errorf("%w: author name is too long", ErrValidation)
	}
	if len(image) > maxImageLength {
		return nil, fmt.Errorf("%w: image url is too long", ErrValidation)
	}

	msg := domain.NewMessage(roomID, author, text, image)
	if err := s.rooms.AppendMessage(ctx, msg); err != nil {
		if !errors.Is(err, repository.ErrRoomNotFound) {
			log.Error("failed to persist message", sl.Err(err))
		}
		return nil, err
	}

	s.presence.Broadcast(roomID, messageEvent(msg))
	return msg, nil
}

func (s *RoomService) ListMessages(ctx context.Context, roomID int64) ([]*domain.Message, error) {
	return s.rooms.ListMessages(ctx, roomID)
}

// Connect registers a live connection and subscribes it to the room. It
// returns the new connection together with the subscribers that were
// already present; the existing subscribers are told about the newcomer.
func (s *RoomService) Connect(ctx context.Context, roomID int64, name domain.Principal) (*domain.Connection, []*domain.Connection, error) {
	const op = "service.room.connect"

	if _, err := s.rooms.GetRoom(ctx, roomID); err != nil {
		return nil, nil, err
	}

	conn := domain.NewConnection(name)
	s.presence.Register(conn)

	others, err := s.presence.Subscribe(conn.ID, roomID)
	if err != nil {
		return nil, nil, err
	}

	for _, other := range others {
		other.Enqueue(domain.Event{
			Type:   domain.EventPeerJoined,
			RoomID: roomID,
			From:   conn.ID,
			Payload: map[string]any{
				"conn_id": conn.ID,
				"name":    conn.Name.String(),
			},
		})
	}

	s.log.Info("connection subscribed",
		slog.String("op", op),
		slog.Int64("room_id", roomID),
		slog.String("conn_id", conn.ID),
		slog.String("name", name.String()),
	)
	return conn, others, nil
}

// Disconnect tears the connection down. It must run exactly once per
// disconnect; every room the connection was subscribed to hears a
// peer-left event.
func (s *RoomService) Disconnect(connID string) {
	for _, roomID := range s.presence.UnsubscribeAll(connID) {
		s.presence.Broadcast(roomID, domain.Event{
			Type:    domain.EventPeerLeft,
			RoomID:  roomID,
			From:    connID,
			Payload: map[string]any{"conn_id": connID},
		})
	}
}

// HandleEvent dispatches one inbound envelope from a live connection.
func (s *RoomService) HandleEvent(ctx context.Context, roomID int64, connID string, event *domain.Event) error {
	if event == nil {
		return errors.New("event is required")
	}

	conn, ok := s.presence.Get(connID)
	if !ok {
		return ErrConnectionNotFound
	}

	switch {
	case event.Type == domain.EventMessage:
		author := conn.Name
		if raw, ok := event.Payload["author"].(string); ok && strings.TrimSpace(raw) != "" {
			author = domain.Principal(strings.TrimSpace(raw))
		}
		text, _ := event.Payload["text"].(string)
		image, _ := event.Payload["image"].(string)
		_, err := s.PublishMessage(ctx, roomID, author, text, image)
		return err
	case event.IsSignal():
		s.relaySignal(roomID, connID, event)
		return nil
	default:
		return errors.New("unsupported event type: " + event.Type)
	}
}

// relaySignal forwards a call-setup envelope to its addressee. The
// payload is never inspected or stored; From is always overwritten with
// the sender's real connection identifier, so a forged sender field in
// the inbound envelope never reaches the target. A missing target means
// a silent drop: the caller handles call-setup failure by local timeout.
func (s *RoomService) relaySignal(roomID int64, connID string, event *domain.Event) {
	forward := *event
	forward.RoomID = roomID
	forward.From = connID

	if forward.To == "" || !s.presence.Send(forward.To, forward) {
		s.log.Debug("signal dropped, target not connected",
			slog.Int64("room_id", roomID),
			slog.String("type", event.Type),
			slog.String("to", event.To),
		)
	}
}

func messageEvent(msg *domain.Message) domain.Event {
	return domain.Event{
		Type:   domain.EventMessage,
		RoomID: msg.RoomID,
		Payload: map[string]any{
			"id":      msg.ID,
			"room_id": msg.RoomID,
			"author":  msg.Author.String(),
			"text":    msg.Text,
			"image":   msg.Image,
			"time":    msg.Time.UTC().Format(time.RFC3339Nano),
		},
	}
}
