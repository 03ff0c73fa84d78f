package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/studylab/chatboard/internal/domain"
	"github.com/studylab/chatboard/internal/repository"
)

func newTestRoomService(t *testing.T) (*RoomService, *repository.InMemoryRoomRepository) {
	t.Helper()
	repo := repository.NewInMemoryRoomRepository()
	presence := NewPresenceTracker(nil)
	return NewRoomService(repo, presence, nil), repo
}

func seedRoom(t *testing.T, repo *repository.InMemoryRoomRepository, id int64, name string, creator domain.Principal) {
	t.Helper()
	err := repo.CreateRoom(context.Background(), &domain.Room{
		ID:        id,
		Name:      name,
		Creator:   creator,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
}

func drain(conn *domain.Connection) []domain.Event {
	var events []domain.Event
	for {
		select {
		case ev := <-conn.Events:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestCreateRoom_Validation(t *testing.T) {
	svc, _ := newTestRoomService(t)
	ctx := context.Background()

	_, err := svc.CreateRoom(ctx, "", "alice")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateRoom(ctx, "Math", "")
	require.ErrorIs(t, err, ErrValidation)

	room, err := svc.CreateRoom(ctx, "Math", "alice")
	require.NoError(t, err)
	require.GreaterOrEqual(t, room.ID, int64(100000))
	require.Less(t, room.ID, int64(1000000))
}

func TestJoin_Idempotent(t *testing.T) {
	svc, repo := newTestRoomService(t)
	ctx := context.Background()
	seedRoom(t, repo, 1001, "Math", "alice")

	require.NoError(t, svc.Join(ctx, 1001, "bob"))
	require.NoError(t, svc.Join(ctx, 1001, "bob"))

	members, err := svc.ListMembers(ctx, 1001)
	require.NoError(t, err)
	require.Equal(t, []domain.Principal{"bob"}, members)
}

func TestLeave(t *testing.T) {
	svc, repo := newTestRoomService(t)
	ctx := context.Background()
	seedRoom(t, repo, 1001, "Math", "alice")

	require.NoError(t, svc.Join(ctx, 1001, "bob"))
	require.NoError(t, svc.Leave(ctx, 1001, "bob"))

	members, err := svc.ListMembers(ctx, 1001)
	require.NoError(t, err)
	require.Empty(t, members)

	// leaving when not a member is a no-op
	require.NoError(t, svc.Leave(ctx, 1001, "ghost"))
}

func TestJoin_MissingRoom(t *testing.T) {
	svc, _ := newTestRoomService(t)

	err := svc.Join(context.Background(), 4242, "carol")
	require.ErrorIs(t, err, repository.ErrRoomNotFound)
}

func TestPublishMessage_Validation(t *testing.T) {
	svc, repo := newTestRoomService(t)
	ctx := context.Background()
	seedRoom(t, repo, 1001, "Math", "alice")

	_, err := svc.PublishMessage(ctx, 1001, "alice", "", "")
	require.ErrorIs(t, err, ErrEmptyMessage)
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.PublishMessage(ctx, 1001, "alice", "   ", "")
	require.ErrorIs(t, err, ErrEmptyMessage)

	_, err = svc.PublishMessage(ctx, 1001, "", "hi", "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.PublishMessage(ctx, 1001, "alice", strings.Repeat("a", maxMessageLength+1), "")
	require.ErrorIs(t, err, ErrValidation)

	// image-only messages are allowed
	msg, err := svc.PublishMessage(ctx, 1001, "alice", "", "https://example.com/cat.png")
	require.NoError(t, err)
	require.Empty(t, msg.Text)
	require.Equal(t, "https://example.com/cat.png", msg.Image)
}

func TestPublishMessage_PersistsInOrder(t *testing.T) {
	svc, repo := newTestRoomService(t)
	ctx := context.Background()
	seedRoom(t, repo, 1001, "Math", "alice")

	for i := 0; i < 10; i++ {
		_, err := svc.PublishMessage(ctx, 1001, "alice", "hello", "")
		require.NoError(t, err)
	}

	msgs, err := svc.ListMessages(ctx, 1001)
	require.NoError(t, err)
	require.Len(t, msgs, 10)
	for i := 1; i < len(msgs); i++ {
		require.Greater(t, msgs[i].ID, msgs[i-1].ID)
		require.False(t, msgs[i].Time.Before(msgs[i-1].Time))
	}
}

func TestPublish_BroadcastCompleteness(t *testing.T) {
	svc, repo := newTestRoomService(t)
	ctx := context.Background()
	seedRoom(t, repo, 1001, "Math", "alice")

	connA, _, err := svc.Connect(ctx, 1001, "alice")
	require.NoError(t, err)
	connB, others, err := svc.Connect(ctx, 1001, "bob")
	require.NoError(t, err)
	require.Len(t, others, 1)

	drain(connA)
	drain(connB)

	_, err = svc.PublishMessage(ctx, 1001, "alice", "hi", "")
	require.NoError(t, err)

	for _, conn := range []*domain.Connection{connA, connB} {
		events := drain(conn)
		require.Len(t, events, 1)
		require.Equal(t, domain.EventMessage, events[0].Type)
		require.Equal(t, "alice", events[0].Payload["author"])
		require.Equal(t, "hi", events[0].Payload["text"])
		require.Equal(t, int64(1001), events[0].Payload["room_id"])
	}

	// a connection gone before publish receives nothing further
	svc.Disconnect(connB.ID)
	drain(connA)

	_, err = svc.PublishMessage(ctx, 1001, "alice", "again", "")
	require.NoError(t, err)

	events := drain(connA)
	require.Len(t, events, 1)
	require.Equal(t, "again", events[0].Payload["text"])
}

func TestConnect_MissingRoom(t *testing.T) {
	svc, _ := newTestRoomService(t)

	_, _, err := svc.Connect(context.Background(), 4242, "alice")
	require.ErrorIs(t, err, repository.ErrRoomNotFound)
}

func TestConnect_AnnouncesNewcomer(t *testing.T) {
	svc, repo := newTestRoomService(t)
	ctx := context.Background()
	seedRoom(t, repo, 1001, "Math", "alice")

	connA, others, err := svc.Connect(ctx, 1001, "alice")
	require.NoError(t, err)
	require.Empty(t, others)

	connB, others, err := svc.Connect(ctx, 1001, "bob")
	require.NoError(t, err)
	require.Len(t, others, 1)
	require.Equal(t, connA.ID, others[0].ID)

	events := drain(connA)
	require.Len(t, events, 1)
	require.Equal(t, domain.EventPeerJoined, events[0].Type)
	require.Equal(t, connB.ID, events[0].From)
}

func TestDisconnect_AnnouncesDeparture(t *testing.T) {
	svc, repo := newTestRoomService(t)
	ctx := context.Background()
	seedRoom(t, repo, 1001, "Math", "alice")

	connA, _, err := svc.Connect(ctx, 1001, "alice")
	require.NoError(t, err)
	connB, _, err := svc.Connect(ctx, 1001, "bob")
	require.NoError(t, err)

	drain(connA)
	svc.Disconnect(connB.ID)

	events := drain(connA)
	require.Len(t, events, 1)
	require.Equal(t, domain.EventPeerLeft, events[0].Type)
	require.Equal(t, connB.ID, events[0].From)
}

func TestSignaling_Isolation(t *testing.T) {
	svc, repo := newTestRoomService(t)
	ctx := context.Background()
	seedRoom(t, repo, 1001, "Math", "alice")

	connA, _, err := svc.Connect(ctx, 1001, "alice")
	require.NoError(t, err)
	connB, _, err := svc.Connect(ctx, 1001, "bob")
	require.NoError(t, err)
	connC, _, err := svc.Connect(ctx, 1001, "carol")
	require.NoError(t, err)

	drain(connA)
	drain(connB)
	drain(connC)

	// A sends an offer to B with a forged sender field.
	err = svc.HandleEvent(ctx, 1001, connA.ID, &domain.Event{
		Type: domain.EventOffer,
		To:   connB.ID,
		From: "forged-sender",
		Payload: map[string]any{
			"sdp": "v=0 fake offer",
		},
	})
	require.NoError(t, err)

	events := drain(connB)
	require.Len(t, events, 1)
	require.Equal(t, domain.EventOffer, events[0].Type)
	require.Equal(t, connA.ID, events[0].From, "relay must stamp the true sender")
	require.Equal(t, connB.ID, events[0].To)
	require.Equal(t, "v=0 fake offer", events[0].Payload["sdp"], "payload relayed untouched")

	require.Empty(t, drain(connA), "offer must not echo to the sender")
	require.Empty(t, drain(connC), "offer must reach only its addressee")
}

func TestSignaling_DropsWhenTargetGone(t *testing.T) {
	svc, repo := newTestRoomService(t)
	ctx := context.Background()
	seedRoom(t, repo, 1001, "Math", "alice")

	connA, _, err := svc.Connect(ctx, 1001, "alice")
	require.NoError(t, err)

	// no error surfaced to the sender, envelope silently dropped
	err = svc.HandleEvent(ctx, 1001, connA.ID, &domain.Event{
		Type: domain.EventICECandidate,
		To:   "no-such-connection",
	})
	require.NoError(t, err)
	require.Empty(t, drain(connA))
}

func TestHandleEvent_InboundMessage(t *testing.T) {
	svc, repo := newTestRoomService(t)
	ctx := context.Background()
	seedRoom(t, repo, 1001, "Math", "alice")

	connA, _, err := svc.Connect(ctx, 1001, "alice")
	require.NoError(t, err)
	drain(connA)

	err = svc.HandleEvent(ctx, 1001, connA.ID, &domain.Event{
		Type:    domain.EventMessage,
		Payload: map[string]any{"text": "hi"},
	})
	require.NoError(t, err)

	// author defaults to the connection's display name
	msgs, err := svc.ListMessages(ctx, 1001)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, domain.Principal("alice"), msgs[0].Author)

	events := drain(connA)
	require.Len(t, events, 1)
	require.Equal(t, domain.EventMessage, events[0].Type)
}

func TestHandleEvent_UnknownConnection(t *testing.T) {
	svc, repo := newTestRoomService(t)
	seedRoom(t, repo, 1001, "Math", "alice")

	err := svc.HandleEvent(context.Background(), 1001, "ghost", &domain.Event{Type: domain.EventMessage})
	require.ErrorIs(t, err, ErrConnectionNotFound)
}

// Scenario: room "Math" created by alice, bob joins, alice posts "hi".
func TestScenario_MathRoom(t *testing.T) {
	svc, repo := newTestRoomService(t)
	ctx := context.Background()
	seedRoom(t, repo, 1001, "Math", "alice")

	require.NoError(t, svc.Join(ctx, 1001, "bob"))

	connAlice, _, err := svc.Connect(ctx, 1001, "alice")
	require.NoError(t, err)
	connBob, _, err := svc.Connect(ctx, 1001, "bob")
	require.NoError(t, err)
	drain(connAlice)
	drain(connBob)

	_, err = svc.PublishMessage(ctx, 1001, "alice", "hi", "")
	require.NoError(t, err)

	for _, conn := range []*domain.Connection{connAlice, connBob} {
		events := drain(conn)
		require.Len(t, events, 1)
		require.Equal(t, "alice", events[0].Payload["author"])
		require.Equal(t, "hi", events[0].Payload["text"])
		require.Equal(t, int64(1001), events[0].Payload["room_id"])
	}

	msgs, err := svc.ListMessages(ctx, 1001)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, domain.Principal("alice"), msgs[0].Author)
	require.Equal(t, "hi", msgs[0].Text)
}

// Scenario: deleting a room cascades and later joins fail.
func TestScenario_DeleteThenJoin(t *testing.T) {
	svc, repo := newTestRoomService(t)
	ctx := context.Background()
	seedRoom(t, repo, 1001, "Math", "alice")

	_, err := svc.PublishMessage(ctx, 1001, "alice", "hi", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRoom(ctx, 1001))

	_, err = svc.ListMessages(ctx, 1001)
	require.ErrorIs(t, err, repository.ErrRoomNotFound)

	err = svc.Join(ctx, 1001, "carol")
	require.ErrorIs(t, err, repository.ErrRoomNotFound)
}
