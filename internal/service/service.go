package service

import (
	"context"

	"github.com/studylab/chatboard/internal/domain"
)

type RoomInteractor interface {
	CreateRoom(ctx context.Context, name string, creator domain.Principal) (*domain.Room, error)
	GetRoom(ctx context.Context, id int64) (*domain.Room, error)
	ListRooms(ctx context.Context) ([]*domain.Room, error)
	ListRoomsByMember(ctx context.Context, member domain.Principal) ([]*domain.Room, error)
	DeleteRoom(ctx context.Context, id int64) error

	Join(ctx context.Context, roomID int64, member domain.Principal) error
	Leave(ctx context.Context, roomID int64, member domain.Principal) error
	ListMembers(ctx context.Context, roomID int64) ([]domain.Principal, error)

	PublishMessage(ctx context.Context, roomID int64, author domain.Principal, text, image string) (*domain.Message, error)
	ListMessages(ctx context.Context, roomID int64) ([]*domain.Message, error)

	Connect(ctx context.Context, roomID int64, name domain.Principal) (*domain.Connection, []*domain.Connection, error)
	Disconnect(connID string)
	HandleEvent(ctx context.Context, roomID int64, connID string, event *domain.Event) error
}

type ForumInteractor interface {
	CreatePost(ctx context.Context, title string, author domain.Principal, content, category string) (*domain.Post, error)
	ListPosts(ctx context.Context, category string) ([]*domain.Post, error)
	AddComment(ctx context.Context, postID int64, author domain.Principal, content string) (*domain.Comment, error)
}

type AdminInteractor interface {
	Login(ctx context.Context, username, password string) (*domain.User, error)
}
