package repository

import (
	"context"
	"errors"

	"github.com/studylab/chatboard/internal/domain"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomExists   = errors.New("room id already exists")
	ErrPostNotFound = errors.New("post not found")
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("username already exists")
)

// RoomRepository is the persistence collaborator for rooms, membership
// and message history. Message listing is always ascending by id, which
// is also chronological order.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room *domain.Room) error
	GetRoom(ctx context.Context, id int64) (*domain.Room, error)
	ListRooms(ctx context.Context) ([]*domain.Room, error)
	ListRoomsByMember(ctx context.Context, member domain.Principal) ([]*domain.Room, error)
	// DeleteRoom removes the room and cascades to its messages and
	// membership rows.
	DeleteRoom(ctx context.Context, id int64) error

	// AddMember is idempotent: joining twice leaves the set unchanged.
	AddMember(ctx context.Context, roomID int64, member domain.Principal) error
	RemoveMember(ctx context.Context, roomID int64, member domain.Principal) error
	ListMembers(ctx context.Context, roomID int64) ([]domain.Principal, error)

	AppendMessage(ctx context.Context, msg *domain.Message) error
	ListMessages(ctx context.Context, roomID int64) ([]*domain.Message, error)
}

type PostRepository interface {
	CreatePost(ctx context.Context, post *domain.Post) error
	GetPost(ctx context.Context, id int64) (*domain.Post, error)
	ListPosts(ctx context.Context, category string) ([]*domain.Post, error)
	AddComment(ctx context.Context, postID int64, comment *domain.Comment) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}
