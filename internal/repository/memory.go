package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/studylab/chatboard/internal/domain"
)

// InMemoryRoomRepository backs the room store when no database DSN is
// configured, and doubles as the test double for the service layer.
type InMemoryRoomRepository struct {
	mu       sync.RWMutex
	rooms    map[int64]*domain.Room
	members  map[int64]map[domain.Principal]struct{}
	messages map[int64][]*domain.Message
}

func NewInMemoryRoomRepository() *InMemoryRoomRepository {
	return &InMemoryRoomRepository{
		rooms:    make(map[int64]*domain.Room),
		members:  make(map[int64]map[domain.Principal]struct{}),
		messages: make(map[int64][]*domain.Message),
	}
}

func (r *InMemoryRoomRepository) CreateRoom(ctx context.Context, room *domain.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[room.ID]; ok {
		return ErrRoomExists
	}

	r.rooms[room.ID] = room
	r.members[room.ID] = make(map[domain.Principal]struct{})
	return nil
}

func (r *InMemoryRoomRepository) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (r *InMemoryRoomRepository) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		result = append(result, room)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *InMemoryRoomRepository) ListRoomsByMember(ctx context.Context, member domain.Principal) ([]*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Room
	for id, set := range r.members {
		if _, ok := set[member]; ok {
			if room, exists := r.rooms[id]; exists {
				result = append(result, room)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *InMemoryRoomRepository) DeleteRoom(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[id]; !ok {
		return ErrRoomNotFound
	}

	delete(r.rooms, id)
	delete(r.members, id)
	delete(r.messages, id)
	return nil
}

func (r *InMemoryRoomRepository) AddMember(ctx context.Context, roomID int64, member domain.Principal) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[roomID]; !ok {
		return ErrRoomNotFound
	}

	r.members[roomID][member] = struct{}{}
	return nil
}

func (r *InMemoryRoomRepository) RemoveMember(ctx context.Context, roomID int64, member domain.Principal) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if set, ok := r.members[roomID]; ok {
		delete(set, member)
	}
	return nil
}

func (r *InMemoryRoomRepository) ListMembers(ctx context.Context, roomID int64) ([]domain.Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.members[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	members := make([]domain.Principal, 0, len(set))
	for member := range set {
		members = append(members, member)
	}
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
	return members, nil
}

func (r *InMemoryRoomRepository) AppendMessage(ctx context.Context, msg *domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[msg.RoomID]; !ok {
		return ErrRoomNotFound
	}

	r.messages[msg.RoomID] = append(r.messages[msg.RoomID], msg)
	return nil
}

func (r *InMemoryRoomRepository) ListMessages(ctx context.Context, roomID int64) ([]*domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.rooms[roomID]; !ok {
		return nil, ErrRoomNotFound
	}

	msgs := r.messages[roomID]
	result := make([]*domain.Message, len(msgs))
	copy(result, msgs)
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type InMemoryPostRepository struct {
	mu    sync.RWMutex
	posts map[int64]*domain.Post
}

func NewInMemoryPostRepository() *InMemoryPostRepository {
	return &InMemoryPostRepository{posts: make(map[int64]*domain.Post)}
}

func (r *InMemoryPostRepository) CreatePost(ctx context.Context, post *domain.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.posts[post.ID] = post
	return nil
}

func (r *InMemoryPostRepository) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (r *InMemoryPostRepository) ListPosts(ctx context.Context, category string) ([]*domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Post
	for _, post := range r.posts {
		if category != "" && post.Category != category {
			continue
		}
		result = append(result, post)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *InMemoryPostRepository) AddComment(ctx context.Context, postID int64, comment *domain.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[postID]
	if !ok {
		return ErrPostNotFound
	}

	post.Comments = append(post.Comments, *comment)
	return nil
}

type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{users: make(map[string]*domain.User)}
}

func (r *InMemoryUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return ErrUserExists
	}
	r.users[user.Username] = user
	return nil
}

func (r *InMemoryUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}
