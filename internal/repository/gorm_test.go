package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/studylab/chatboard/internal/domain"
	"github.com/studylab/chatboard/internal/repository/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.Room{}, &model.Member{}, &model.Message{},
		&model.Post{}, &model.Comment{}, &model.User{},
	)
	require.NoError(t, err)

	return db
}

func testRoom(id int64, name string, creator domain.Principal) *domain.Room {
	return &domain.Room{
		ID:        id,
		Name:      name,
		Creator:   creator,
		CreatedAt: time.Now().UTC(),
	}
}

func TestRoomRepository_CreateAndGet(t *testing.T) {
	repo := NewGormRoomRepository(setupTestDB(t))
	ctx := context.Background()

	room := testRoom(1001, "Math", "alice")
	require.NoError(t, repo.CreateRoom(ctx, room))

	got, err := repo.GetRoom(ctx, 1001)
	require.NoError(t, err)
	require.Equal(t, "Math", got.Name)
	require.Equal(t, domain.Principal("alice"), got.Creator)

	_, err = repo.GetRoom(ctx, 9999)
	require.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomRepository_CreateDuplicateID(t *testing.T) {
	repo := NewGormRoomRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.CreateRoom(ctx, testRoom(1001, "Math", "alice")))
	err := repo.CreateRoom(ctx, testRoom(1001, "Physics", "bob"))
	require.ErrorIs(t, err, ErrRoomExists)
}

func TestRoomRepository_IdempotentJoin(t *testing.T) {
	repo := NewGormRoomRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.CreateRoom(ctx, testRoom(1001, "Math", "alice")))

	require.NoError(t, repo.AddMember(ctx, 1001, "bob"))
	require.NoError(t, repo.AddMember(ctx, 1001, "bob"))

	members, err := repo.ListMembers(ctx, 1001)
	require.NoError(t, err)
	require.Equal(t, []domain.Principal{"bob"}, members)
}

func TestRoomRepository_JoinMissingRoom(t *testing.T) {
	repo := NewGormRoomRepository(setupTestDB(t))

	err := repo.AddMember(context.Background(), 4242, "carol")
	require.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomRepository_CascadingDelete(t *testing.T) {
	repo := NewGormRoomRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.CreateRoom(ctx, testRoom(1001, "Math", "alice")))
	require.NoError(t, repo.AddMember(ctx, 1001, "bob"))
	require.NoError(t, repo.AppendMessage(ctx, domain.NewMessage(1001, "alice", "hi", "")))

	require.NoError(t, repo.DeleteRoom(ctx, 1001))

	_, err := repo.ListMessages(ctx, 1001)
	require.ErrorIs(t, err, ErrRoomNotFound)
	_, err = repo.ListMembers(ctx, 1001)
	require.ErrorIs(t, err, ErrRoomNotFound)

	// joining a deleted room fails
	require.ErrorIs(t, repo.AddMember(ctx, 1001, "carol"), ErrRoomNotFound)

	// deleting again reports not found, nothing corrupted
	require.ErrorIs(t, repo.DeleteRoom(ctx, 1001), ErrRoomNotFound)
}

func TestRoomRepository_DeleteLeavesOtherRoomsAlone(t *testing.T) {
	repo := NewGormRoomRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.CreateRoom(ctx, testRoom(1001, "Math", "alice")))
	require.NoError(t, repo.CreateRoom(ctx, testRoom(1002, "Physics", "bob")))
	require.NoError(t, repo.AppendMessage(ctx, domain.NewMessage(1002, "bob", "hello", "")))

	require.NoError(t, repo.DeleteRoom(ctx, 1001))

	msgs, err := repo.ListMessages(ctx, 1002)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
}

func TestRoomRepository_MessageOrdering(t *testing.T) {
	repo := NewGormRoomRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.CreateRoom(ctx, testRoom(1001, "Math", "alice")))

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.AppendMessage(ctx, domain.NewMessage(1001, "alice", "msg", "")))
	}

	msgs, err := repo.ListMessages(ctx, 1001)
	require.NoError(t, err)
	require.Len(t, msgs, 5)
	for i := 1; i < len(msgs); i++ {
		require.Greater(t, msgs[i].ID, msgs[i-1].ID)
		require.False(t, msgs[i].Time.Before(msgs[i-1].Time))
	}
}

func TestRoomRepository_AppendToMissingRoom(t *testing.T) {
	repo := NewGormRoomRepository(setupTestDB(t))

	err := repo.AppendMessage(context.Background(), domain.NewMessage(4242, "alice", "hi", ""))
	require.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomRepository_ListRoomsByMember(t *testing.T) {
	repo := NewGormRoomRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.CreateRoom(ctx, testRoom(1001, "Math", "alice")))
	require.NoError(t, repo.CreateRoom(ctx, testRoom(1002, "Physics", "bob")))
	require.NoError(t, repo.AddMember(ctx, 1001, "carol"))

	rooms, err := repo.ListRoomsByMember(ctx, "carol")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	require.Equal(t, int64(1001), rooms[0].ID)

	rooms, err = repo.ListRoomsByMember(ctx, "nobody")
	require.NoError(t, err)
	require.Empty(t, rooms)
}

func TestPostRepository_CreateListComment(t *testing.T) {
	repo := NewGormPostRepository(setupTestDB(t))
	ctx := context.Background()

	post := domain.NewPost("How to integrate", "alice", "help please", "math")
	require.NoError(t, repo.CreatePost(ctx, post))
	require.NoError(t, repo.CreatePost(ctx, domain.NewPost("Off topic", "bob", "hi", "misc")))

	posts, err := repo.ListPosts(ctx, "math")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "How to integrate", posts[0].Title)

	comment := domain.NewComment("bob", "use substitution")
	require.NoError(t, repo.AddComment(ctx, post.ID, comment))

	got, err := repo.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	require.Equal(t, domain.Principal("bob"), got.Comments[0].Author)

	err = repo.AddComment(ctx, 4242, domain.NewComment("bob", "lost"))
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestUserRepository_UniqueUsername(t *testing.T) {
	repo := NewGormUserRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, domain.NewUser("admin", "admin123", domain.RoleAdmin)))
	err := repo.CreateUser(ctx, domain.NewUser("admin", "other", domain.RoleAdmin))
	require.ErrorIs(t, err, ErrUserExists)

	user, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, "admin123", user.Password)

	_, err = repo.GetByUsername(ctx, "ghost")
	require.ErrorIs(t, err, ErrUserNotFound)
}
