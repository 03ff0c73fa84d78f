package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/studylab/chatboard/internal/repository"
)

func TestForum_CreateAndList(t *testing.T) {
	svc := NewForumService(repository.NewInMemoryPostRepository(), nil)
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, "", "alice", "content", "")
	require.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreatePost(ctx, "Title", "", "content", "")
	require.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreatePost(ctx, "Title", "alice", "", "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreatePost(ctx, "Integrals", "alice", "stuck on problem 3", "math")
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, "Lunch spots", "bob", "any ideas?", "misc")
	require.NoError(t, err)

	posts, err := svc.ListPosts(ctx, "math")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "Integrals", posts[0].Title)

	posts, err = svc.ListPosts(ctx, "")
	require.NoError(t, err)
	require.Len(t, posts, 2)
}

func TestForum_AddComment(t *testing.T) {
	svc := NewForumService(repository.NewInMemoryPostRepository(), nil)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, "Integrals", "alice", "stuck", "math")
	require.NoError(t, err)

	comment, err := svc.AddComment(ctx, post.ID, "bob", "try substitution")
	require.NoError(t, err)
	require.NotZero(t, comment.ID)

	posts, err := svc.ListPosts(ctx, "math")
	require.NoError(t, err)
	require.Len(t, posts[0].Comments, 1)

	_, err = svc.AddComment(ctx, 4242, "bob", "lost")
	require.ErrorIs(t, err, repository.ErrPostNotFound)
}
