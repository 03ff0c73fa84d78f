package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/studylab/chatboard/internal/domain"
	"github.com/studylab/chatboard/internal/repository"
)

type ForumService struct {
	posts repository.PostRepository
	log   *slog.Logger
}

func NewForumService(posts repository.PostRepository, log *slog.Logger) *ForumService {
	if log == nil {
		log = slog.Default()
	}
	return &ForumService{posts: posts, log: log}
}

func (s *ForumService) CreatePost(ctx context.Context, title string, author domain.Principal, content, category string) (*domain.Post, error) {
	const op = "service.forum.createPost"

	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if author == "" {
		return nil, fmt.Errorf("%w: author is required", ErrValidation)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}

	post := domain.NewPost(title, author, content, strings.TrimSpace(category))
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	s.log.Info("post created",
		slog.String("op", op),
		slog.Int64("post_id", post.ID),
		slog.String("category", post.Category),
	)
	return post, nil
}

func (s *ForumService) ListPosts(ctx context.Context, category string) ([]*domain.Post, error) {
	return s.posts.ListPosts(ctx, strings.TrimSpace(category))
}

func (s *ForumService) AddComment(ctx context.Context, postID int64, author domain.Principal, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if author == "" {
		return nil, fmt.Errorf("%w: author is required", ErrValidation)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}

	comment := domain.NewComment(author, content)
	if err := s.posts.AddComment(ctx, postID, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
