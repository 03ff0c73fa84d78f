package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/studylab/chatboard/internal/domain"
	"github.com/studylab/chatboard/internal/repository"
	"github.com/studylab/chatboard/internal/service"
)

type ForumController struct {
	forum service.ForumInteractor
}

func NewForumController(forum service.ForumInteractor) *ForumController {
	return &ForumController{forum: forum}
}

func (c *ForumController) ListPosts(ctx *gin.Context) {
	posts, err := c.forum.ListPosts(ctx.Request.Context(), ctx.Query("category"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, posts)
}

func (c *ForumController) CreatePost(ctx *gin.Context) {
	type CreatePostRequest struct {
		Title    string `json:"title" binding:"required"`
		Author   string `json:"author" binding:"required"`
		Content  string `json:"content" binding:"required"`
		Category string `json:"category"`
	}
	var req CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	post, err := c.forum.CreatePost(ctx.Request.Context(), req.Title, domain.Principal(req.Author), req.Content, req.Category)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "post": post})
}

func (c *ForumController) AddComment(ctx *gin.Context) {
	postID, err := strconv.ParseInt(ctx.Param("postID"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	type AddCommentRequest struct {
		Author  string `json:"author" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	var req AddCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	comment, err := c.forum.AddComment(ctx.Request.Context(), postID, domain.Principal(req.Author), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPostNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrValidation):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "comment": comment})
}
