package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studylab/chatboard/internal/service"
)

type AdminController struct {
	admin service.AdminInteractor
}

func NewAdminController(admin service.AdminInteractor) *AdminController {
	return &AdminController{admin: admin}
}

func (c *AdminController) Login(ctx *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := c.admin.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "login failed"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "userId": user.ID})
}
