package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterOptions struct {
	AllowedOrigins []string
	StaticDir      string
	STUNServers    []string
}

func SetupRouter(roomController *RoomController, forumController *ForumController, adminController *AdminController, opts RouterOptions) *gin.Engine {
	router := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = opts.AllowedOrigins
	config.AllowCredentials = true
	config.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"Origin",
		"Accept",
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	router.Use(cors.New(config))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	api.GET("/webrtc/config", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"stun_servers": opts.STUNServers})
	})

	if roomController != nil {
		rooms := api.Group("/rooms")
		rooms.GET("", roomController.ListRooms)
		rooms.POST("", roomController.CreateRoom)
		rooms.GET("/:roomID", roomController.GetRoom)
		rooms.DELETE("/:roomID", roomController.DeleteRoom)
		rooms.POST("/:roomID/join", roomController.JoinRoom)
		rooms.POST("/:roomID/leave", roomController.LeaveRoom)
		rooms.GET("/:roomID/members", roomController.ListMembers)
		rooms.GET("/:roomID/messages", roomController.ListMessages)
		rooms.POST("/:roomID/messages", roomController.PostMessage)
		rooms.GET("/:roomID/ws", roomController.Subscribe)

		api.GET("/my-rooms", roomController.MyRooms)
	}

	if forumController != nil {
		posts := api.Group("/posts")
		posts.GET("", forumController.ListPosts)
		posts.POST("", forumController.CreatePost)
		posts.POST("/:postID/comments", forumController.AddComment)
	}

	if adminController != nil {
		api.POST("/admin/login", adminController.Login)
	}

	if opts.StaticDir != "" {
		router.NoRoute(spaHandler(opts.StaticDir))
	}

	return router
}

// spaHandler serves the front end from the site root: real files as-is,
// everything else falls back to index.html so client-side routes work.
func spaHandler(staticDir string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api") {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		path := filepath.Join(staticDir, filepath.Clean(ctx.Request.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			ctx.File(path)
			return
		}

		ctx.File(filepath.Join(staticDir, "index.html"))
	}
}
