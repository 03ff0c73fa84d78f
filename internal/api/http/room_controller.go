package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/studylab/chatboard/internal/api/http/converter"
	"github.com/studylab/chatboard/internal/domain"
	"github.com/studylab/chatboard/internal/repository"
	"github.com/studylab/chatboard/internal/service"
)

type RoomController struct {
	rooms    service.RoomInteractor
	upgrader websocket.Upgrader
}

func NewRoomController(rooms service.RoomInteractor) *RoomController {
	return &RoomController{
		rooms: rooms,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (c *RoomController) CreateRoom(ctx *gin.Context) {
	type CreateRoomRequest struct {
		Name    string `json:"name" binding:"required"`
		Creator string `json:"creator" binding:"required"`
	}
	var req CreateRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	room, err := c.rooms.CreateRoom(ctx.Request.Context(), req.Name, domain.Principal(req.Creator))
	if err != nil {
		respondRoomErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "room": converter.RoomToApi(room)})
}

func (c *RoomController) ListRooms(ctx *gin.Context) {
	rooms, err := c.rooms.ListRooms(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, converter.RoomsToApi(rooms))
}

func (c *RoomController) MyRooms(ctx *gin.Context) {
	user := ctx.Query("user")
	rooms, err := c.rooms.ListRoomsByMember(ctx.Request.Context(), domain.Principal(user))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, converter.RoomsToApi(rooms))
}

func (c *RoomController) GetRoom(ctx *gin.Context) {
	roomID, ok := parseRoomID(ctx)
	if !ok {
		return
	}

	room, err := c.rooms.GetRoom(ctx.Request.Context(), roomID)
	if err != nil {
		respondRoomErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"room": converter.RoomToApi(room)})
}

func (c *RoomController) DeleteRoom(ctx *gin.Context) {
	roomID, ok := parseRoomID(ctx)
	if !ok {
		return
	}

	if err := c.rooms.DeleteRoom(ctx.Request.Context(), roomID); err != nil {
		respondRoomErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (c *RoomController) JoinRoom(ctx *gin.Context) {
	roomID, ok := parseRoomID(ctx)
	if !ok {
		return
	}

	type JoinRequest struct {
		User string `json:"user" binding:"required"`
	}
	var req JoinRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := c.rooms.Join(ctx.Request.Context(), roomID, domain.Principal(req.User)); err != nil {
		respondRoomErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (c *RoomController) LeaveRoom(ctx *gin.Context) {
	roomID, ok := parseRoomID(ctx)
	if !ok {
		return
	}

	type LeaveRequest struct {
		User string `json:"user" binding:"required"`
	}
	var req LeaveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := c.rooms.Leave(ctx.Request.Context(), roomID, domain.Principal(req.User)); err != nil {
		respondRoomErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (c *RoomController) ListMembers(ctx *gin.Context) {
	roomID, ok := parseRoomID(ctx)
	if !ok {
		return
	}

	members, err := c.rooms.ListMembers(ctx.Request.Context(), roomID)
	if err != nil {
		respondRoomErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"members": members})
}

func (c *RoomController) ListMessages(ctx *gin.Context) {
	roomID, ok := parseRoomID(ctx)
	if !ok {
		return
	}

	messages, err := c.rooms.ListMessages(ctx.Request.Context(), roomID)
	if err != nil {
		respondRoomErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, converter.MessagesToApi(messages))
}

func (c *RoomController) PostMessage(ctx *gin.Context) {
	roomID, ok := parseRoomID(ctx)
	if !ok {
		return
	}

	type PostMessageRequest struct {
		Author string `json:"author" binding:"required"`
		Text   string `json:"text"`
		Image  string `json:"image"`
	}
	var req PostMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	msg, err := c.rooms.PublishMessage(ctx.Request.Context(), roomID, domain.Principal(req.Author), req.Text, req.Image)
	if err != nil {
		respondRoomErr(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": converter.MessageToApi(msg)})
}

// Subscribe upgrades the request to a websocket, registers the live
// connection with the room and pumps events both ways until the client
// goes away. Teardown always runs the disconnect path exactly once.
func (c *RoomController) Subscribe(ctx *gin.Context) {
	roomID, ok := parseRoomID(ctx)
	if !ok {
		return
	}

	displayName := ctx.Query("name")
	if displayName == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	socket, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		ctx.String(http.StatusInternalServerError, "failed to upgrade connection")
		return
	}

	conn, others, err := c.rooms.Connect(context.Background(), roomID, domain.Principal(displayName))
	if err != nil {
		_ = socket.WriteJSON(gin.H{"error": err.Error()})
		socket.Close()
		return
	}

	go forwardEvents(conn, socket)

	peers := make([]gin.H, 0, len(others))
	for _, other := range others {
		peers = append(peers, gin.H{"conn_id": other.ID, "name": other.Name.String()})
	}
	conn.Enqueue(domain.Event{
		Type:   domain.EventJoined,
		RoomID: roomID,
		From:   conn.ID,
		Payload: map[string]any{
			"conn_id": conn.ID,
			"name":    conn.Name.String(),
			"peers":   peers,
		},
	})

	defer c.rooms.Disconnect(conn.ID)

	for {
		var event domain.Event
		if err := socket.ReadJSON(&event); err != nil {
			socket.Close()
			return
		}

		if event.Type == domain.EventLeave {
			socket.Close()
			return
		}

		if err := c.rooms.HandleEvent(context.Background(), roomID, conn.ID, &event); err != nil {
			// Errors go back through the event queue so the socket has a
			// single writer.
			conn.Enqueue(domain.Event{
				Type:    "error",
				RoomID:  roomID,
				Payload: map[string]any{"error": err.Error()},
			})
		}
	}
}

func forwardEvents(conn *domain.Connection, socket *websocket.Conn) {
	for event := range conn.Events {
		if err := socket.WriteJSON(event); err != nil {
			return
		}
	}
	_ = socket.WriteMessage(websocket.CloseMessage, []byte{})
}

func parseRoomID(ctx *gin.Context) (int64, bool) {
	roomID, err := strconv.ParseInt(ctx.Param("roomID"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return 0, false
	}
	return roomID, true
}

func respondRoomErr(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrRoomNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}
