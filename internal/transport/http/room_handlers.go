package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/supportchat/internal/core"
)

// ChatRoomCookie remembers a customer's room between page loads.
const ChatRoomCookie = "chat_room_id"

// RoomHandlers provides HTTP handlers for room endpoints.
type RoomHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(hub *core.Hub, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		hub: hub,
		log: logger,
	}
}

// RoomResponse represents a room in API responses.
type RoomResponse struct {
	ID string `json:"id"`
}

// RoomListResponse lists live room ids.
type RoomListResponse struct {
	RoomIDs []string `json:"room_ids"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListRooms returns every live room id.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	ids, err := h.hub.ListRooms(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list rooms")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, RoomListResponse{RoomIDs: ids})
}

// CustomerRoom resumes the room named by the chat_room_id cookie, or opens a new one.
// POST /api/customer/room
func (h *RoomHandlers) CustomerRoom(c *gin.Context) {
	ctx := c.Request.Context()

	if id, err := c.Cookie(ChatRoomCookie); err == nil && id != "" {
		exists, err := h.hub.RoomExists(ctx, id)
		if err != nil {
			h.log.Error().Err(err).Msg("failed to look up room")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			return
		}
		if exists {
			h.respondRoom(c, http.StatusOK, id)
			return
		}
		h.log.Debug().Str("room_id", id).Msg("cookie room gone, creating a new one")
	}

	id, err := h.hub.CreateRoom(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	h.respondRoom(c, http.StatusCreated, id)
}

func (h *RoomHandlers) respondRoom(c *gin.Context, status int, id string) {
	c.SetCookie(ChatRoomCookie, id, 0, "/", "", false, true)
	c.JSON(status, RoomResponse{ID: id})
}
