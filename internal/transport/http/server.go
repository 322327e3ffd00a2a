package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/supportchat/internal/config"
	"github.com/vovakirdan/supportchat/internal/core"
)

// NewServer builds the HTTP server with the chat API and websocket routes.
// Sockets are served from the ServeMux directly so the upgrade can hijack the
// raw connection; everything else goes to gin.
func NewServer(hub *core.Hub, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))
	if len(cfg.Server.AllowedOrigins) > 0 {
		router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	}

	router.GET("/health", healthHandler)

	rooms := NewRoomHandlers(hub, logger)
	api := router.Group("/api")
	api.GET("/rooms", rooms.ListRooms)
	api.POST("/customer/room", rooms.CustomerRoom)

	ws := NewWSHandler(hub, cfg.Server, logger)
	mux := stdhttp.NewServeMux()
	mux.Handle("GET /chat/{room_id}", ws.Chat(core.RoleCustomer))
	mux.Handle("GET /agent/chat/{room_id}", ws.Chat(core.RoleAgent))
	mux.HandleFunc("GET /agent/notifications", ws.Notifications)
	mux.Handle("/", router)

	return &stdhttp.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
