package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"net/url"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/supportchat/internal/config"
	"github.com/vovakirdan/supportchat/internal/core"
	"github.com/vovakirdan/supportchat/internal/utils"
)

var errRoomGone = errors.New("chat room not found")

type readLoopFunc func(ctx context.Context, conn *websocket.Conn, client *core.Client) error

// WSHandler upgrades HTTP connections and bridges them to core.Client.
type WSHandler struct {
	hub        *core.Hub
	acceptOpts *websocket.AcceptOptions
	rateLimit  int
	log        *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, cfg config.ServerConfig, logger *zerolog.Logger) *WSHandler {
	opts := &websocket.AcceptOptions{}
	if len(cfg.AllowedOrigins) == 0 {
		opts.InsecureSkipVerify = true
	} else {
		opts.OriginPatterns = originPatterns(cfg.AllowedOrigins)
	}
	return &WSHandler{
		hub:        hub,
		acceptOpts: opts,
		rateLimit:  cfg.MessageRateLimit,
		log:        logger,
	}
}

// Chat serves a room's message socket; everything the client writes is sent as role.
// The route must bind the {room_id} wildcard.
func (h *WSHandler) Chat(role core.Role) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		roomID := r.PathValue("room_id")

		conn, err := websocket.Accept(w, r, h.acceptOpts)
		if err != nil {
			h.log.Error().Err(err).Msg("ws accept error")
			return
		}

		ctx := r.Context()
		exists, err := h.hub.RoomExists(ctx, roomID)
		if err != nil || !exists {
			h.log.Error().Err(err).Str("room_id", roomID).Msg("chat room not found")
			conn.Close(websocket.StatusNormalClosure, errRoomGone.Error())
			return
		}

		client := core.NewClient(utils.NewID(), role)
		h.serve(ctx, conn, client, &core.Command{Kind: core.CommandJoinRoom, Room: roomID}, h.chatReadLoop(roomID))
	}
}

// Notifications serves the room list socket.
func (h *WSHandler) Notifications(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, h.acceptOpts)
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}

	client := core.NewClient(utils.NewID(), core.RoleAgent)
	h.serve(r.Context(), conn, client, &core.Command{Kind: core.CommandWatchRooms}, h.discardReadLoop)
}

func (h *WSHandler) serve(ctx context.Context, conn *websocket.Conn, client *core.Client, first *core.Command, read readLoopFunc) {
	defer conn.Close(websocket.StatusInternalError, "internal error")

	h.hub.RegisterClient(client)
	defer h.hub.UnregisterClient(client)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	select {
	case client.Commands <- first:
	case <-ctx.Done():
		return
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- read(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err := <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if errors.Is(err, errRoomGone) {
		conn.Close(status, err.Error())
		return
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("client_id", client.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) chatReadLoop(roomID string) readLoopFunc {
	return func(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
		limiter := newRateLimiter(h.rateLimit)
		stop := make(chan struct{})
		defer close(stop)
		limiter.startReset(stop)

		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return err
			}

			cmd, err := inboundToCommand(client, roomID, data)
			if err != nil {
				h.log.Error().Err(err).
					Str("room_id", roomID).
					Str("client_id", client.ID).
					Bytes("data", data).
					Msg("invalid inbound message")
				continue
			}
			if !limiter.allow() {
				h.log.Warn().Str("room_id", roomID).Str("client_id", client.ID).Msg("rate limit exceeded, message dropped")
				continue
			}

			select {
			case client.Commands <- cmd:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// discardReadLoop keeps the socket read side alive; notification clients have nothing to say.
func (h *WSHandler) discardReadLoop(ctx context.Context, conn *websocket.Conn, _ *core.Client) error {
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return err
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if event.Kind == core.EventError {
				if event.Error == nil {
					continue
				}
				h.log.Warn().Str("client_id", client.ID).Str("room_id", event.Room).Str("code", event.Error.Code).Msg(event.Error.Message)
				if event.Error.Code == core.ErrCodeRoomNotFound {
					return errRoomGone
				}
				continue
			}
			for _, frame := range framesFromEvent(event) {
				if err := wsjson.Write(ctx, conn, frame); err != nil {
					h.log.Error().Err(err).Str("client_id", client.ID).Msg("write ws event")
					return err
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// originPatterns turns configured origins into the host patterns websocket.Accept matches.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
			continue
		}
		patterns = append(patterns, o)
	}
	return patterns
}
