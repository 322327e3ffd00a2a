// Package client implements the chat client: a per-room message channel, a
// session-wide room list channel and the session that switches between rooms.
package client

import (
	"context"
	"errors"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"
)

// ErrClosed is returned when using a channel after Close.
var ErrClosed = errors.New("channel closed")

// Client opens channels against one page origin.
type Client struct {
	origin Origin
	dialer Dialer
	loop   *Loop
	log    *zerolog.Logger
}

// New builds a client. A nil dialer means WebsocketDialer{}.
func New(origin Origin, dialer Dialer, loop *Loop, logger *zerolog.Logger) *Client {
	if dialer == nil {
		dialer = WebsocketDialer{}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Client{
		origin: origin,
		dialer: dialer,
		loop:   loop,
		log:    logger,
	}
}

// Origin returns the page origin channels are built from.
func (c *Client) Origin() Origin {
	return c.origin
}

// Loop returns the event loop channels post to.
func (c *Client) Loop() *Loop {
	return c.loop
}

// logClosed reports why a reader stopped. Expected shutdowns are logged quietly.
func logClosed(logger *zerolog.Logger, what string, err error) {
	if errors.Is(err, context.Canceled) {
		logger.Info().Msg(what + " connection closed")
		return
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		logger.Info().Msg(what + " connection closed")
		return
	}
	logger.Warn().Err(err).Msg(what + " connection closed with error")
}
