package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// Conn is one duplex push connection.
type Conn interface {
	// Read blocks until the next frame arrives.
	Read(ctx context.Context) ([]byte, error)
	// WriteJSON sends v as one text frame.
	WriteJSON(ctx context.Context, v any) error
	Close() error
}

// Dialer opens connections to socket URLs.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WebsocketDialer dials with github.com/coder/websocket.
type WebsocketDialer struct {
	HTTPClient *http.Client
	Header     http.Header
	// Timeout bounds the handshake; zero leaves it to ctx.
	Timeout time.Duration
}

// Dial opens a websocket connection.
func (d WebsocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}
	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPClient: d.HTTPClient,
		HTTPHeader: d.Header,
	})
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &wsConn{conn: conn}, nil
}

type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) Read(ctx context.Context) ([]byte, error) {
	_, data, err := c.conn.Read(ctx)
	return data, err
}

func (c *wsConn) WriteJSON(ctx context.Context, v any) error {
	return wsjson.Write(ctx, c.conn, v)
}

func (c *wsConn) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "closing")
}
