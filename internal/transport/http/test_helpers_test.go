package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/supportchat/internal/config"
	"github.com/vovakirdan/supportchat/internal/core"
	"github.com/vovakirdan/supportchat/internal/proto"
)

func startTestServer(t *testing.T) (*httptest.Server, *core.Hub) {
	t.Helper()

	logger := zerolog.Nop()
	hub := core.NewHub(&logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	cfg := config.Default()
	server := NewServer(hub, &cfg, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})

	return ts, hub
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func mustCreateRoom(t *testing.T, hub *core.Hub) string {
	t.Helper()
	id, err := hub.CreateRoom(testContext(t))
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	return id
}

func mustDial(t *testing.T, ctx context.Context, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := strings.Replace(ts.URL, "http", "ws", 1) + path
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	return conn
}

func mustSend(t *testing.T, ctx context.Context, conn *websocket.Conn, text string) {
	t.Helper()
	if err := wsjson.Write(ctx, conn, proto.OutboundMessage{Text: text}); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func mustReadChat(t *testing.T, ctx context.Context, conn *websocket.Conn) proto.ChatMessage {
	t.Helper()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read chat frame: %v", err)
	}
	msg, err := proto.DecodeChatMessage(data)
	if err != nil {
		t.Fatalf("decode chat frame %s: %v", data, err)
	}
	return msg
}

func mustReadRooms(t *testing.T, ctx context.Context, conn *websocket.Conn) proto.RoomNotification {
	t.Helper()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read notification frame: %v", err)
	}
	n, err := proto.DecodeRoomNotification(data)
	if err != nil {
		t.Fatalf("decode notification frame %s: %v", data, err)
	}
	return n
}
