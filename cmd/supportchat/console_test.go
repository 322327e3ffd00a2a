package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/supportchat/internal/client"
	"github.com/vovakirdan/supportchat/internal/config"
	"github.com/vovakirdan/supportchat/internal/core"
	"github.com/vovakirdan/supportchat/internal/proto"
	transporthttp "github.com/vovakirdan/supportchat/internal/transport/http"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitForOutput(t *testing.T, out *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("output never contained %q:\n%s", want, out.String())
}

func startChatServer(t *testing.T) (*httptest.Server, *core.Hub) {
	t.Helper()

	logger := zerolog.Nop()
	hub := core.NewHub(&logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	cfg := config.Default()
	ts := httptest.NewServer(transporthttp.NewServer(hub, &cfg, &logger).Handler)
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return ts, hub
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line    string
		wantCmd string
		wantArg string
	}{
		{"hello there", "", "hello there"},
		{"  spaced  ", "", "  spaced  "},
		{"/rooms", "/rooms", ""},
		{" /join  r1 ", "/join", "r1"},
		{"", "", ""},
	}
	for _, tt := range tests {
		cmd, arg := parseLine(tt.line)
		if cmd != tt.wantCmd || arg != tt.wantArg {
			t.Fatalf("parseLine(%q) = %q, %q; want %q, %q", tt.line, cmd, arg, tt.wantCmd, tt.wantArg)
		}
	}
}

func TestSenderLabel(t *testing.T) {
	if got := senderLabel(proto.SenderAgent); got != "agent" {
		t.Fatalf("expected agent, got %s", got)
	}
	if got := senderLabel(""); got != "customer" {
		t.Fatalf("expected customer fallback, got %s", got)
	}
}

func TestCustomerConsoleSendsLines(t *testing.T) {
	ts, _ := startChatServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := config.Default()
	cfg.Client.Origin = ts.URL
	logger := zerolog.Nop()
	out := &syncBuffer{}

	con, err := startConsole(ctx, cfg, client.Paths{Chat: cfg.Client.ChatPath}, &logger, strings.NewReader("   \nhello support\n"), out)
	if err != nil {
		t.Fatalf("start console: %v", err)
	}
	defer con.close()

	hc, err := customerHTTPClient(con.client.Origin(), "")
	if err != nil {
		t.Fatalf("http client: %v", err)
	}
	roomID, err := con.client.CustomerRoom(ctx, hc)
	if err != nil {
		t.Fatalf("customer room: %v", err)
	}
	if err := con.session.Select(roomID); err != nil {
		t.Fatalf("select room: %v", err)
	}

	if err := con.run(ctx, con.handleCommon); err != nil {
		t.Fatalf("run: %v", err)
	}
	waitForOutput(t, out, "[customer] hello support")

	if strings.Count(out.String(), "[customer]") != 1 {
		t.Fatalf("expected the blank line to be dropped:\n%s", out.String())
	}
}

func TestCustomerHTTPClientResumesRoom(t *testing.T) {
	ts, hub := startChatServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	roomID, err := hub.CreateRoom(ctx)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	origin, err := client.ParseOrigin(ts.URL)
	if err != nil {
		t.Fatalf("parse origin: %v", err)
	}
	hc, err := customerHTTPClient(origin, roomID)
	if err != nil {
		t.Fatalf("http client: %v", err)
	}

	got, err := client.New(origin, nil, client.NewLoop(), nil).CustomerRoom(ctx, hc)
	if err != nil {
		t.Fatalf("customer room: %v", err)
	}
	if got != roomID {
		t.Fatalf("expected to resume %s, got %s", roomID, got)
	}
}
