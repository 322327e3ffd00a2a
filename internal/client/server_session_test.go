package client

import (
	"context"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/supportchat/internal/config"
	"github.com/vovakirdan/supportchat/internal/core"
	"github.com/vovakirdan/supportchat/internal/proto"
	transporthttp "github.com/vovakirdan/supportchat/internal/transport/http"
	"github.com/vovakirdan/supportchat/internal/view"
)

// startChatServer runs the real chat server routes.
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

func TestAgentSessionAgainstChatServer(t *testing.T) {
	ts, hub := startChatServer(t)
	loop, ctx := startLoop(t)

	origin, err := ParseOrigin(ts.URL)
	if err != nil {
		t.Fatalf("parse origin: %v", err)
	}
	page := view.NewPage()
	session := NewSession(ctx, New(origin, nil, loop, nil), page, Paths{
		Chat:          "agent/chat",
		Notifications: "agent/notifications",
	})

	var startErr error
	if err := loop.Do(ctx, func() { startErr = session.Start() }); err != nil || startErr != nil {
		t.Fatalf("start: %v %v", err, startErr)
	}

	roomID, err := hub.CreateRoom(ctx)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	eventually(t, ctx, loop, func() bool { return slices.Equal(page.Rooms.IDs(), []string{roomID}) })

	customer, _, err := websocket.Dial(ctx, origin.SocketURL("chat", roomID), nil)
	if err != nil {
		t.Fatalf("dial customer: %v", err)
	}
	defer customer.Close(websocket.StatusNormalClosure, "done")

	if err := wsjson.Write(ctx, customer, proto.OutboundMessage{Text: "my order is late"}); err != nil {
		t.Fatalf("customer write: %v", err)
	}
	var echo proto.ChatMessage
	if err := wsjson.Read(ctx, customer, &echo); err != nil || echo.Sender != proto.SenderCustomer {
		t.Fatalf("unexpected customer echo %+v, %v", echo, err)
	}

	var clicked bool
	_ = loop.Do(ctx, func() { clicked = page.Rooms.Click(roomID) })
	if !clicked {
		t.Fatal("room item not clickable")
	}
	eventually(t, ctx, loop, func() bool { return session.ActiveRoom() == roomID })

	// the customer's message arrives as backlog
	eventually(t, ctx, loop, func() bool { return len(page.Messages.Items()) == 1 })
	var styled bool
	var id, text string
	_ = loop.Do(ctx, func() {
		item := page.Messages.Items()[0]
		styled = view.HasClass(item, view.ClassMessageCustomer)
		id = view.Attr(item, view.AttrMessageID)
		text = view.TextContent(item)
	})
	if !styled || id != echo.ID || text != "my order is late" {
		t.Fatalf("unexpected customer item styled=%v id=%q text=%q", styled, id, text)
	}

	var sendErr error
	var left string
	_ = loop.Do(ctx, func() {
		page.Input.SetValue("  checking now  ")
		sendErr = session.Send()
		left = page.Input.Value()
	})
	if sendErr != nil || left != "" {
		t.Fatalf("send err=%v, input left %q", sendErr, left)
	}

	var reply proto.ChatMessage
	if err := wsjson.Read(ctx, customer, &reply); err != nil {
		t.Fatalf("customer read: %v", err)
	}
	if reply.Sender != proto.SenderAgent || reply.Text != "checking now" {
		t.Fatalf("unexpected reply %+v", reply)
	}

	eventually(t, ctx, loop, func() bool { return len(page.Messages.Items()) == 2 })
	var scrolled bool
	_ = loop.Do(ctx, func() {
		item := page.Messages.Items()[1]
		styled = view.HasClass(item, view.ClassMessageAgent)
		id = view.Attr(item, view.AttrMessageID)
		text = view.TextContent(item)
		scrolled = page.Messages.ScrollTop() == page.Messages.ScrollHeight()
	})
	if !styled || id != reply.ID || text != "checking now" {
		t.Fatalf("unexpected agent item styled=%v id=%q text=%q", styled, id, text)
	}
	if !scrolled {
		t.Fatal("expected the list scrolled to the latest message")
	}

	var closeErr error
	_ = loop.Do(ctx, func() { closeErr = session.Close() })
	if closeErr != nil {
		t.Fatalf("close session: %v", closeErr)
	}
}
