package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/supportchat/internal/client"
	"github.com/vovakirdan/supportchat/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	rawOrigin := flag.String("origin", "http://localhost:8080", "server origin")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	origin, err := client.ParseOrigin(*rawOrigin)
	if err != nil {
		return err
	}

	notifications, _, err := websocket.Dial(ctx, origin.SocketURL("agent/notifications"), nil)
	if err != nil {
		return fmt.Errorf("dial notifications: %w", err)
	}
	defer notifications.Close(websocket.StatusNormalClosure, "bye")
	if _, err := readRooms(ctx, notifications); err != nil {
		return err
	}

	roomID, err := createRoom(ctx, origin)
	if err != nil {
		return err
	}
	fmt.Printf("Room created: %s\n", roomID)

	for {
		ids, err := readRooms(ctx, notifications)
		if err != nil {
			return err
		}
		fmt.Printf("Rooms: %v\n", ids)
		if slices.Contains(ids, roomID) {
			break
		}
	}

	customer, _, err := websocket.Dial(ctx, origin.SocketURL("chat", roomID), nil)
	if err != nil {
		return fmt.Errorf("dial customer chat: %w", err)
	}
	defer customer.Close(websocket.StatusNormalClosure, "bye")

	agent, _, err := websocket.Dial(ctx, origin.SocketURL("agent/chat", roomID), nil)
	if err != nil {
		return fmt.Errorf("dial agent chat: %w", err)
	}
	defer agent.Close(websocket.StatusNormalClosure, "bye")

	if err := wsjson.Write(ctx, customer, proto.OutboundMessage{Text: *text}); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	msg, err := readChat(ctx, agent)
	if err != nil {
		return err
	}
	fmt.Printf("ChatMessage: id=%s sender=%s text=%q\n", msg.ID, msg.Sender, msg.Text)
	if msg.Sender != proto.SenderCustomer || msg.Text != *text {
		return fmt.Errorf("unexpected message %+v", msg)
	}
	return nil
}

func createRoom(ctx context.Context, origin client.Origin) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, origin.HTTPURL(client.CustomerRoomPath), nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create room: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode room: %w", err)
	}
	return body.ID, nil
}

func readRooms(ctx context.Context, conn *websocket.Conn) ([]string, error) {
	_, data, err := conn.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read notification: %w", err)
	}
	n, err := proto.DecodeRoomNotification(data)
	if err != nil {
		fmt.Printf("Raw data: %s\n", string(data))
		return nil, err
	}
	return n.RoomIDs, nil
}

func readChat(ctx context.Context, conn *websocket.Conn) (proto.ChatMessage, error) {
	_, data, err := conn.Read(ctx)
	if err != nil {
		return proto.ChatMessage{}, fmt.Errorf("read: %w", err)
	}
	msg, err := proto.DecodeChatMessage(data)
	if err != nil {
		fmt.Printf("Raw data: %s\n", string(data))
		return proto.ChatMessage{}, err
	}
	return msg, nil
}
