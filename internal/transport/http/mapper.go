package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/supportchat/internal/core"
	"github.com/vovakirdan/supportchat/internal/proto"
)

// inboundToCommand turns a frame written to a chat room into a send command.
// The sender is always the role of the endpoint the client connected to.
func inboundToCommand(client *core.Client, roomID string, data []byte) (*core.Command, error) {
	msg, err := proto.DecodeOutboundMessage(data)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(msg.Text) == "" {
		return nil, fmt.Errorf("%w: text is required", proto.ErrMalformedFrame)
	}
	return &core.Command{
		Kind: core.CommandSendRoomMessage,
		Room: roomID,
		Message: core.Message{
			// ID is assigned by the hub
			Room:      roomID,
			From:      client.Role,
			Text:      msg.Text,
			CreatedAt: time.Now(),
		},
	}, nil
}

func chatMessageFrom(msg core.Message) proto.ChatMessage {
	return proto.ChatMessage{
		ID:     msg.ID,
		Sender: proto.Sender(msg.From),
		Text:   msg.Text,
	}
}

// framesFromEvent maps a core event to the frames written on the socket.
// History expands to one frame per message; errors produce no frame.
func framesFromEvent(event *core.Event) []any {
	switch event.Kind {
	case core.EventRoomMessage:
		return []any{chatMessageFrom(event.Message)}
	case core.EventHistory:
		frames := make([]any, 0, len(event.Messages))
		for _, msg := range event.Messages {
			frames = append(frames, chatMessageFrom(msg))
		}
		return frames
	case core.EventRoomsUpdated:
		ids := event.RoomIDs
		if ids == nil {
			ids = []string{}
		}
		return []any{proto.RoomNotification{
			ID:      event.ID,
			Kind:    proto.NotificationRoomsUpdated,
			RoomIDs: ids,
		}}
	default:
		return nil
	}
}
