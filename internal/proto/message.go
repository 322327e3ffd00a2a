package proto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Sender identifies who authored a chat message.
type Sender string

const (
	SenderCustomer Sender = "customer"
	SenderAgent    Sender = "agent"
	SenderSystem   Sender = "system"
)

// NotificationKind describes what a notification frame announces.
type NotificationKind string

const (
	// NotificationRoomsUpdated carries the full set of live room ids.
	NotificationRoomsUpdated NotificationKind = "rooms_updated"
)

// ErrMalformedFrame is returned when an inbound frame does not match its schema.
var ErrMalformedFrame = errors.New("malformed frame")

// ChatMessage is pushed to every subscriber of a chat room.
type ChatMessage struct {
	ID     string `json:"id"`
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

// RoomNotification is a complete snapshot of the room list.
type RoomNotification struct {
	ID      string           `json:"id,omitempty"`
	Kind    NotificationKind `json:"kind,omitempty"`
	RoomIDs []string         `json:"room_ids"`
}

// OutboundMessage is what a client writes to a chat room.
type OutboundMessage struct {
	Text string `json:"text"`
}

// DecodeChatMessage parses a per-room frame.
// Missing id, sender or text decode to empty values; the frame itself must be a JSON object.
func DecodeChatMessage(data []byte) (ChatMessage, error) {
	var raw struct {
		ID     *json.RawMessage `json:"id"`
		Sender *string          `json:"sender"`
		Text   *string          `json:"text"`
	}
	if err := decodeObject(data, &raw); err != nil {
		return ChatMessage{}, err
	}

	msg := ChatMessage{}
	if raw.ID != nil {
		id, err := decodeID(*raw.ID)
		if err != nil {
			return ChatMessage{}, err
		}
		msg.ID = id
	}
	if raw.Sender != nil {
		msg.Sender = Sender(*raw.Sender)
	}
	if raw.Text != nil {
		msg.Text = *raw.Text
	}
	return msg, nil
}

// DecodeRoomNotification parses a room-list frame. room_ids is required.
func DecodeRoomNotification(data []byte) (RoomNotification, error) {
	var raw struct {
		ID      string           `json:"id"`
		Kind    NotificationKind `json:"kind"`
		RoomIDs *[]string        `json:"room_ids"`
	}
	if err := decodeObject(data, &raw); err != nil {
		return RoomNotification{}, err
	}
	if raw.RoomIDs == nil {
		return RoomNotification{}, fmt.Errorf("%w: room_ids is required", ErrMalformedFrame)
	}
	if raw.Kind != "" && raw.Kind != NotificationRoomsUpdated {
		return RoomNotification{}, fmt.Errorf("%w: unknown notification kind %q", ErrMalformedFrame, raw.Kind)
	}
	return RoomNotification{ID: raw.ID, Kind: raw.Kind, RoomIDs: *raw.RoomIDs}, nil
}

// DecodeOutboundMessage parses what a client sent to a chat room.
func DecodeOutboundMessage(data []byte) (OutboundMessage, error) {
	var out OutboundMessage
	if err := decodeObject(data, &out); err != nil {
		return OutboundMessage{}, err
	}
	return out, nil
}

func decodeObject(data []byte, v any) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return fmt.Errorf("%w: expected JSON object", ErrMalformedFrame)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return nil
}

// decodeID accepts string or numeric ids; ids are opaque to the client.
func decodeID(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("%w: id must be a string or number", ErrMalformedFrame)
}
