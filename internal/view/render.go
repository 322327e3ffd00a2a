package view

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vovakirdan/supportchat/internal/proto"
)

const (
	ClassMessage         = "chat-message"
	ClassMessageAgent    = "chat-message-agent"
	ClassMessageSystem   = "chat-message-system"
	ClassMessageCustomer = "chat-message-customer"
	ClassRoomItem        = "chat-list-item"
)

// RenderMessage builds a list item for a chat message.
// Unknown or missing senders get the customer styling.
func RenderMessage(msg proto.ChatMessage) *html.Node {
	var class string
	switch msg.Sender {
	case proto.SenderAgent:
		class = ClassMessageAgent
	case proto.SenderSystem:
		class = ClassMessageSystem
	default:
		class = ClassMessageCustomer
	}

	el := newElement(atom.Li, ClassMessage+" "+class)
	setAttr(el, AttrMessageID, msg.ID)
	setText(el, msg.Text)
	return el
}

// RenderRoomItem builds a list item for a room id.
func RenderRoomItem(roomID string) *html.Node {
	el := newElement(atom.Li, ClassRoomItem)
	setAttr(el, AttrRoomID, roomID)
	setText(el, roomID)
	return el
}
