package view

import (
	"golang.org/x/net/html"

	"github.com/vovakirdan/supportchat/internal/proto"
)

// MessageList is the append-only container of rendered chat messages.
// Each item counts as one row of scroll height.
type MessageList struct {
	node      *html.Node
	scrollTop int

	// OnAppend, when set, observes every appended item.
	OnAppend func(msg proto.ChatMessage, item *html.Node)
}

// NewMessageList wraps an existing container element.
func NewMessageList(node *html.Node) *MessageList {
	return &MessageList{node: node}
}

// Show renders msg, appends it after any existing items and scrolls to the newest entry.
func (l *MessageList) Show(msg proto.ChatMessage) *html.Node {
	item := RenderMessage(msg)
	l.node.AppendChild(item)
	l.ScrollToBottom()
	if l.OnAppend != nil {
		l.OnAppend(msg, item)
	}
	return item
}

// ScrollToBottom moves the scroll position to its maximum extent.
func (l *MessageList) ScrollToBottom() {
	l.scrollTop = l.ScrollHeight()
}

// ScrollTop returns the current scroll position.
func (l *MessageList) ScrollTop() int {
	return l.scrollTop
}

// ScrollHeight returns the total scrollable extent.
func (l *MessageList) ScrollHeight() int {
	return len(children(l.node))
}

// Items returns the rendered message items in display order.
func (l *MessageList) Items() []*html.Node {
	return children(l.node)
}

// Node returns the container element.
func (l *MessageList) Node() *html.Node {
	return l.node
}
