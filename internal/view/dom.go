// Package view holds the client's page tree and the renderers that project
// chat state onto it. The tree is built from golang.org/x/net/html nodes and
// is not safe for concurrent use: only the client event loop touches it.
package view

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// AttrMessageID carries a rendered message's id.
	AttrMessageID = "data-message-id"
	// AttrRoomID carries a room list item's room id.
	AttrRoomID = "data-room-id"
)

// Page is the surrounding document the chat components render into.
type Page struct {
	Root     *html.Node
	Messages *MessageList
	Rooms    *RoomList
	Input    *Input
}

// NewPage builds a document with a message list, a room list and an input field.
func NewPage() *Page {
	body := newElement(atom.Body, "")

	rooms := newElement(atom.Ul, "chat-list")
	setAttr(rooms, "id", "chat-list")
	messages := newElement(atom.Ul, "chat-view")
	setAttr(messages, "id", "chat-view")
	input := newElement(atom.Input, "chat-input")
	setAttr(input, "id", "chat-input-text")
	setAttr(input, "type", "text")

	body.AppendChild(rooms)
	body.AppendChild(messages)
	body.AppendChild(input)

	return &Page{
		Root:     body,
		Messages: NewMessageList(messages),
		Rooms:    NewRoomList(rooms),
		Input:    NewInput(input),
	}
}

// Render writes the page tree as HTML.
func (p *Page) Render(w io.Writer) error {
	return html.Render(w, p.Root)
}

func newElement(a atom.Atom, class string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
	}
	if class != "" {
		setAttr(n, "class", class)
	}
	return n
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// Attr returns the value of an attribute, or "" when absent.
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasClass reports whether the node's class list contains class.
func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// setText replaces all children with a single text node.
func setText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	if text == "" {
		return
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// TextContent concatenates all descendant text.
func TextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}
