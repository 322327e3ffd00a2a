package view

import "golang.org/x/net/html"

// RoomList projects room additions and removals onto its container.
// It does not decide which rooms exist; callers diff and then apply.
type RoomList struct {
	node      *html.Node
	items     map[string]*html.Node
	onClick   map[string]func()
	mutations int
}

// NewRoomList wraps an existing container element.
func NewRoomList(node *html.Node) *RoomList {
	return &RoomList{
		node:    node,
		items:   make(map[string]*html.Node),
		onClick: make(map[string]func()),
	}
}

// Add appends an item for roomID wired to onSelect. Returns false if it already exists.
func (l *RoomList) Add(roomID string, onSelect func(roomID string)) bool {
	if _, exists := l.items[roomID]; exists {
		return false
	}
	item := RenderRoomItem(roomID)
	l.node.AppendChild(item)
	l.items[roomID] = item
	if onSelect != nil {
		l.onClick[roomID] = func() { onSelect(roomID) }
	}
	l.mutations++
	return true
}

// Remove detaches the item for roomID. Returns false if there was none.
func (l *RoomList) Remove(roomID string) bool {
	item, exists := l.items[roomID]
	if !exists {
		return false
	}
	l.node.RemoveChild(item)
	delete(l.items, roomID)
	delete(l.onClick, roomID)
	l.mutations++
	return true
}

// Click fires the selection handler of the item for roomID.
func (l *RoomList) Click(roomID string) bool {
	handler, ok := l.onClick[roomID]
	if !ok {
		return false
	}
	handler()
	return true
}

// IDs returns the room ids in display order, read from the tree.
func (l *RoomList) IDs() []string {
	items := children(l.node)
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if HasClass(item, ClassRoomItem) {
			ids = append(ids, Attr(item, AttrRoomID))
		}
	}
	return ids
}

// Mutations counts tree changes applied so far.
func (l *RoomList) Mutations() int {
	return l.mutations
}

// Node returns the container element.
func (l *RoomList) Node() *html.Node {
	return l.node
}
