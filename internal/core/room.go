package core

import "time"

// Room groups clients subscribed to the same chat and keeps its backlog.
type Room struct {
	ID        string
	CreatedAt time.Time
	clients   map[*Client]struct{}
	history   []Message
}

// NewRoom constructs a room with no clients.
func NewRoom(id string) *Room {
	return &Room{
		ID:        id,
		CreatedAt: time.Now(),
		clients:   make(map[*Client]struct{}),
	}
}

// AddClient inserts a client into the room. Returns true if newly added.
func (r *Room) AddClient(c *Client) bool {
	if _, exists := r.clients[c]; exists {
		return false
	}
	r.clients[c] = struct{}{}
	return true
}

// RemoveClient deletes a client from the room. Returns true if removed.
func (r *Room) RemoveClient(c *Client) bool {
	if _, exists := r.clients[c]; !exists {
		return false
	}
	delete(r.clients, c)
	return true
}

// HasClient reports whether c is subscribed.
func (r *Room) HasClient(c *Client) bool {
	_, ok := r.clients[c]
	return ok
}

// Append records a message in the backlog.
func (r *Room) Append(msg Message) {
	r.history = append(r.history, msg)
}

// History returns a copy of the backlog in arrival order.
func (r *Room) History() []Message {
	return append([]Message(nil), r.history...)
}

// Broadcast sends an event to all clients in the room.
func (r *Room) Broadcast(event *Event) {
	for client := range r.clients {
		select {
		case client.Events <- event:
		default:
			// Drop if slow consumer.
		}
	}
}

// Empty returns true if no clients are in the room.
func (r *Room) Empty() bool {
	return len(r.clients) == 0
}
