package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRoomMessage notifies clients about a chat message in a room.
	EventRoomMessage EventKind = iota
	// EventHistory delivers the room backlog to a client upon joining.
	EventHistory
	// EventRoomsUpdated carries the full list of live rooms.
	EventRoomsUpdated
	// EventError notifies a client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	ID       string
	Room     string
	Message  Message
	Messages []Message // For EventHistory
	RoomIDs  []string  // For EventRoomsUpdated
	Error    *CoreError
}
