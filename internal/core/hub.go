package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/supportchat/internal/utils"
)

type clientCommand struct {
	client *Client
	cmd    *Command
}

// Hub coordinates rooms, their subscribers and room list watchers.
// All state is owned by the Run goroutine.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	commands   chan clientCommand
	requests   chan func()
	stopped    chan struct{}

	clients  map[*Client]struct{}
	rooms    map[string]*Room
	order    []string
	watchers map[*Client]struct{}

	newID func() string
	log   *zerolog.Logger
}

// NewHub creates a new chat hub instance. A nil logger disables logging.
func NewHub(logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan clientCommand, 64),
		requests:   make(chan func()),
		stopped:    make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[string]*Room),
		watchers:   make(map[*Client]struct{}),
		newID:      utils.NewID,
		log:        logger,
	}
}

// Run processes registrations, commands and queries until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			go h.forward(ctx, c)
		case c := <-h.unregister:
			h.removeClient(c)
		case cc := <-h.commands:
			if _, ok := h.clients[cc.client]; !ok {
				continue
			}
			h.handle(cc.client, cc.cmd)
		case fn := <-h.requests:
			fn()
		}
	}
}

// forward moves a client's commands onto the hub until it is unregistered.
func (h *Hub) forward(ctx context.Context, c *Client) {
	for {
		select {
		case cmd := <-c.Commands:
			select {
			case h.commands <- clientCommand{client: c, cmd: cmd}:
			case <-c.done:
				return
			case <-ctx.Done():
				return
			}
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// RegisterClient attaches a client to the hub.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.stopped:
	}
}

// UnregisterClient detaches a client, leaving all its rooms. Its Events channel is closed.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stopped:
	}
}

// CreateRoom opens a new room and announces the new room list.
func (h *Hub) CreateRoom(ctx context.Context) (string, error) {
	var id string
	err := h.do(ctx, func() {
		id = h.newID()
		h.rooms[id] = NewRoom(id)
		h.order = append(h.order, id)
		h.log.Info().Str("room_id", id).Msg("chat room created")
		h.notifyRooms()
	})
	return id, err
}

// RoomExists reports whether a room is live.
func (h *Hub) RoomExists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := h.do(ctx, func() {
		_, ok = h.rooms[id]
	})
	return ok, err
}

// ListRooms returns live room ids in creation order.
func (h *Hub) ListRooms(ctx context.Context) ([]string, error) {
	var ids []string
	err := h.do(ctx, func() {
		ids = h.roomIDs()
	})
	return ids, err
}

func (h *Hub) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case h.requests <- func() { fn(); close(done) }:
	case <-ctx.Done():
		return ctx.Err()
	case <-h.stopped:
		return ErrHubStopped
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.stopped:
		return ErrHubStopped
	}
}

func (h *Hub) handle(c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandJoinRoom:
		h.joinRoom(c, cmd.Room)
	case CommandLeaveRoom:
		h.leaveRoom(c, cmd.Room)
	case CommandSendRoomMessage:
		h.sendMessage(c, cmd.Room, cmd.Message)
	case CommandWatchRooms:
		h.watchers[c] = struct{}{}
		h.deliverSnapshot(c, h.roomsEvent())
	case CommandUnwatchRooms:
		delete(h.watchers, c)
	default:
		h.deliver(c, &Event{Kind: EventError, Error: coreError(ErrCodeBadRequest, "unknown command")})
	}
}

func (h *Hub) joinRoom(c *Client, roomID string) {
	room, ok := h.rooms[roomID]
	if !ok {
		h.deliver(c, &Event{Kind: EventError, Room: roomID, Error: coreError(ErrCodeRoomNotFound, ErrRoomNotFound.Error())})
		return
	}
	if !room.AddClient(c) {
		h.deliver(c, &Event{Kind: EventError, Room: roomID, Error: coreError(ErrCodeAlreadyJoined, "already joined")})
		return
	}
	c.Rooms[roomID] = struct{}{}

	if history := room.History(); len(history) > 0 {
		h.deliver(c, &Event{Kind: EventHistory, Room: roomID, Messages: history})
	}
	h.log.Info().Str("client_id", c.ID).Str("room_id", roomID).Msg("client added to chat room")
}

func (h *Hub) leaveRoom(c *Client, roomID string) {
	room, ok := h.rooms[roomID]
	if !ok {
		h.deliver(c, &Event{Kind: EventError, Room: roomID, Error: coreError(ErrCodeRoomNotFound, ErrRoomNotFound.Error())})
		return
	}
	if !room.RemoveClient(c) {
		h.deliver(c, &Event{Kind: EventError, Room: roomID, Error: coreError(ErrCodeNotInRoom, "not in room")})
		return
	}
	delete(c.Rooms, roomID)
	h.log.Info().Str("client_id", c.ID).Str("room_id", roomID).Msg("client removed from chat room")
	h.pruneRoom(room)
}

func (h *Hub) sendMessage(c *Client, roomID string, msg Message) {
	room, ok := h.rooms[roomID]
	if !ok {
		h.deliver(c, &Event{Kind: EventError, Room: roomID, Error: coreError(ErrCodeRoomNotFound, ErrRoomNotFound.Error())})
		return
	}
	if !room.HasClient(c) {
		h.deliver(c, &Event{Kind: EventError, Room: roomID, Error: coreError(ErrCodeNotInRoom, "not in room")})
		return
	}

	msg.ID = h.newID()
	msg.Room = roomID
	msg.From = c.Role
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	room.Append(msg)
	room.Broadcast(&Event{Kind: EventRoomMessage, Room: roomID, Message: msg})
}

func (h *Hub) removeClient(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	delete(h.watchers, c)
	close(c.done)

	for roomID := range c.Rooms {
		room, ok := h.rooms[roomID]
		if !ok {
			continue
		}
		room.RemoveClient(c)
		h.log.Info().Str("client_id", c.ID).Str("room_id", roomID).Msg("client removed from chat room")
		h.pruneRoom(room)
	}
	c.Rooms = make(map[string]struct{})
	close(c.Events)
}

// pruneRoom drops a room once nobody is subscribed to it anymore.
func (h *Hub) pruneRoom(room *Room) {
	if !room.Empty() {
		return
	}
	delete(h.rooms, room.ID)
	for i, id := range h.order {
		if id == room.ID {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	h.log.Info().Str("room_id", room.ID).Msg("chat room pruned")
	h.notifyRooms()
}

func (h *Hub) roomIDs() []string {
	return append([]string{}, h.order...)
}

func (h *Hub) roomsEvent() *Event {
	return &Event{Kind: EventRoomsUpdated, ID: h.newID(), RoomIDs: h.roomIDs()}
}

func (h *Hub) notifyRooms() {
	ev := h.roomsEvent()
	for c := range h.watchers {
		h.deliverSnapshot(c, ev)
	}
}

// deliverSnapshot queues a room list snapshot. A watcher whose queue is full
// sheds its oldest events, as the newest snapshot supersedes them. Watchers
// that also joined rooms fall back to deliver so no chat message is lost.
func (h *Hub) deliverSnapshot(c *Client, ev *Event) {
	if len(c.Rooms) > 0 {
		h.deliver(c, ev)
		return
	}
	for {
		select {
		case c.Events <- ev:
			return
		default:
		}
		select {
		case <-c.Events:
			h.log.Debug().Str("client_id", c.ID).Msg("replace stale room snapshot")
		default:
		}
	}
}

func (h *Hub) deliver(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		h.log.Warn().Str("client_id", c.ID).Msg("drop event for slow client")
	}
}
