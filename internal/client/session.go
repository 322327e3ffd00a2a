package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/vovakirdan/supportchat/internal/view"
)

var (
	// ErrNoActiveRoom is returned when sending before a room was selected.
	ErrNoActiveRoom = errors.New("no active room")
	// ErrSelectSuperseded is returned by Select when a later Select or Close won.
	ErrSelectSuperseded = errors.New("room selection superseded")
)

// Paths names the server endpoints a session connects to.
type Paths struct {
	// Chat is the per-room prefix, e.g. "chat" or "agent/chat".
	Chat string
	// Notifications is the room list endpoint, e.g. "agent/notifications".
	Notifications string
}

// Session owns the channels of one page.
// Start, ActiveRoom, Send and Close must run on the client's loop. Select
// must not: it dials off the loop and posts the channel swap back to it.
type Session struct {
	ctx    context.Context
	client *Client
	page   *view.Page
	paths  Paths

	rooms *RoomListChannel
	chat  *MessageChannel

	// seq orders selections; a dial finishing under an older seq is discarded.
	seq    uint64
	closed bool
}

// NewSession binds a client to a page. ctx bounds every channel the session opens.
func NewSession(ctx context.Context, c *Client, page *view.Page, paths Paths) *Session {
	return &Session{
		ctx:    ctx,
		client: c,
		page:   page,
		paths:  paths,
	}
}

// Start opens the room list channel. Clicking a room item selects that room.
func (s *Session) Start() error {
	if s.rooms != nil {
		return nil
	}
	rooms, err := s.client.OpenRoomListChannel(s.ctx, s.paths.Notifications, s.page.Rooms, s.onSelect)
	if err != nil {
		return err
	}
	s.rooms = rooms
	return nil
}

func (s *Session) onSelect(roomID string) {
	go func() {
		err := s.Select(roomID)
		if err != nil && !errors.Is(err, ErrSelectSuperseded) {
			s.client.log.Error().Err(err).Str("room_id", roomID).Msg("select room")
		}
	}()
}

// Select closes the current message channel, if any, and opens one for roomID.
// It returns once the new channel is active.
func (s *Session) Select(roomID string) error {
	loop := s.client.loop

	var (
		token uint64
		prev  *MessageChannel
	)
	if err := loop.Do(s.ctx, func() {
		s.seq++
		token = s.seq
		prev = s.chat
		s.chat = nil
		if prev != nil {
			prev.detach()
		}
	}); err != nil {
		return err
	}
	if prev != nil {
		if err := prev.Close(); err != nil {
			s.client.log.Debug().Err(err).Str("room_id", prev.RoomID()).Msg("close previous message channel")
		}
	}

	chat, err := s.client.dialMessageChannel(s.ctx, s.paths.Chat, roomID, s.page.Messages)
	if err != nil {
		return fmt.Errorf("select room %s: %w", roomID, err)
	}

	var current bool
	if err := loop.Do(s.ctx, func() {
		if s.closed || token != s.seq {
			return
		}
		current = true
		s.chat = chat
		chat.start()
	}); err != nil {
		_ = chat.Close()
		return err
	}
	if !current {
		_ = chat.Close()
		return ErrSelectSuperseded
	}
	return nil
}

// ActiveRoom returns the selected room id, or "" when none.
func (s *Session) ActiveRoom() string {
	if s.chat == nil {
		return ""
	}
	return s.chat.RoomID()
}

// Send forwards the page input to the active room.
func (s *Session) Send() error {
	if s.chat == nil {
		if view.IsBlank(s.page.Input.Value()) {
			return nil
		}
		return ErrNoActiveRoom
	}
	return s.chat.Send(s.ctx, s.page.Input)
}

// Close releases every channel the session opened.
func (s *Session) Close() error {
	s.closed = true
	s.seq++
	var errs []error
	if s.chat != nil {
		errs = append(errs, s.chat.Close())
		s.chat = nil
	}
	if s.rooms != nil {
		errs = append(errs, s.rooms.Close())
		s.rooms = nil
	}
	return errors.Join(errs...)
}
