package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/supportchat/internal/proto"
	"github.com/vovakirdan/supportchat/internal/view"
)

// RoomListChannel is the session-wide connection announcing live rooms.
type RoomListChannel struct {
	url      string
	conn     Conn
	loop     *Loop
	list     *view.RoomList
	onSelect func(roomID string)
	log      zerolog.Logger

	// known is only read and written on the loop.
	known []string

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// OpenRoomListChannel connects to {origin}/{path} and keeps list equal to the
// latest snapshot. Every new item is wired to onSelect.
func (c *Client) OpenRoomListChannel(ctx context.Context, path string, list *view.RoomList, onSelect func(roomID string)) (*RoomListChannel, error) {
	url := c.origin.SocketURL(path)
	logger := c.log.With().Str("url", url).Logger()

	conn, err := c.dialer.Dial(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open room list channel: %w", err)
	}
	logger.Info().Msg("notification connection established")

	readCtx, cancel := context.WithCancel(ctx)
	ch := &RoomListChannel{
		url:      url,
		conn:     conn,
		loop:     c.loop,
		list:     list,
		onSelect: onSelect,
		log:      logger,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go ch.readLoop(readCtx)
	return ch, nil
}

// Done is closed once the channel stops reading.
func (ch *RoomListChannel) Done() <-chan struct{} {
	return ch.done
}

func (ch *RoomListChannel) readLoop(ctx context.Context) {
	defer close(ch.done)
	for {
		data, err := ch.conn.Read(ctx)
		if err != nil {
			logClosed(&ch.log, "notification", err)
			return
		}

		n, err := proto.DecodeRoomNotification(data)
		if err != nil {
			ch.log.Warn().Err(err).Int("size", len(data)).Msg("drop inbound notification frame")
			continue
		}
		ch.log.Debug().Str("notification_id", n.ID).Strs("room_ids", n.RoomIDs).Msg("notification received")

		if err := ch.loop.Post(ctx, func() { ch.apply(n.RoomIDs) }); err != nil {
			return
		}
	}
}

// apply prunes rooms missing from the snapshot, then adds new ones.
func (ch *RoomListChannel) apply(snapshot []string) {
	diff := Reconcile(ch.known, snapshot)
	if diff.Empty() {
		return
	}
	for _, id := range diff.Remove {
		ch.list.Remove(id)
	}
	for _, id := range diff.Add {
		ch.list.Add(id, ch.onSelect)
	}
	ch.known = diff.Next
	ch.log.Debug().Int("removed", len(diff.Remove)).Int("added", len(diff.Add)).Msg("room list reconciled")
}

// Close releases the connection.
func (ch *RoomListChannel) Close() error {
	ch.closeOnce.Do(func() {
		ch.closeErr = ch.conn.Close()
		ch.cancel()
	})
	return ch.closeErr
}
