package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/supportchat/internal/proto"
	"github.com/vovakirdan/supportchat/internal/view"
)

// MessageChannel is the push connection of one chat room.
type MessageChannel struct {
	roomID string
	url    string
	conn   Conn
	loop   *Loop
	list   *view.MessageList
	log    zerolog.Logger

	readCtx   context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// OpenMessageChannel connects to {origin}/{path}/{roomID} and renders every
// received message into list. The connection lives until Close or ctx ends.
func (c *Client) OpenMessageChannel(ctx context.Context, path, roomID string, list *view.MessageList) (*MessageChannel, error) {
	ch, err := c.dialMessageChannel(ctx, path, roomID, list)
	if err != nil {
		return nil, err
	}
	ch.start()
	return ch, nil
}

// dialMessageChannel connects without reading; start begins delivery to the list.
func (c *Client) dialMessageChannel(ctx context.Context, path, roomID string, list *view.MessageList) (*MessageChannel, error) {
	url := c.origin.SocketURL(path, roomID)
	logger := c.log.With().Str("room_id", roomID).Str("url", url).Logger()

	conn, err := c.dialer.Dial(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open message channel: %w", err)
	}
	logger.Info().Msg("message connection established")

	readCtx, cancel := context.WithCancel(ctx)
	return &MessageChannel{
		roomID:  roomID,
		url:     url,
		conn:    conn,
		loop:    c.loop,
		list:    list,
		log:     logger,
		readCtx: readCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}, nil
}

func (ch *MessageChannel) start() {
	go ch.readLoop(ch.readCtx)
}

// RoomID returns the room this channel is scoped to.
func (ch *MessageChannel) RoomID() string {
	return ch.roomID
}

// Done is closed once the channel stops reading.
func (ch *MessageChannel) Done() <-chan struct{} {
	return ch.done
}

func (ch *MessageChannel) readLoop(ctx context.Context) {
	defer close(ch.done)
	for {
		data, err := ch.conn.Read(ctx)
		if err != nil {
			logClosed(&ch.log, "message", err)
			return
		}

		msg, err := proto.DecodeChatMessage(data)
		if err != nil {
			ch.log.Warn().Err(err).Int("size", len(data)).Msg("drop inbound message frame")
			continue
		}
		ch.log.Debug().Str("message_id", msg.ID).Str("sender", string(msg.Sender)).Msg("message received")

		if err := ch.loop.Post(ctx, func() {
			if ch.closed.Load() {
				return
			}
			ch.list.Show(msg)
		}); err != nil {
			return
		}
	}
}

// Send writes the trimmed value of input as one frame and clears input.
// Whitespace-only input is ignored and left untouched.
func (ch *MessageChannel) Send(ctx context.Context, input *view.Input) error {
	text := strings.TrimSpace(input.Value())
	if text == "" {
		return nil
	}
	if ch.closed.Load() {
		return ErrClosed
	}
	if err := ch.conn.WriteJSON(ctx, proto.OutboundMessage{Text: text}); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	input.Clear()
	return nil
}

// detach stops rendering without waiting for the connection to close.
func (ch *MessageChannel) detach() {
	ch.closed.Store(true)
}

// Close releases the connection. Messages still queued on the loop are discarded.
func (ch *MessageChannel) Close() error {
	ch.closeOnce.Do(func() {
		ch.closed.Store(true)
		ch.closeErr = ch.conn.Close()
		ch.cancel()
	})
	return ch.closeErr
}
