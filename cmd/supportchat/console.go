package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/vovakirdan/supportchat/internal/client"
	"github.com/vovakirdan/supportchat/internal/config"
	"github.com/vovakirdan/supportchat/internal/proto"
	"github.com/vovakirdan/supportchat/internal/view"
)

// console drives a session from line input. Page access always goes through the loop.
type console struct {
	in  io.Reader
	out io.Writer
	log *zerolog.Logger

	client  *client.Client
	loop    *client.Loop
	page    *view.Page
	session *client.Session

	loopCtx  context.Context
	stopLoop context.CancelFunc
}

func startConsole(ctx context.Context, cfg config.Config, paths client.Paths, logger *zerolog.Logger, in io.Reader, out io.Writer) (*console, error) {
	origin, err := client.ParseOrigin(cfg.Client.Origin)
	if err != nil {
		return nil, err
	}

	// The loop outlives ctx so channels can still be closed on it after a signal.
	loopCtx, stopLoop := context.WithCancel(context.Background())
	loop := client.NewLoop()
	go func() { _ = loop.Run(loopCtx) }()

	c := client.New(origin, client.WebsocketDialer{Timeout: cfg.Client.DialTimeout}, loop, logger)

	page := view.NewPage()
	page.Messages.OnAppend = func(msg proto.ChatMessage, _ *html.Node) {
		fmt.Fprintf(out, "[%s] %s\n", senderLabel(msg.Sender), msg.Text)
	}

	return &console{
		in:       in,
		out:      out,
		log:      logger,
		client:   c,
		loop:     loop,
		page:     page,
		session:  client.NewSession(ctx, c, page, paths),
		loopCtx:  loopCtx,
		stopLoop: stopLoop,
	}, nil
}

func (c *console) do(fn func() error) error {
	var fnErr error
	if err := c.loop.Do(c.loopCtx, func() { fnErr = fn() }); err != nil {
		return err
	}
	return fnErr
}

func (c *console) close() {
	if err := c.do(c.session.Close); err != nil {
		c.log.Debug().Err(err).Msg("close session")
	}
	c.stopLoop()
}

// run feeds input lines to handle until EOF, ctx cancellation or handle asks to stop.
func (c *console) run(ctx context.Context, handle func(cmd, arg string) (bool, error)) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-scanErr:
			return err
		case line := <-lines:
			cmd, arg := parseLine(line)
			more, err := handle(cmd, arg)
			if err != nil {
				fmt.Fprintf(c.out, "error: %v\n", err)
			}
			if !more {
				return nil
			}
		}
	}
}

// handleCommon covers the commands both consoles understand. Plain text is sent.
func (c *console) handleCommon(cmd, arg string) (bool, error) {
	switch cmd {
	case "/quit":
		return false, nil
	case "/page":
		return true, c.do(func() error {
			if err := c.page.Render(c.out); err != nil {
				return err
			}
			_, err := fmt.Fprintln(c.out)
			return err
		})
	case "":
		return true, c.do(func() error {
			c.page.Input.SetValue(arg)
			return c.session.Send()
		})
	default:
		return true, fmt.Errorf("unknown command %s", cmd)
	}
}

// parseLine splits "/cmd arg" into its parts. Anything else is text with an empty command.
func parseLine(line string) (cmd, arg string) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "/") {
		return "", line
	}
	cmd, arg, _ = strings.Cut(trimmed, " ")
	return cmd, strings.TrimSpace(arg)
}

func senderLabel(s proto.Sender) string {
	switch s {
	case proto.SenderAgent, proto.SenderSystem:
		return string(s)
	default:
		return string(proto.SenderCustomer)
	}
}
