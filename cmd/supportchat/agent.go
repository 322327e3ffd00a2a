package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/supportchat/internal/client"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Watch open rooms and answer customers",
	Long: `Opens the room list and lets the agent switch between rooms.

Commands:
  /rooms       list open rooms
  /join <id>   switch to a room
  /page        print the page as HTML
  /quit        exit
Any other line is sent to the current room.`,
	RunE: runAgent,
}

func runAgent(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	con, err := startConsole(ctx, cfg, client.Paths{
		Chat:          cfg.Client.AgentChatPath,
		Notifications: cfg.Client.NotificationsPath,
	}, logger, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer con.close()

	if err := con.do(con.session.Start); err != nil {
		return err
	}
	fmt.Fprintln(con.out, "watching rooms; /rooms to list, /join <id> to chat")

	return con.run(ctx, con.handleAgent)
}

func (c *console) handleAgent(cmd, arg string) (bool, error) {
	switch cmd {
	case "/rooms":
		return true, c.do(func() error {
			ids := c.page.Rooms.IDs()
			if len(ids) == 0 {
				_, err := fmt.Fprintln(c.out, "no open rooms")
				return err
			}
			active := c.session.ActiveRoom()
			for _, id := range ids {
				marker := " "
				if id == active {
					marker = "*"
				}
				fmt.Fprintf(c.out, "%s %s\n", marker, id)
			}
			return nil
		})
	case "/join":
		if arg == "" {
			return true, fmt.Errorf("usage: /join <room id>")
		}
		if err := c.do(func() error {
			if !slices.Contains(c.page.Rooms.IDs(), arg) {
				return fmt.Errorf("unknown room %s", arg)
			}
			return nil
		}); err != nil {
			return true, err
		}
		if err := c.session.Select(arg); err != nil {
			return true, err
		}
		_, err := fmt.Fprintf(c.out, "joined room %s\n", arg)
		return true, err
	}
	return c.handleCommon(cmd, arg)
}
