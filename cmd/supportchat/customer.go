package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/supportchat/internal/client"
	transporthttp "github.com/vovakirdan/supportchat/internal/transport/http"
)

var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Chat with support as a customer",
	Long: `Opens or resumes a support room and sends every input line to it.

Commands:
  /page   print the page as HTML
  /quit   exit`,
	RunE: runCustomer,
}

var flagRoom string

func init() {
	customerCmd.Flags().StringVar(&flagRoom, "room", "", "resume this room if it is still open")
}

func runCustomer(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	con, err := startConsole(ctx, cfg, client.Paths{Chat: cfg.Client.ChatPath}, logger, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer con.close()

	hc, err := customerHTTPClient(con.client.Origin(), flagRoom)
	if err != nil {
		return err
	}
	hc.Timeout = cfg.Client.DialTimeout

	roomID, err := con.client.CustomerRoom(ctx, hc)
	if err != nil {
		return err
	}
	if err := con.session.Select(roomID); err != nil {
		return err
	}
	fmt.Fprintf(con.out, "connected to room %s\n", roomID)

	return con.run(ctx, con.handleCommon)
}

// customerHTTPClient carries the room cookie the server resumes rooms from.
func customerHTTPClient(origin client.Origin, roomID string) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if roomID != "" {
		u, err := url.Parse(origin.HTTPURL("/"))
		if err != nil {
			return nil, err
		}
		jar.SetCookies(u, []*http.Cookie{{Name: transporthttp.ChatRoomCookie, Value: roomID, Path: "/"}})
	}
	return &http.Client{Jar: jar}, nil
}
