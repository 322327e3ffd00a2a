package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/supportchat/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat server",
	RunE:  runServe,
}

var (
	flagAddr              string
	flagReadHeaderTimeout time.Duration
	flagShutdownTimeout   time.Duration
	flagAllowedOrigins    []string
)

func init() {
	flags := serveCmd.Flags()
	flags.StringVar(&flagAddr, "addr", "", "HTTP listen address")
	flags.DurationVar(&flagReadHeaderTimeout, "read-header-timeout", 0, "HTTP read header timeout")
	flags.DurationVar(&flagShutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout")
	flags.StringSliceVar(&flagAllowedOrigins, "allowed-origin", nil, "origin allowed to open sockets and call the API; repeat or comma-separated")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(os.Stdout)
	if err != nil {
		return err
	}

	if flagAddr != "" {
		cfg.Server.Addr = flagAddr
	}
	if flagReadHeaderTimeout != 0 {
		cfg.Server.ReadHeaderTimeout = flagReadHeaderTimeout
	}
	if flagShutdownTimeout != 0 {
		cfg.Server.ShutdownTimeout = flagShutdownTimeout
	}
	if len(flagAllowedOrigins) > 0 {
		cfg.Server.AllowedOrigins = flagAllowedOrigins
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(&cfg, logger)

	logger.Info().Str("addr", cfg.Server.Addr).Msg("starting supportchat server")
	if err := application.Run(ctx); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
