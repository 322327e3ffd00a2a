package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/supportchat/internal/config"
	"github.com/vovakirdan/supportchat/internal/log"
)

var rootCmd = &cobra.Command{
	Use:           "supportchat",
	Short:         "Customer support chat server and console clients",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	flagConfigPath string
	flagLogLevel   string
	flagOrigin     string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagConfigPath, "config", "", "path to config file (default $SUPPORTCHAT_CONFIG_DEFAULT_PATH or ./config.yaml)")
	flags.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&flagOrigin, "origin", "", "page origin the console clients connect to, e.g. https://chat.example.com")

	rootCmd.AddCommand(serveCmd, agentCmd, customerCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger := log.NewWithWriter(os.Stderr, "info", false)
		logger.Fatal().Err(err).Msg("supportchat exited with error")
	}
}

// loadConfig resolves configuration and applies command line overrides.
// Logs go to w so console clients keep stdout for the chat.
func loadConfig(w io.Writer) (config.Config, *zerolog.Logger, error) {
	bootstrap := log.NewWithWriter(w, "info", false)

	cfg, path, err := config.Load(bootstrap, flagConfigPath)
	if err != nil {
		return cfg, bootstrap, err
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagOrigin != "" {
		cfg.Client.Origin = flagOrigin
	}

	logger := log.NewWithWriter(w, cfg.LogLevel, cfg.LogJSON)
	logger.Debug().Str("config", path).Msg("configuration loaded")
	return cfg, logger, nil
}
