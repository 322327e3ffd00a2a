package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix            = "SUPPORTCHAT"
	envConfigDefaultPath = "SUPPORTCHAT_CONFIG_DEFAULT_PATH"
	envEnvironmentFile   = "SUPPORTCHAT_ENV_FILE"
	defaultConfigName    = "config.yaml"
	defaultEnvFile       = "etc/environment"
)

// Load builds configuration from defaults, optional config file, env vars, and returns the resolved path.
// Precedence: defaults < config file < env vars < caller overrides.
// Variables from etc/environment (or $SUPPORTCHAT_ENV_FILE) are loaded first without overriding the process env.
func Load(logger *zerolog.Logger, explicitPath string) (Config, string, error) {
	cfg := Default()

	if err := loadEnvFile(); err != nil {
		return cfg, "", err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.read_header_timeout", cfg.Server.ReadHeaderTimeout)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)
	v.SetDefault("server.allowed_origins", cfg.Server.AllowedOrigins)
	v.SetDefault("server.message_rate_limit", cfg.Server.MessageRateLimit)
	v.SetDefault("client.origin", cfg.Client.Origin)
	v.SetDefault("client.chat_path", cfg.Client.ChatPath)
	v.SetDefault("client.agent_chat_path", cfg.Client.AgentChatPath)
	v.SetDefault("client.notifications_path", cfg.Client.NotificationsPath)
	v.SetDefault("client.dial_timeout", cfg.Client.DialTimeout)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_json", cfg.LogJSON)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := resolveConfigPath(explicitPath)
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			if writeErr := writeDefaultConfig(configPath, cfg); writeErr != nil && logger != nil {
				logger.Warn().Err(writeErr).Str("path", configPath).Msg("failed to write default config")
			} else if logger != nil {
				logger.Info().Str("path", configPath).Msg("created default config")
			}
			// try reading again in case it was just written
			if readErr := v.ReadInConfig(); readErr != nil && logger != nil {
				logger.Warn().Err(readErr).Str("path", configPath).Msg("failed to read config after writing default")
			}
		} else {
			return cfg, configPath, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, configPath, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, configPath, nil
}

func loadEnvFile() error {
	path := os.Getenv(envEnvironmentFile)
	if path == "" {
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func resolveConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}

	if base := os.Getenv(envConfigDefaultPath); base != "" {
		if err := os.MkdirAll(base, 0o755); err == nil {
			return filepath.Join(base, defaultConfigName)
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return defaultConfigName
	}
	return filepath.Join(cwd, defaultConfigName)
}

func writeDefaultConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
