package config

import "time"

// Config holds server and client configuration values.
type Config struct {
	Server   ServerConfig `mapstructure:"server" yaml:"server"`
	Client   ClientConfig `mapstructure:"client" yaml:"client"`
	LogLevel string       `mapstructure:"log_level" yaml:"log_level"`
	LogJSON  bool         `mapstructure:"log_json" yaml:"log_json"`
}

// ServerConfig configures the chat server.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	// AllowedOrigins enables CORS and websocket origin checks for browser pages served elsewhere.
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	// MessageRateLimit caps chat messages per connection per minute; 0 disables it.
	MessageRateLimit int `mapstructure:"message_rate_limit" yaml:"message_rate_limit"`
}

// ClientConfig configures the console clients.
type ClientConfig struct {
	// Origin is the page origin sockets are built from, e.g. http://localhost:8080.
	Origin            string        `mapstructure:"origin" yaml:"origin"`
	ChatPath          string        `mapstructure:"chat_path" yaml:"chat_path"`
	AgentChatPath     string        `mapstructure:"agent_chat_path" yaml:"agent_chat_path"`
	NotificationsPath string        `mapstructure:"notifications_path" yaml:"notifications_path"`
	DialTimeout       time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   5 * time.Second,
			MessageRateLimit:  120,
		},
		Client: ClientConfig{
			Origin:            "http://localhost:8080",
			ChatPath:          "chat",
			AgentChatPath:     "agent/chat",
			NotificationsPath: "agent/notifications",
			DialTimeout:       5 * time.Second,
		},
		LogLevel: "info",
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.ReadHeaderTimeout != 0 {
		c.Server.ReadHeaderTimeout = other.Server.ReadHeaderTimeout
	}
	if other.Server.ShutdownTimeout != 0 {
		c.Server.ShutdownTimeout = other.Server.ShutdownTimeout
	}
	if len(other.Server.AllowedOrigins) > 0 {
		c.Server.AllowedOrigins = other.Server.AllowedOrigins
	}
	if other.Server.MessageRateLimit != 0 {
		c.Server.MessageRateLimit = other.Server.MessageRateLimit
	}
	if other.Client.Origin != "" {
		c.Client.Origin = other.Client.Origin
	}
	if other.Client.ChatPath != "" {
		c.Client.ChatPath = other.Client.ChatPath
	}
	if other.Client.AgentChatPath != "" {
		c.Client.AgentChatPath = other.Client.AgentChatPath
	}
	if other.Client.NotificationsPath != "" {
		c.Client.NotificationsPath = other.Client.NotificationsPath
	}
	if other.Client.DialTimeout != 0 {
		c.Client.DialTimeout = other.Client.DialTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogJSON {
		c.LogJSON = true
	}
}
