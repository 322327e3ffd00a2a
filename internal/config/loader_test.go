package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWritesDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(envEnvironmentFile, filepath.Join(dir, "missing.env"))
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg, resolved, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if resolved != path {
		t.Fatalf("unexpected path %s", resolved)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected default config written: %v", err)
	}

	want := Default()
	if cfg.Server.Addr != want.Server.Addr || cfg.Client.NotificationsPath != want.Client.NotificationsPath {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Fatalf("unexpected shutdown timeout %v", cfg.Server.ShutdownTimeout)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	file := []byte("server:\n  addr: \":9000\"\n  shutdown_timeout: 2s\nclient:\n  origin: https://chat.example.com\nlog_level: debug\n")
	if err := os.WriteFile(path, file, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	envFile := filepath.Join(dir, "environment")
	if err := os.WriteFile(envFile, []byte("SUPPORTCHAT_LOG_JSON=true\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv(envEnvironmentFile, envFile)
	t.Setenv("SUPPORTCHAT_SERVER_ADDR", ":9100")
	t.Cleanup(func() { os.Unsetenv("SUPPORTCHAT_LOG_JSON") })

	cfg, _, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Addr != ":9100" {
		t.Fatalf("env should override file, got %s", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout != 2*time.Second || cfg.Client.Origin != "https://chat.example.com" || cfg.LogLevel != "debug" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if !cfg.LogJSON {
		t.Fatal("expected log_json from env file")
	}
	if cfg.Client.ChatPath != "chat" {
		t.Fatalf("defaults should survive, got %q", cfg.Client.ChatPath)
	}
}

func TestUpdateFrom(t *testing.T) {
	cfg := Default()
	cfg.UpdateFrom(Config{
		Server:   ServerConfig{Addr: ":1234"},
		Client:   ClientConfig{Origin: "http://example.com"},
		LogLevel: "warn",
	})
	if cfg.Server.Addr != ":1234" || cfg.Client.Origin != "http://example.com" || cfg.LogLevel != "warn" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Server.ReadHeaderTimeout != 5*time.Second || cfg.Client.ChatPath != "chat" {
		t.Fatal("zero values must not overwrite")
	}
}
