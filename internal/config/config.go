package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultConfigPath      = "config.toml"
	DefaultHTTPAddr        = ":8080"
	DefaultUpstreamBaseURL = "http://127.0.0.1:3000"
	DefaultFetchTimeout    = 10
	DefaultReplyTimeout    = 5
	DefaultChatTimeout     = 120
	DefaultVisionTimeout   = 60
	DefaultHistoryWindow   = 20
	DefaultMaxFetchBytes   = 50 * 1024 * 1024
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Upstream UpstreamConfig `toml:"upstream"`
	Chat     ModelConfig    `toml:"chat"`
	Vision   ModelConfig    `toml:"vision"`
	Scratch  ScratchConfig  `toml:"scratch"`
	Archive  ArchiveConfig  `toml:"archive"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
	// WebhookToken is the static bearer token the upstream presents on /ai-webhook.
	WebhookToken string `toml:"webhook_token"`
}

// UpstreamConfig points at the chat server that sends webhooks and receives replies.
type UpstreamConfig struct {
	BaseURL             string `toml:"base_url"`
	FetchTimeoutSeconds int    `toml:"fetch_timeout_seconds"`
	ReplyTimeoutSeconds int    `toml:"reply_timeout_seconds"`
	MaxFetchBytes       int64  `toml:"max_fetch_bytes"`
	HistoryWindow       int    `toml:"history_window"`
}

func (c UpstreamConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

func (c UpstreamConfig) ReplyTimeout() time.Duration {
	return time.Duration(c.ReplyTimeoutSeconds) * time.Second
}

// ModelConfig describes an OpenAI-compatible model endpoint.
type ModelConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

func (c ModelConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type ScratchConfig struct {
	Root string `toml:"root"`
}

// ArchiveConfig bounds extraction of attacker-supplied archives.
type ArchiveConfig struct {
	MaxTotalBytes int64 `toml:"max_total_bytes"`
	MaxEntryBytes int64 `toml:"max_entry_bytes"`
	MaxEntries    int   `toml:"max_entries"`
	MaxDepth      int   `toml:"max_depth"`
}

func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Upstream: UpstreamConfig{
			BaseURL:             DefaultUpstreamBaseURL,
			FetchTimeoutSeconds: DefaultFetchTimeout,
			ReplyTimeoutSeconds: DefaultReplyTimeout,
			MaxFetchBytes:       DefaultMaxFetchBytes,
			HistoryWindow:       DefaultHistoryWindow,
		},
		Chat: ModelConfig{
			TimeoutSeconds: DefaultChatTimeout,
		},
		Vision: ModelConfig{
			TimeoutSeconds: DefaultVisionTimeout,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
