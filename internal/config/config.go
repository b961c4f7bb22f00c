package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Telegram
	BotToken           string `env:"BOT_TOKEN"`
	DropPendingUpdates bool   `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`

	// Completion service
	OpenAIBaseURL  string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1/"`
	Model          string        `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"90s"`

	// Consultation behavior
	ProgressEnabled     bool          `env:"PROGRESS_ENABLED" envDefault:"true"`
	SniffImageMediaType bool          `env:"IMAGE_SNIFF_MEDIA_TYPE" envDefault:"false"`
	MaxImageBytes       int           `env:"MAX_IMAGE_BYTES" envDefault:"10485760"`
	SessionIdleTimeout  time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"24h"`

	// Rate limit (messages per minute per chat)
	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"6"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Telegram logging
	LogTelegramChatID int64 `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError     int   `env:"LOG_TOPIC_ERROR"`
	LogTopicFeedback  int   `env:"LOG_TOPIC_FEEDBACK"`
}

// Load reads a .env file from the working directory when present and then
// parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse builds the config from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.MaxImageBytes <= 0 {
		return nil, fmt.Errorf("parse config: MAX_IMAGE_BYTES must be positive")
	}
	return cfg, nil
}

// SlogLevel maps LOG_LEVEL to a slog level. Unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
