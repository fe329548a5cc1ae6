package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultDatabasePath = "data/herbal-infusion.db"
	defaultExportDir    = "recipes"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string
	ExportDir    string

	// GeminiAPIKey is the environment-provided key. It is a developer
	// convenience fallback; the durable key store takes precedence and the
	// credential manager treats an empty value as "not provided".
	GeminiAPIKey string

	// Telegram Config (required for the bot, unused by the CLI)
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	dbPath := os.Getenv("HERBAL_DB_PATH")
	if dbPath == "" {
		dbPath = defaultDatabasePath
	}

	exportDir := os.Getenv("HERBAL_EXPORT_DIR")
	if exportDir == "" {
		exportDir = defaultExportDir
	}

	var allowedIDs []int64
	if raw := os.Getenv("TELEGRAM_ALLOW_USER_IDS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid TELEGRAM_ALLOW_USER_IDS entry %q: %w", part, err)
			}
			allowedIDs = append(allowedIDs, id)
		}
	}

	return &Config{
		DatabasePath:           dbPath,
		ExportDir:              exportDir,
		GeminiAPIKey:           os.Getenv("GEMINI_API_KEY"),
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowedIDs,
	}, nil
}

// RequireTelegram validates the fields the bot entrypoint depends on.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}
