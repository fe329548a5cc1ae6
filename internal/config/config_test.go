package config

import (
	"os"
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		os.Unsetenv("HERBAL_DB_PATH")
		os.Unsetenv("HERBAL_EXPORT_DIR")
		os.Unsetenv("GEMINI_API_KEY")
		os.Unsetenv("TELEGRAM_ALLOW_USER_IDS")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "data/herbal-infusion.db" {
			t.Errorf("Expected default database path, got '%s'", cfg.DatabasePath)
		}
		if cfg.ExportDir != "recipes" {
			t.Errorf("Expected default export dir, got '%s'", cfg.ExportDir)
		}
		if cfg.GeminiAPIKey != "" {
			t.Errorf("Expected empty GeminiAPIKey, got '%s'", cfg.GeminiAPIKey)
		}
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("HERBAL_DB_PATH", "/tmp/test.db")
		t.Setenv("HERBAL_EXPORT_DIR", "/tmp/exports")
		t.Setenv("GEMINI_API_KEY", "AIzaTestKey")
		t.Setenv("TELEGRAM_ALLOW_USER_IDS", "123, 456")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "/tmp/test.db" {
			t.Errorf("Expected '/tmp/test.db', got '%s'", cfg.DatabasePath)
		}
		if cfg.GeminiAPIKey != "AIzaTestKey" {
			t.Errorf("Expected 'AIzaTestKey', got '%s'", cfg.GeminiAPIKey)
		}
		if len(cfg.TelegramAllowedUserIDs) != 2 || cfg.TelegramAllowedUserIDs[0] != 123 || cfg.TelegramAllowedUserIDs[1] != 456 {
			t.Errorf("Expected allowed user IDs [123 456], got %v", cfg.TelegramAllowedUserIDs)
		}
	})

	t.Run("BadAllowedUserIDs", func(t *testing.T) {
		t.Setenv("TELEGRAM_ALLOW_USER_IDS", "123,abc")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for a non-numeric user ID, got nil")
		}
	})
}

func TestRequireTelegram(t *testing.T) {
	t.Run("MissingToken", func(t *testing.T) {
		cfg := &Config{TelegramWebhookURL: "https://example.test/webhook"}
		if err := cfg.RequireTelegram(); err == nil {
			t.Fatal("Expected an error for missing TELEGRAM_BOT_TOKEN, got nil")
		}
	})

	t.Run("MissingWebhook", func(t *testing.T) {
		cfg := &Config{TelegramBotToken: "token"}
		if err := cfg.RequireTelegram(); err == nil {
			t.Fatal("Expected an error for missing TELEGRAM_WEBHOOK_URL, got nil")
		}
	})

	t.Run("Complete", func(t *testing.T) {
		cfg := &Config{TelegramBotToken: "token", TelegramWebhookURL: "https://example.test/webhook"}
		if err := cfg.RequireTelegram(); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	})
}
