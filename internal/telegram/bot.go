package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"herbal-infusion-ai/internal/app"
	"herbal-infusion-ai/internal/config"
	"herbal-infusion-ai/internal/credential"
	"herbal-infusion-ai/internal/export"
	"herbal-infusion-ai/internal/recipe"
	"herbal-infusion-ai/internal/shared"
)

// Bot wraps the Telegram API around the application: it collects preferences
// from chat messages and renders generated recipes back as text.
type Bot struct {
	api *tgbotapi.BotAPI
	app *app.App
	cfg *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, application *app.App) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{api: bot, app: application, cfg: cfg}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}

	if !isAllowed {
		log.Printf("Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)

	switch {
	case text == "/start" || text == "/help":
		b.send(msg.Chat.ID, helpText)
	case strings.HasPrefix(text, "/key"):
		b.handleSetKey(msg.Chat.ID, strings.TrimSpace(strings.TrimPrefix(text, "/key")))
	case text == "/clearkey":
		snap := b.app.ClearKey(context.Background())
		b.send(msg.Chat.ID, snap.LastError)
	case text == "/status":
		b.handleStatus(msg.Chat.ID)
	default:
		b.handleGenerate(msg.Chat.ID, text)
	}
}

const helpText = `I craft herbal infusion recipes.

/key <api-key> - save your Gemini API key
/clearkey - remove the saved key
/status - show key status
Any other message is treated as the desired effects for a Drink Mix/Tea recipe. Add "alta1" anywhere in the message to tailor it for the ALTA1 Ultrasonic Infuser.`

func (b *Bot) handleSetKey(chatID int64, candidate string) {
	if candidate == "" {
		b.send(chatID, "Usage: /key <api-key>")
		return
	}
	snap := b.app.SetKey(context.Background(), candidate)
	if snap.Status == credential.StatusValid {
		b.send(chatID, fmt.Sprintf("API key saved. (****%s)", lastFour(snap.Key)))
		return
	}
	b.send(chatID, snap.LastError)
}

func (b *Bot) handleStatus(chatID int64) {
	snap := b.app.Credentials.Snapshot()
	if snap.Status == credential.StatusValid {
		b.send(chatID, fmt.Sprintf("API key is configured. (****%s)", lastFour(snap.Key)))
		return
	}
	text := fmt.Sprintf("Key status: %s", snap.Status)
	if snap.LastError != "" {
		text += "\n" + snap.LastError
	}
	b.send(chatID, text)
}

func (b *Bot) handleGenerate(chatID int64, text string) {
	if text == "" {
		b.send(chatID, helpText)
		return
	}

	prefs := prefsFromText(text)

	b.send(chatID, "Brewing your recipe, one moment...")

	rec, err := b.app.Generate(context.Background(), prefs)
	if err != nil {
		log.Printf("Generation failed for chat %d: %v", chatID, err)
		b.send(chatID, shared.UserMessage(err))
		return
	}

	b.send(chatID, export.Format(rec))
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}

// prefsFromText derives generation preferences from a free-text chat
// message. Chat has no form, so the message body is the desired effects and
// mentioning the device opts into ALTA1 instructions.
func prefsFromText(text string) recipe.Preferences {
	return recipe.Preferences{
		InfusionType:   recipe.InfusionDrinkMix,
		DesiredEffects: text,
		UseALTA1:       strings.Contains(strings.ToLower(text), "alta1"),
	}
}

func lastFour(key string) string {
	if len(key) < 4 {
		return key
	}
	return key[len(key)-4:]
}
