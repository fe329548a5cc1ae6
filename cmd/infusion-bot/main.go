package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"herbal-infusion-ai/internal/app"
	"herbal-infusion-ai/internal/config"
	"herbal-infusion-ai/internal/credential"
	"herbal-infusion-ai/internal/database"
	"herbal-infusion-ai/internal/keystore"
	"herbal-infusion-ai/internal/llm"
	"herbal-infusion-ai/internal/metrics"
	"herbal-infusion-ai/internal/recipe"
	"herbal-infusion-ai/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("Telegram configuration incomplete: %v", err)
	}

	ctx := context.Background()

	// 2. Initialize the SQLite database
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// 3. Resolve credentials and wire the Gemini client
	creds := credential.NewManager(keystore.NewSQLStore(db.SQL), cfg.GeminiAPIKey)
	snap := creds.Resolve(ctx)
	log.Printf("API key status at startup: %s", snap.Status)

	textGen := llm.NewGeminiClient(creds.Key)

	// 4. Initialize repositories and services
	recipeRepo := recipe.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	application := app.NewApp(creds, textGen, recipeRepo, metricsStore)

	// 5. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, application)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	// 6. Start Server with Graceful Shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Infusion Bot Server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
