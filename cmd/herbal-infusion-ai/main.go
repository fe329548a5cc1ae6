package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"herbal-infusion-ai/internal/app"
	"herbal-infusion-ai/internal/config"
	"herbal-infusion-ai/internal/credential"
	"herbal-infusion-ai/internal/database"
	"herbal-infusion-ai/internal/export"
	"herbal-infusion-ai/internal/keystore"
	"herbal-infusion-ai/internal/llm"
	"herbal-infusion-ai/internal/metrics"
	"herbal-infusion-ai/internal/recipe"
	"herbal-infusion-ai/internal/shared"
)

func main() {
	ctx := context.Background()

	// Optional .env for local development.
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	creds := credential.NewManager(keystore.NewSQLStore(db.SQL), cfg.GeminiAPIKey)
	creds.Resolve(ctx)

	recipeRepo := recipe.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)
	textGen := llm.NewGeminiClient(creds.Key)

	application := app.NewApp(creds, textGen, recipeRepo, metricsStore)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "key":
		runKey(ctx, application, os.Args[2:])
	case "generate":
		runGenerate(ctx, application, cfg, os.Args[2:])
	case "history":
		runHistory(ctx, recipeRepo, os.Args[2:])
	case "metrics-cleanup":
		runMetricsCleanup(ctx, metricsStore, os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runKey(ctx context.Context, application *app.App, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: herbal-infusion-ai key <set|clear|status> [value]")
		os.Exit(1)
	}

	switch args[0] {
	case "set":
		if len(args) < 2 {
			fmt.Println("Usage: herbal-infusion-ai key set <api-key>")
			os.Exit(1)
		}
		snap := application.SetKey(ctx, args[1])
		if snap.Status != credential.StatusValid {
			log.Fatalf("Key not saved: %s", snap.LastError)
		}
		fmt.Println("API key saved.")
	case "clear":
		snap := application.ClearKey(ctx)
		fmt.Println(snap.LastError)
	case "status":
		printKeyStatus(application.Credentials.Snapshot())
	default:
		fmt.Printf("Unknown key subcommand: %s\n", args[0])
		os.Exit(1)
	}
}

func printKeyStatus(snap credential.Snapshot) {
	fmt.Printf("Status: %s\n", snap.Status)
	if snap.Status == credential.StatusValid {
		key := snap.Key
		if len(key) > 4 {
			key = "****" + key[len(key)-4:]
		}
		fmt.Printf("Key: %s\n", key)
	}
	if snap.LastError != "" {
		fmt.Printf("Note: %s\n", snap.LastError)
	}
}

func runGenerate(ctx context.Context, application *app.App, cfg *config.Config, args []string) {
	genCmd := flag.NewFlagSet("generate", flag.ExitOnError)
	infusionType := genCmd.String("type", string(recipe.InfusionDrinkMix), "Infusion type")
	herbs := genCmd.String("herbs", "", "Main herbs (optional, comma-separated)")
	effects := genCmd.String("effects", "", "Desired effects (required)")
	allergies := genCmd.String("allergies", "", "Allergies or avoidances (optional)")
	useALTA1 := genCmd.Bool("alta1", false, "Tailor the recipe for the ALTA1 Ultrasonic Infuser")
	outDir := genCmd.String("out", cfg.ExportDir, "Directory for the exported recipe file")
	noExport := genCmd.Bool("no-export", false, "Print the recipe without writing a file")
	genCmd.Parse(args)

	prefs := recipe.Preferences{
		InfusionType:   recipe.InfusionType(*infusionType),
		MainHerbs:      *herbs,
		DesiredEffects: *effects,
		Allergies:      *allergies,
		UseALTA1:       *useALTA1,
	}

	rec, err := application.Generate(ctx, prefs)
	if err != nil {
		log.Fatalf("Generation failed: %s", shared.UserMessage(err))
	}

	fmt.Print(export.Format(rec))

	if !*noExport {
		path, err := export.WriteFile(*outDir, rec)
		if err != nil {
			log.Fatalf("Failed to export recipe: %v", err)
		}
		fmt.Printf("\nSaved to %s\n", path)
	}
}

func runHistory(ctx context.Context, repo *recipe.Repository, args []string) {
	histCmd := flag.NewFlagSet("history", flag.ExitOnError)
	limit := histCmd.Int("n", 10, "Number of recipes to list")
	histCmd.Parse(args)

	entries, err := repo.List(ctx, *limit)
	if err != nil {
		log.Fatalf("Failed to list history: %v", err)
	}
	if len(entries) == 0 {
		fmt.Println("No recipes generated yet.")
		return
	}
	for _, entry := range entries {
		fmt.Printf("%s  %s  %s\n", entry.CreatedAt.Format("2006-01-02 15:04"), entry.ID, entry.Title)
	}
}

func runMetricsCleanup(ctx context.Context, store *metrics.Store, args []string) {
	cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
	days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
	cleanupCmd.Parse(args)

	affected, err := store.Cleanup(ctx, *days)
	if err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}
	fmt.Printf("Successfully removed %d old metric records.\n", affected)
}

func printUsage() {
	fmt.Println("Usage: herbal-infusion-ai <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  key set <api-key>   Save your Gemini API key")
	fmt.Println("  key clear           Remove the saved key")
	fmt.Println("  key status          Show key status")
	fmt.Println("  generate            Generate an infusion recipe (see -h)")
	fmt.Println("  history             List previously generated recipes")
	fmt.Println("  metrics-cleanup     Remove old generation metrics")
}
