// Package app wires the credential manager, generation client, parser, and
// stores into the submission boundary: every failure is recovered here and
// mapped to a classified, user-presentable error.
package app

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"herbal-infusion-ai/internal/credential"
	"herbal-infusion-ai/internal/llm"
	"herbal-infusion-ai/internal/metrics"
	"herbal-infusion-ai/internal/recipe"
	"herbal-infusion-ai/internal/shared"
)

// generateTimeout bounds the network round-trip to the generation service.
const generateTimeout = 90 * time.Second

// App holds the application's dependencies.
type App struct {
	Credentials  *credential.Manager
	TextGen      llm.TextGenerator
	History      *recipe.Repository
	MetricsStore *metrics.Store

	inFlight atomic.Bool

	mu         sync.Mutex
	lastRecipe *recipe.Recipe
}

// NewApp creates and initializes a new App instance.
func NewApp(
	creds *credential.Manager,
	textGen llm.TextGenerator,
	history *recipe.Repository,
	metricsStore *metrics.Store,
) *App {
	return &App{
		Credentials:  creds,
		TextGen:      textGen,
		History:      history,
		MetricsStore: metricsStore,
	}
}

// Generate runs one full submission: gate on credential status, build the
// prompt, call the model, parse the response, persist the result. At most one
// generation may be in flight at a time; a submission while the status is not
// valid is rejected without a network call. A failed attempt leaves the last
// successful recipe untouched.
func (a *App) Generate(ctx context.Context, prefs recipe.Preferences) (*recipe.Recipe, error) {
	if err := prefs.Validate(); err != nil {
		return nil, shared.WrapFailure(shared.FailureUnknown, err.Error(), err)
	}

	snap := a.Credentials.Snapshot()
	if snap.Status != credential.StatusValid || snap.Key == "" {
		// Mirror the rejection into credential state: a present-but-unusable
		// key reads as a service error, an absent one as missing.
		a.Credentials.ReportRemoteRejection()
		return nil, shared.NewFailure(
			shared.FailureCredentialMissing,
			"Cannot generate recipe: API key is not valid or not configured.",
		)
	}

	if !a.inFlight.CompareAndSwap(false, true) {
		return nil, shared.NewFailure(
			shared.FailureUnknown,
			"A recipe generation is already in progress. Please wait for it to finish.",
		)
	}
	defer a.inFlight.Store(false)

	prompt, err := recipe.BuildPrompt(prefs)
	if err != nil {
		return nil, shared.WrapFailure(shared.FailureUnknown, "Failed to build the generation prompt.", err)
	}

	genCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	start := time.Now()
	resp, err := a.TextGen.GenerateContent(genCtx, prompt)
	meta := shared.GenerationMeta{
		Model:   llm.ModelName,
		Usage:   resp.Usage,
		Latency: time.Since(start),
	}
	if err != nil {
		if shared.KindOf(err) == shared.FailureCredentialRejected {
			a.Credentials.ReportRemoteRejection()
		}
		a.recordMetric(meta, string(shared.KindOf(err)))
		return nil, err
	}

	rec, err := recipe.Parse(resp.Content)
	if err != nil {
		// The credential was accepted by the transport; parsing failures do
		// not touch credential status.
		a.recordMetric(meta, string(shared.KindOf(err)))
		return nil, err
	}

	a.recordMetric(meta, "success")

	if a.History != nil {
		if _, err := a.History.Save(ctx, *rec); err != nil {
			log.Printf("Failed to save recipe to history: %v", err)
		}
	}

	a.mu.Lock()
	a.lastRecipe = rec
	a.mu.Unlock()

	return rec, nil
}

// LastRecipe returns the most recent successful result, or nil.
func (a *App) LastRecipe() *recipe.Recipe {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastRecipe
}

// SetKey adopts and persists a candidate API key.
func (a *App) SetKey(ctx context.Context, candidate string) credential.Snapshot {
	return a.Credentials.Set(ctx, candidate)
}

// ClearKey removes the API key and discards the last displayed result, which
// is not meaningful without a credential context.
func (a *App) ClearKey(ctx context.Context) credential.Snapshot {
	snap := a.Credentials.Clear(ctx)

	a.mu.Lock()
	a.lastRecipe = nil
	a.mu.Unlock()

	return snap
}

func (a *App) recordMetric(meta shared.GenerationMeta, outcome string) {
	if a.MetricsStore == nil {
		return
	}
	if err := a.MetricsStore.RecordMeta(context.Background(), meta, outcome); err != nil {
		log.Printf("Failed to record generation metric: %v", err)
	}
}
