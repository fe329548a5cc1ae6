// Package llm abstracts the text-generation backend behind a narrow
// interface so the submission flow and tests never depend on a concrete
// provider client.
package llm

import (
	"context"

	"herbal-infusion-ai/internal/shared"
)

// ContentResponse carries the raw model output plus its token accounting.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator produces a text completion for a prompt. Implementations
// classify their own transport and provider errors.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}
